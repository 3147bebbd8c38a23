package data

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/repo"
)

const userTripsQuery = `
	SELECT
		t."Periods"::int,
		r.region,
		tm.mode,
		tmot.motive,
		t."Trip in a year"::float8,
		t."Km travelled in a year"::float8
	FROM trips t
	LEFT JOIN region r ON t."RegionCharacteristics" = r.code
	LEFT JOIN travel_mode tm ON t."TravelModes" = tm.code
	LEFT JOIN travel_motives tmot ON t."TravelMotives" = tmot.code
	WHERE t."UserId" = $1`

// tripRow 用户的一条出行记录，标签已关联为文本
type tripRow struct {
	Period sql.NullInt64
	Region sql.NullString
	Mode   sql.NullString
	Motive sql.NullString
	Trips  sql.NullFloat64
	Km     sql.NullFloat64
}

type aggregateRepo struct {
	data *Data
	log  *log.Helper
}

func NewAggregateRepo(data *Data, logger log.Logger) repo.AggregateRepo {
	return &aggregateRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *aggregateRepo) GetAggregate(ctx context.Context, userID int) (domain.Record, error) {
	rows, err := r.data.db.QueryContext(ctx, userTripsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var trips []tripRow
	for rows.Next() {
		var t tripRow
		if err := rows.Scan(&t.Period, &t.Region, &t.Mode, &t.Motive, &t.Trips, &t.Km); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}

	rec := aggregateTrips(userID, trips)
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	r.log.WithContext(ctx).Debugf("[USER: %d] aggregated %d trip rows", userID, len(trips))
	return rec, nil
}

// aggregateTrips 将出行记录聚合为一条用户记录，没有记录时返回 nil
func aggregateTrips(userID int, trips []tripRow) domain.Record {
	if len(trips) == 0 {
		return nil
	}

	regions := make([]sql.NullString, len(trips))
	modes := make([]sql.NullString, len(trips))
	motives := make([]sql.NullString, len(trips))
	periods := make([]sql.NullInt64, len(trips))
	tripCounts := make([]sql.NullFloat64, len(trips))
	kms := make([]sql.NullFloat64, len(trips))
	for i, t := range trips {
		regions[i], modes[i], motives[i] = t.Region, t.Mode, t.Motive
		periods[i] = t.Period
		tripCounts[i], kms[i] = t.Trips, t.Km
	}

	return domain.Record{
		domain.FieldUserID:       int64(userID),
		domain.FieldYear:         yearSpan(periods),
		domain.FieldRegion:       mostFrequent(regions),
		domain.FieldTravelMode:   mostFrequent(modes),
		domain.FieldTravelMotive: mostFrequent(motives),
		domain.FieldTripCount:    roundedSum(tripCounts),
		domain.FieldKmTravelled:  roundedSum(kms),
	}
}

// yearSpan 单一年份返回 "2022"，多个年份返回 "2018-2022"
func yearSpan(periods []sql.NullInt64) any {
	var (
		lo, hi int64
		found  bool
	)
	for _, p := range periods {
		if !p.Valid {
			continue
		}
		if !found || p.Int64 < lo {
			lo = p.Int64
		}
		if !found || p.Int64 > hi {
			hi = p.Int64
		}
		found = true
	}
	if !found {
		return nil
	}
	if lo == hi {
		return fmt.Sprintf("%d", lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// mostFrequent 出现次数最多的标签，次数相同按标签字典序取最小
func mostFrequent(labels []sql.NullString) any {
	counts := make(map[string]int)
	for _, l := range labels {
		if l.Valid {
			counts[l.String]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys[0]
}

// roundedSum 非 NULL 值求和后取整，全部为 NULL 时返回 nil
func roundedSum(values []sql.NullFloat64) any {
	var (
		sum   float64
		found bool
	)
	for _, v := range values {
		if v.Valid {
			sum += v.Float64
			found = true
		}
	}
	if !found {
		return nil
	}
	return int64(math.Round(sum))
}
