package usecase

import (
	"math"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

// Enrich 为校验通过的数据计算派生特征
func Enrich(data *domain.UserAggregatedData) *domain.EnrichedProfile {
	return &domain.EnrichedProfile{
		UserAggregatedData: *data,
		AvgKmPerTrip:       avgKmPerTrip(data.TripCount, data.KmTravelled),
		TravelFrequency:    travelFrequency(data.TripCount),
		TravelDistance:     travelDistance(data.KmTravelled),
	}
}

// EnrichOutcome 仅对有效结果计算特征，无效结果返回 nil
func EnrichOutcome(outcome *domain.ValidationOutcome) *domain.EnrichedProfile {
	if outcome == nil || !outcome.IsValid || outcome.Data == nil {
		return nil
	}
	return Enrich(outcome.Data)
}

func avgKmPerTrip(trips, km *int) *float64 {
	if trips == nil || km == nil || *trips <= 0 {
		return nil
	}
	avg := math.Round(float64(*km)/float64(*trips)*100) / 100
	return &avg
}

func travelFrequency(trips *int) domain.TravelFrequency {
	switch {
	case trips == nil:
		return domain.FrequencyUnknown
	case *trips > 200:
		return domain.FrequencyVeryFrequent
	case *trips > 100:
		return domain.FrequencyFrequent
	case *trips > 50:
		return domain.FrequencyModerate
	default:
		return domain.FrequencyOccasional
	}
}

func travelDistance(km *int) domain.TravelDistance {
	switch {
	case km == nil:
		return domain.DistanceUnknown
	case *km > 5000:
		return domain.DistanceLong
	case *km > 2000:
		return domain.DistanceMedium
	default:
		return domain.DistanceShort
	}
}
