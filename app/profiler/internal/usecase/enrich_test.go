package usecase

import (
	"testing"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestEnrich_TravelFrequency(t *testing.T) {
	tests := []struct {
		trips *int
		want  domain.TravelFrequency
	}{
		{intPtr(250), domain.FrequencyVeryFrequent},
		{intPtr(201), domain.FrequencyVeryFrequent},
		{intPtr(200), domain.FrequencyFrequent},
		{intPtr(150), domain.FrequencyFrequent},
		{intPtr(75), domain.FrequencyModerate},
		{intPtr(50), domain.FrequencyOccasional},
		{intPtr(10), domain.FrequencyOccasional},
		{nil, domain.FrequencyUnknown},
	}
	for _, tt := range tests {
		p := Enrich(&domain.UserAggregatedData{TripCount: tt.trips})
		if p.TravelFrequency != tt.want {
			t.Errorf("trip_count=%v: TravelFrequency = %s, want %s", deref(tt.trips), p.TravelFrequency, tt.want)
		}
	}
}

func TestEnrich_TravelDistance(t *testing.T) {
	tests := []struct {
		km   *int
		want domain.TravelDistance
	}{
		{intPtr(6000), domain.DistanceLong},
		{intPtr(5000), domain.DistanceMedium},
		{intPtr(3000), domain.DistanceMedium},
		{intPtr(2000), domain.DistanceShort},
		{intPtr(500), domain.DistanceShort},
		{nil, domain.DistanceUnknown},
	}
	for _, tt := range tests {
		p := Enrich(&domain.UserAggregatedData{KmTravelled: tt.km})
		if p.TravelDistance != tt.want {
			t.Errorf("km_travelled=%v: TravelDistance = %s, want %s", deref(tt.km), p.TravelDistance, tt.want)
		}
	}
}

func TestEnrich_AvgKmPerTrip(t *testing.T) {
	p := Enrich(&domain.UserAggregatedData{TripCount: intPtr(100), KmTravelled: intPtr(2500)})
	if p.AvgKmPerTrip == nil || *p.AvgKmPerTrip != 25.0 {
		t.Errorf("AvgKmPerTrip = %v, want 25.0", p.AvgKmPerTrip)
	}

	p = Enrich(&domain.UserAggregatedData{TripCount: intPtr(3), KmTravelled: intPtr(100)})
	if p.AvgKmPerTrip == nil || *p.AvgKmPerTrip != 33.33 {
		t.Errorf("AvgKmPerTrip = %v, want 33.33", p.AvgKmPerTrip)
	}

	for _, d := range []domain.UserAggregatedData{
		{TripCount: intPtr(0), KmTravelled: intPtr(100)},
		{KmTravelled: intPtr(100)},
		{TripCount: intPtr(4)},
	} {
		if p := Enrich(&d); p.AvgKmPerTrip != nil {
			t.Errorf("AvgKmPerTrip = %v, want nil", *p.AvgKmPerTrip)
		}
	}
}

func TestEnrichOutcome_Invalid(t *testing.T) {
	if p := EnrichOutcome(&domain.ValidationOutcome{IsValid: false}); p != nil {
		t.Errorf("EnrichOutcome(invalid) = %+v, want nil", p)
	}
	if p := EnrichOutcome(nil); p != nil {
		t.Errorf("EnrichOutcome(nil) = %+v, want nil", p)
	}
}

func deref(p *int) any {
	if p == nil {
		return "<absent>"
	}
	return *p
}
