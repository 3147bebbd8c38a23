package usecase

import (
	"reflect"
	"testing"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

func fullRecord() domain.Record {
	return domain.Record{
		domain.FieldUserID:       int64(1),
		domain.FieldYear:         "2022",
		domain.FieldRegion:       "South",
		domain.FieldTravelMode:   "train",
		domain.FieldTravelMotive: "work",
		domain.FieldTripCount:    int64(10),
		domain.FieldKmTravelled:  int64(500),
	}
}

func TestMissingFields_Complete(t *testing.T) {
	if got := MissingFields(fullRecord()); len(got) != 0 {
		t.Errorf("MissingFields() = %v, want empty", got)
	}
}

func TestMissingFields_EachField(t *testing.T) {
	for _, field := range domain.RequiredFields() {
		for _, mode := range []string{"absent", "null"} {
			t.Run(field+"/"+mode, func(t *testing.T) {
				rec := fullRecord()
				if mode == "absent" {
					delete(rec, field)
				} else {
					rec[field] = nil
				}
				got := MissingFields(rec)
				if !reflect.DeepEqual(got, []string{field}) {
					t.Errorf("MissingFields() = %v, want [%s]", got, field)
				}
			})
		}
	}
}

func TestMissingFields_FixedOrder(t *testing.T) {
	rec := fullRecord()
	// removal order differs from the required order
	delete(rec, domain.FieldKmTravelled)
	rec[domain.FieldRegion] = nil
	delete(rec, domain.FieldUserID)

	want := []string{domain.FieldUserID, domain.FieldRegion, domain.FieldKmTravelled}
	if got := MissingFields(rec); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingFields() = %v, want %v", got, want)
	}

	if got := MissingFields(domain.Record{}); !reflect.DeepEqual(got, domain.RequiredFields()) {
		t.Errorf("MissingFields(empty) = %v", got)
	}
}
