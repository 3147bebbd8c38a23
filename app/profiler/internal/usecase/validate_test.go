package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

func newTestUseCase(repo *mockAggregateRepo, assistant *mockAssistant) *ProfileUseCase {
	return NewProfileUseCase(repo, assistant, mockPrompts{}, &mockGenerator{}, &mockGenerator{}, nil, log.DefaultLogger)
}

func TestValidate_UnknownUser(t *testing.T) {
	uc := newTestUseCase(&mockAggregateRepo{}, &mockAssistant{})

	got := uc.Validate(context.Background(), 42, "")
	if got.IsValid {
		t.Fatalf("Validate() is valid, want invalid")
	}
	if !reflect.DeepEqual(got.MissingFields, domain.RequiredFields()) {
		t.Errorf("MissingFields = %v, want full required set", got.MissingFields)
	}
	if !strings.Contains(got.Message, "42") {
		t.Errorf("Message = %q, want it to reference user 42", got.Message)
	}
	if got.Data != nil {
		t.Errorf("Data = %+v, want nil", got.Data)
	}
}

func TestValidate_StoreErrorIsNotFound(t *testing.T) {
	uc := newTestUseCase(&mockAggregateRepo{err: errors.New("connection reset")}, &mockAssistant{})

	got := uc.Validate(context.Background(), 5, "")
	if got.IsValid || len(got.MissingFields) != len(domain.RequiredFields()) {
		t.Errorf("Validate() = %+v", got)
	}
}

func TestValidate_Complete(t *testing.T) {
	assistant := &mockAssistant{}
	uc := newTestUseCase(&mockAggregateRepo{records: map[int]domain.Record{1: fullRecord()}}, assistant)

	got := uc.Validate(context.Background(), 1, "region=ignored")
	if !got.IsValid {
		t.Fatalf("Validate() = %+v, want valid", got)
	}
	if len(got.MissingFields) != 0 || got.Data.Region != "South" {
		t.Errorf("Validate() = %+v", got)
	}
	if assistant.calls != 0 {
		t.Errorf("assistant called for a complete record")
	}
}

func TestValidate_RecoveredFromJSON(t *testing.T) {
	assistant := &mockAssistant{err: errUnreachable}
	repo := &mockAggregateRepo{records: map[int]domain.Record{7: userSeven()}}
	uc := newTestUseCase(repo, assistant)

	got := uc.Validate(context.Background(), 7, `{"region": "North", "travel_mode": "car"}`)
	if !got.IsValid {
		t.Fatalf("Validate() = %+v, want valid", got)
	}
	d := got.Data
	if d.UserID != 7 || d.Region != "North" || d.TravelMode != "car" || d.TravelMotive != "leisure" {
		t.Errorf("Data = %+v", d)
	}
	if *d.TripCount != 80 || *d.KmTravelled != 2500 {
		t.Errorf("Data counts = %d/%d", *d.TripCount, *d.KmTravelled)
	}
	if assistant.calls != 0 {
		t.Errorf("assistant called %d times, want 0", assistant.calls)
	}
	// the stored record is never patched in place
	if repo.records[7][domain.FieldRegion] != nil {
		t.Errorf("repository record was modified")
	}
}

func TestValidate_HeuristicPartialRecovery(t *testing.T) {
	repo := &mockAggregateRepo{records: map[int]domain.Record{7: userSeven()}}
	uc := newTestUseCase(repo, &mockAssistant{err: errUnreachable})

	got := uc.Validate(context.Background(), 7, "I live in the north, travel mode = car most of the time")
	if got.IsValid {
		t.Fatalf("Validate() is valid, want invalid")
	}
	if !reflect.DeepEqual(got.MissingFields, []string{domain.FieldRegion}) {
		t.Errorf("MissingFields = %v, want [region]", got.MissingFields)
	}
	if !strings.Contains(got.Message, "region") || !strings.Contains(got.Message, "7") {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestValidate_UnparseableProseStaysMissing(t *testing.T) {
	repo := &mockAggregateRepo{records: map[int]domain.Record{7: userSeven()}}
	uc := newTestUseCase(repo, &mockAssistant{err: errUnreachable})

	got := uc.Validate(context.Background(), 7, "I like trains and the seaside")
	want := []string{domain.FieldRegion, domain.FieldTravelMode}
	if got.IsValid || !reflect.DeepEqual(got.MissingFields, want) {
		t.Errorf("Validate() = %+v, want missing %v", got, want)
	}
	if !strings.HasSuffix(got.Message, "region, travel_mode") {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestValidate_NullExtractionIsIgnored(t *testing.T) {
	repo := &mockAggregateRepo{records: map[int]domain.Record{7: userSeven()}}
	assistant := &mockAssistant{resp: map[string]any{"region": nil, "travel_mode": "bus"}}
	uc := newTestUseCase(repo, assistant)

	got := uc.Validate(context.Background(), 7, "bus commuter")
	if got.IsValid || !reflect.DeepEqual(got.MissingFields, []string{domain.FieldRegion}) {
		t.Errorf("Validate() = %+v", got)
	}
}

func TestValidate_EmptyStringIsPresent(t *testing.T) {
	repo := &mockAggregateRepo{records: map[int]domain.Record{7: userSeven()}}
	uc := newTestUseCase(repo, &mockAssistant{err: errUnreachable})

	got := uc.Validate(context.Background(), 7, `{"region": "", "travel_mode": "car"}`)
	if !got.IsValid {
		t.Fatalf("Validate() = %+v, want valid", got)
	}
	if got.Data.Region != "" || got.Data.TravelMode != "car" {
		t.Errorf("Data = %+v", got.Data)
	}

	// "region=" recovers an empty value through the heuristic
	got = uc.Validate(context.Background(), 7, "region=, travel_mode=car")
	if !got.IsValid {
		t.Errorf("Validate(heuristic) = %+v, want valid", got)
	}
}

func TestValidate_OutOfRangeCount(t *testing.T) {
	rec := fullRecord()
	rec[domain.FieldTripCount] = nil
	uc := newTestUseCase(&mockAggregateRepo{records: map[int]domain.Record{3: rec}}, &mockAssistant{})

	got := uc.Validate(context.Background(), 3, `{"trip_count": 1e20}`)
	if got.IsValid || !reflect.DeepEqual(got.MissingFields, []string{domain.MarkerValidationError}) {
		t.Fatalf("Validate() = %+v, want validation_error", got)
	}
	if !strings.Contains(got.Message, "out of range") {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestValidate_TypeValidationError(t *testing.T) {
	rec := fullRecord()
	rec[domain.FieldTripCount] = nil
	uc := newTestUseCase(&mockAggregateRepo{records: map[int]domain.Record{3: rec}}, &mockAssistant{err: errUnreachable})

	got := uc.Validate(context.Background(), 3, "trip_count=many")
	if got.IsValid {
		t.Fatalf("Validate() is valid, want invalid")
	}
	if !reflect.DeepEqual(got.MissingFields, []string{domain.MarkerValidationError}) {
		t.Errorf("MissingFields = %v", got.MissingFields)
	}
	if !strings.Contains(got.Message, "trip_count") {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestValidate_UnexpectedFailure(t *testing.T) {
	uc := newTestUseCase(&mockAggregateRepo{panic: "driver bad state"}, &mockAssistant{})

	got := uc.Validate(context.Background(), 9, "")
	if got.IsValid {
		t.Fatalf("Validate() is valid, want invalid")
	}
	if !reflect.DeepEqual(got.MissingFields, []string{domain.MarkerDatabaseError}) {
		t.Errorf("MissingFields = %v", got.MissingFields)
	}
	if !strings.Contains(got.Message, "driver bad state") {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestParseUserID(t *testing.T) {
	if id, err := ParseUserID(" 42 "); err != nil || id != 42 {
		t.Errorf("ParseUserID() = %d, %v", id, err)
	}
	if _, err := ParseUserID("abc"); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("ParseUserID(abc) error = %v, want ErrInvalidUserID", err)
	}
}
