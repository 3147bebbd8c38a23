package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

func TestProfileUseCase_GenerateText(t *testing.T) {
	text := &mockGenerator{out: "A frequent rail commuter."}
	runs := &mockRecorder{}
	uc := NewProfileUseCase(
		&mockAggregateRepo{records: map[int]domain.Record{1: fullRecord()}},
		&mockAssistant{}, mockPrompts{}, text, &mockGenerator{}, runs, log.DefaultLogger,
	)

	got, err := uc.GenerateText(context.Background(), &domain.ProfileRequest{UserID: "1"})
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if got.Text != "A frequent rail commuter." || got.ValidationStatus != "success" || got.UserID != "1" {
		t.Errorf("GenerateText() = %+v", got)
	}
	if got.EnhancedData["travel_frequency"] != "occasional" || got.EnhancedData["travel_distance"] != "short" {
		t.Errorf("EnhancedData = %v", got.EnhancedData)
	}
	if got.EnhancedData["avg_km_per_trip"] != 50.0 {
		t.Errorf("avg_km_per_trip = %v, want 50", got.EnhancedData["avg_km_per_trip"])
	}
	if text.prompt != "describe user in South" {
		t.Errorf("prompt = %q", text.prompt)
	}
	if len(runs.runs) != 1 || runs.runs[0].Route != RouteGenerateText || runs.runs[0].FinalPrompt != text.prompt {
		t.Errorf("runs = %+v", runs.runs)
	}
}

func TestProfileUseCase_GenerateImage(t *testing.T) {
	image := &mockGenerator{out: "https://images.example.com/u1.png"}
	runs := &mockRecorder{err: errors.New("run log down")}
	uc := NewProfileUseCase(
		&mockAggregateRepo{records: map[int]domain.Record{1: fullRecord()}},
		nil, mockPrompts{}, &mockGenerator{}, image, runs, log.DefaultLogger,
	)

	got, err := uc.GenerateImage(context.Background(), &domain.ProfileRequest{UserID: "1"})
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if got.ImageURL != "https://images.example.com/u1.png" || image.prompt != "draw traveller by train" {
		t.Errorf("GenerateImage() = %+v, prompt %q", got, image.prompt)
	}
	if len(runs.runs) != 1 {
		t.Errorf("runs = %d, want 1", len(runs.runs))
	}
}

func TestProfileUseCase_GenerateText_Incomplete(t *testing.T) {
	text := &mockGenerator{out: "unused"}
	runs := &mockRecorder{}
	uc := NewProfileUseCase(
		&mockAggregateRepo{records: map[int]domain.Record{7: userSeven()}},
		&mockAssistant{err: errUnreachable}, mockPrompts{}, text, &mockGenerator{}, runs, log.DefaultLogger,
	)

	_, err := uc.GenerateText(context.Background(), &domain.ProfileRequest{UserID: "7", Info: "region=North"})
	var incomplete *domain.IncompleteDataError
	if !errors.As(err, &incomplete) {
		t.Fatalf("GenerateText() error = %v, want IncompleteDataError", err)
	}
	if len(incomplete.Outcome.MissingFields) != 1 || incomplete.Outcome.MissingFields[0] != domain.FieldTravelMode {
		t.Errorf("MissingFields = %v", incomplete.Outcome.MissingFields)
	}
	if text.prompt != "" {
		t.Errorf("generator called for incomplete data")
	}
	if len(runs.runs) != 1 || runs.runs[0].Response.(map[string]string)["error"] == "" {
		t.Errorf("failure not recorded: %+v", runs.runs)
	}
}

func TestProfileUseCase_GeneratorFailure(t *testing.T) {
	uc := NewProfileUseCase(
		&mockAggregateRepo{records: map[int]domain.Record{1: fullRecord()}},
		nil, mockPrompts{}, &mockGenerator{err: errUnreachable}, &mockGenerator{}, nil, log.DefaultLogger,
	)

	_, err := uc.GenerateText(context.Background(), &domain.ProfileRequest{UserID: "1"})
	if !errors.Is(err, errUnreachable) {
		t.Errorf("GenerateText() error = %v, want wrapped generator error", err)
	}
	var incomplete *domain.IncompleteDataError
	if errors.As(err, &incomplete) {
		t.Errorf("generator failure reported as incomplete data")
	}
}

func TestProfileUseCase_InvalidUserID(t *testing.T) {
	uc := NewProfileUseCase(&mockAggregateRepo{}, nil, mockPrompts{}, &mockGenerator{}, &mockGenerator{}, nil, log.DefaultLogger)

	if _, _, err := uc.ValidateRequest(context.Background(), &domain.ProfileRequest{UserID: "user-1"}); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("ValidateRequest() error = %v, want ErrInvalidUserID", err)
	}
}
