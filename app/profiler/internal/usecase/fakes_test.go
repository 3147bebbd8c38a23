package usecase

import (
	"context"
	"errors"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/repo"
)

// mockAggregateRepo 模拟聚合数据仓库
type mockAggregateRepo struct {
	records map[int]domain.Record
	err     error
	panic   any
}

func (m *mockAggregateRepo) GetAggregate(ctx context.Context, userID int) (domain.Record, error) {
	if m.panic != nil {
		panic(m.panic)
	}
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// mockAssistant 模拟文本理解服务
type mockAssistant struct {
	resp  map[string]any
	err   error
	calls int
}

func (m *mockAssistant) ExtractFields(ctx context.Context, info string, missingFields []string) (map[string]any, error) {
	m.calls++
	return m.resp, m.err
}

var errUnreachable = errors.New("dial tcp: connection refused")

type mockPrompts struct{}

func (mockPrompts) TextPrompt(ctx context.Context, fields map[string]any) (string, error) {
	return "describe user in " + fields[domain.FieldRegion].(string), nil
}

func (mockPrompts) ImagePrompt(ctx context.Context, fields map[string]any) (string, error) {
	return "draw traveller by " + fields[domain.FieldTravelMode].(string), nil
}

type mockGenerator struct {
	out    string
	err    error
	prompt string
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.out, m.err
}

func (m *mockGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.out, m.err
}

type mockRecorder struct {
	runs []*repo.GenerationRun
	err  error
}

func (m *mockRecorder) RecordRun(ctx context.Context, run *repo.GenerationRun) error {
	m.runs = append(m.runs, run)
	return m.err
}

// userSeven 除 region 和 travel_mode 外字段齐全
func userSeven() domain.Record {
	return domain.Record{
		domain.FieldUserID:       int64(7),
		domain.FieldYear:         "2019-2022",
		domain.FieldRegion:       nil,
		domain.FieldTravelMotive: "leisure",
		domain.FieldTripCount:    int64(80),
		domain.FieldKmTravelled:  int64(2500),
	}
}
