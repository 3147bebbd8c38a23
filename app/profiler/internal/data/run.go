package data

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/repo"
)

type runRepo struct {
	data *Data
	log  *log.Helper
}

func NewRunRepo(data *Data, logger log.Logger) repo.RunRecorder {
	return &runRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *runRepo) RecordRun(ctx context.Context, run *repo.GenerationRun) error {
	id := uuid.New()
	name := runName(run, id)

	request, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	response, err := json.Marshal(run.Response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	_, err = r.data.db.ExecContext(ctx, `
		INSERT INTO generation_runs (id, run_name, route, user_id, request, response, final_prompt, text_length)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id.String(), name, run.Route, run.UserID, string(request), string(response),
		nullString(run.FinalPrompt), textLength(run.Response))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	r.log.WithContext(ctx).Infof("run logged (route: %s, run: %s)", run.Route, name)
	return nil
}

// runName 形如 generate_text-user-42-<uuid>
func runName(run *repo.GenerationRun, id uuid.UUID) string {
	if run.UserID == "" {
		return run.Route
	}
	return fmt.Sprintf("%s-user-%s-%s", run.Route, run.UserID, id)
}

func textLength(resp any) any {
	if p, ok := resp.(*domain.TextProfile); ok {
		return len([]rune(p.Text))
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
