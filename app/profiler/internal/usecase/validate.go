package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

// ParseUserID 将请求中的用户 ID 转为整数
func ParseUserID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidUserID, s)
	}
	return id, nil
}

// Validate 校验用户聚合数据是否足以生成画像，必要时从 info 中补全缺失字段。
// 所有失败都以无效结果返回，不会返回 error 或 panic。
func (uc *ProfileUseCase) Validate(ctx context.Context, userID int, info string) (outcome *domain.ValidationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.WithContext(ctx).Errorf("[USER: %d] validation aborted: %v", userID, r)
			outcome = &domain.ValidationOutcome{
				MissingFields: []string{domain.MarkerDatabaseError},
				Message:       fmt.Sprintf("failed to retrieve user data: %v", r),
			}
		}
	}()

	rec := uc.fetch(ctx, userID)
	if rec == nil {
		return &domain.ValidationOutcome{
			MissingFields: domain.RequiredFields(),
			Message:       fmt.Sprintf("no data found for user %d", userID),
		}
	}

	if missing := MissingFields(rec); len(missing) > 0 {
		extracted := uc.extractor.Extract(ctx, info, missing)
		for _, field := range missing {
			if v, ok := extracted[field]; ok && v != nil {
				rec[field] = v
			}
		}

		if missing = MissingFields(rec); len(missing) > 0 {
			return &domain.ValidationOutcome{
				MissingFields: missing,
				Message:       fmt.Sprintf("missing fields for user %d: %s", userID, strings.Join(missing, ", ")),
			}
		}
	}

	data, err := domain.NewUserAggregatedData(rec)
	if err != nil {
		return &domain.ValidationOutcome{
			MissingFields: []string{domain.MarkerValidationError},
			Message:       fmt.Sprintf("user data validation failed: %v", err),
		}
	}

	return &domain.ValidationOutcome{
		IsValid:       true,
		MissingFields: []string{},
		Message:       "user data complete",
		Data:          data,
	}
}

// fetch 读取聚合记录，任何存储层错误都视为无数据
func (uc *ProfileUseCase) fetch(ctx context.Context, userID int) domain.Record {
	rec, err := uc.aggregates.GetAggregate(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.WithContext(ctx).Errorf("[USER: %d] failed to fetch aggregate: %v", userID, err)
		}
		return nil
	}
	if rec == nil {
		return nil
	}
	return rec.Clone()
}
