package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/usecase"
)

const (
	ReasonInvalidUserID      = "INVALID_USER_ID"
	ReasonIncompleteUserData = "INCOMPLETE_USER_DATA"
	ReasonGenerationFailed   = "GENERATION_FAILED"
)

// ValidateReply 校验接口的响应
type ValidateReply struct {
	Validation   *domain.ValidationOutcome `json:"validation"`
	EnhancedData map[string]any            `json:"enhanced_data,omitempty"`
}

type ProfileService struct {
	uc  *usecase.ProfileUseCase
	log *log.Helper
}

func NewProfileService(uc *usecase.ProfileUseCase, logger log.Logger) *ProfileService {
	return &ProfileService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *ProfileService) GenerateText(ctx context.Context, req *domain.ProfileRequest) (*domain.TextProfile, error) {
	resp, err := s.uc.GenerateText(ctx, req)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	return resp, nil
}

func (s *ProfileService) GenerateImage(ctx context.Context, req *domain.ProfileRequest) (*domain.ImageProfile, error) {
	resp, err := s.uc.GenerateImage(ctx, req)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	return resp, nil
}

// Validate 返回校验结果，数据不完整也返回 200
func (s *ProfileService) Validate(ctx context.Context, req *domain.ProfileRequest) (*ValidateReply, error) {
	outcome, profile, err := s.uc.ValidateRequest(ctx, req)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	reply := &ValidateReply{Validation: outcome}
	if profile != nil {
		reply.EnhancedData = profile.Fields()
	}
	return reply, nil
}

// toError 将业务错误映射为 kratos 错误
func (s *ProfileService) toError(ctx context.Context, err error) error {
	if stderrors.Is(err, domain.ErrInvalidUserID) {
		return errors.BadRequest(ReasonInvalidUserID, err.Error())
	}

	var incomplete *domain.IncompleteDataError
	if stderrors.As(err, &incomplete) && incomplete.Outcome != nil {
		return errors.BadRequest(ReasonIncompleteUserData, incomplete.Outcome.Message).
			WithMetadata(map[string]string{
				"missing_fields": strings.Join(incomplete.Outcome.MissingFields, ","),
				"message":        incomplete.Outcome.Message,
			})
	}

	s.log.WithContext(ctx).Errorf("profile generation failed: %v", err)
	return errors.InternalServer(ReasonGenerationFailed, err.Error())
}
