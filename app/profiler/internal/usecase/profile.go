package usecase

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/repo"
)

const (
	RouteGenerateText  = "generate_text"
	RouteGenerateImage = "generate_image"

	statusSuccess = "success"
)

// ProfileUseCase 用户画像业务逻辑：校验、补全、特征计算与生成
type ProfileUseCase struct {
	aggregates repo.AggregateRepo
	extractor  *Extractor
	prompts    repo.PromptRenderer
	text       repo.TextGenerator
	image      repo.ImageGenerator
	runs       repo.RunRecorder
	log        *log.Helper
}

// NewProfileUseCase 创建画像业务逻辑实例，runs 可以为 nil
func NewProfileUseCase(
	aggregates repo.AggregateRepo,
	assistant repo.FieldAssistant,
	prompts repo.PromptRenderer,
	text repo.TextGenerator,
	image repo.ImageGenerator,
	runs repo.RunRecorder,
	logger log.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		aggregates: aggregates,
		extractor:  NewExtractor(assistant, logger),
		prompts:    prompts,
		text:       text,
		image:      image,
		runs:       runs,
		log:        log.NewHelper(logger),
	}
}

// ValidateRequest 解析用户 ID 并校验，返回结果以及有效时的画像特征
func (uc *ProfileUseCase) ValidateRequest(ctx context.Context, req *domain.ProfileRequest) (*domain.ValidationOutcome, *domain.EnrichedProfile, error) {
	userID, err := ParseUserID(req.UserID)
	if err != nil {
		return nil, nil, err
	}
	uc.log.WithContext(ctx).Infof("[USER: %d] validating user data", userID)
	outcome := uc.Validate(ctx, userID, req.Info)
	return outcome, EnrichOutcome(outcome), nil
}

// prepare 校验并计算特征，数据不完整时返回 *domain.IncompleteDataError
func (uc *ProfileUseCase) prepare(ctx context.Context, req *domain.ProfileRequest) (*domain.EnrichedProfile, error) {
	outcome, profile, err := uc.ValidateRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		uc.log.WithContext(ctx).Warnf("[USER: %s] %s", req.UserID, outcome.Message)
		return nil, &domain.IncompleteDataError{Outcome: outcome}
	}
	uc.log.WithContext(ctx).Infof("[USER: %s] user data enriched", req.UserID)
	return profile, nil
}

// GenerateText 生成用户的文本画像
func (uc *ProfileUseCase) GenerateText(ctx context.Context, req *domain.ProfileRequest) (*domain.TextProfile, error) {
	uc.log.WithContext(ctx).Infof("[USER: %s] start text profile generation", req.UserID)

	profile, err := uc.prepare(ctx, req)
	if err != nil {
		uc.recordFailure(ctx, RouteGenerateText, req, err)
		return nil, err
	}

	fields := profile.Fields()
	prompt, err := uc.prompts.TextPrompt(ctx, fields)
	if err != nil {
		err = fmt.Errorf("render text prompt: %w", err)
		uc.recordFailure(ctx, RouteGenerateText, req, err)
		return nil, err
	}

	uc.log.WithContext(ctx).Infof("[USER: %s] generating text description", req.UserID)
	text, err := uc.text.GenerateText(ctx, prompt)
	if err != nil {
		err = fmt.Errorf("generate text: %w", err)
		uc.log.WithContext(ctx).Errorf("[USER: %s] %v", req.UserID, err)
		uc.recordFailure(ctx, RouteGenerateText, req, err)
		return nil, err
	}

	resp := &domain.TextProfile{
		UserID:           req.UserID,
		Text:             text,
		EnhancedData:     fields,
		ValidationStatus: statusSuccess,
	}
	uc.record(ctx, &repo.GenerationRun{
		Route:       RouteGenerateText,
		UserID:      req.UserID,
		Request:     req,
		Response:    resp,
		FinalPrompt: prompt,
	})
	return resp, nil
}

// GenerateImage 生成用户的图片画像
func (uc *ProfileUseCase) GenerateImage(ctx context.Context, req *domain.ProfileRequest) (*domain.ImageProfile, error) {
	uc.log.WithContext(ctx).Infof("[USER: %s] start image profile generation", req.UserID)

	profile, err := uc.prepare(ctx, req)
	if err != nil {
		uc.recordFailure(ctx, RouteGenerateImage, req, err)
		return nil, err
	}

	fields := profile.Fields()
	prompt, err := uc.prompts.ImagePrompt(ctx, fields)
	if err != nil {
		err = fmt.Errorf("render image prompt: %w", err)
		uc.recordFailure(ctx, RouteGenerateImage, req, err)
		return nil, err
	}

	uc.log.WithContext(ctx).Infof("[USER: %s] generating image", req.UserID)
	url, err := uc.image.GenerateImage(ctx, prompt)
	if err != nil {
		err = fmt.Errorf("generate image: %w", err)
		uc.log.WithContext(ctx).Errorf("[USER: %s] %v", req.UserID, err)
		uc.recordFailure(ctx, RouteGenerateImage, req, err)
		return nil, err
	}

	resp := &domain.ImageProfile{
		UserID:           req.UserID,
		ImageURL:         url,
		EnhancedData:     fields,
		ValidationStatus: statusSuccess,
	}
	uc.record(ctx, &repo.GenerationRun{
		Route:       RouteGenerateImage,
		UserID:      req.UserID,
		Request:     req,
		Response:    resp,
		FinalPrompt: prompt,
	})
	return resp, nil
}

func (uc *ProfileUseCase) recordFailure(ctx context.Context, route string, req *domain.ProfileRequest, err error) {
	uc.record(ctx, &repo.GenerationRun{
		Route:    route,
		UserID:   req.UserID,
		Request:  req,
		Response: map[string]string{"error": err.Error()},
	})
}

// record 记录失败只打日志，不影响请求结果
func (uc *ProfileUseCase) record(ctx context.Context, run *repo.GenerationRun) {
	if uc.runs == nil {
		return
	}
	if err := uc.runs.RecordRun(ctx, run); err != nil {
		uc.log.WithContext(ctx).Warnf("[USER: %s] run logging skipped: %v", run.UserID, err)
	}
}
