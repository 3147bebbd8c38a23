package repo

import (
	"context"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
)

// AggregateRepo 用户聚合数据仓库接口
type AggregateRepo interface {
	// GetAggregate 获取用户的聚合出行数据，无数据时返回 domain.ErrNotFound
	GetAggregate(ctx context.Context, userID int) (domain.Record, error)
}

// FieldAssistant 借助外部文本理解服务从自由文本中抽取字段
type FieldAssistant interface {
	// ExtractFields 返回服务给出的结构化对象，不做过滤与类型转换
	ExtractFields(ctx context.Context, info string, missingFields []string) (map[string]any, error)
}

// PromptRenderer 渲染画像提示词
type PromptRenderer interface {
	TextPrompt(ctx context.Context, fields map[string]any) (string, error)
	ImagePrompt(ctx context.Context, fields map[string]any) (string, error)
}

// TextGenerator 根据提示词生成文本画像
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator 根据提示词生成图片，返回图片 URL
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// GenerationRun 一次画像生成的记录
type GenerationRun struct {
	Route       string
	UserID      string
	Request     any
	Response    any
	FinalPrompt string
}

// RunRecorder 记录请求与响应
type RunRecorder interface {
	RecordRun(ctx context.Context, run *GenerationRun) error
}
