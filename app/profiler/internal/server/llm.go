package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/conf"
	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/config"
	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/llm"
	plogger "github.com/iWorld-y/travel_profiler/app/profiler/pkg/logger"
)

// Generators 画像服务依赖的模型组件
type Generators struct {
	Assistant *llm.FieldAssistant
	Prompts   *llm.Prompts
	Text      *llm.TextGenerator
	Image     *llm.ImageGenerator
}

// ToConfig 将 internal/conf 转换为 pkg/config.Config，未配置的项保留默认值
func ToConfig(bc *conf.Bootstrap) *config.Config {
	cfg := config.Default()
	if c := bc.Llm; c != nil {
		cfg.LLM.BaseURL = c.BaseUrl
		cfg.LLM.APIKey = c.ApiKey
		if c.Model != "" {
			cfg.LLM.Model = c.Model
		}
		if c.ExtractModel != "" {
			cfg.LLM.ExtractModel = c.ExtractModel
		}
		if c.Timeout > 0 {
			cfg.LLM.Timeout = int(c.Timeout)
		}
	}
	if c := bc.Image; c != nil {
		cfg.Image.BaseURL = c.BaseUrl
		cfg.Image.APIKey = c.ApiKey
		if c.Model != "" {
			cfg.Image.Model = c.Model
		}
		if c.Size != "" {
			cfg.Image.Size = c.Size
		}
		if c.Quality != "" {
			cfg.Image.Quality = c.Quality
		}
	}
	if c := bc.Breaker; c != nil {
		if c.FailureThreshold > 0 {
			cfg.Breaker.FailureThreshold = c.FailureThreshold
		}
		if c.OpenTimeout > 0 {
			cfg.Breaker.OpenTimeout = int(c.OpenTimeout)
		}
	}
	if c := bc.Concurrency; c != nil {
		if c.Qps > 0 {
			cfg.Concurrency.QPS = int(c.Qps)
		}
		if c.Rpm > 0 {
			cfg.Concurrency.RPM = int(c.Rpm)
		}
	}
	if c := bc.Log; c != nil {
		if c.Level != "" {
			cfg.Log.Level = c.Level
		}
		cfg.Log.File = c.File
	}
	cfg.ApplyEnv()
	return cfg
}

// NewGenerators 初始化对话模型、提示词模板与图片生成器
func NewGenerators(bc *conf.Bootstrap, logger log.Logger) (*Generators, func(), error) {
	cfg := ToConfig(bc)
	helper := log.NewHelper(logger)

	// 初始化日志
	if err := plogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init llm logger: %v", err)
		_ = plogger.InitLogger("info", "") // 降级处理
	}

	ctx := context.Background()
	textClient, err := llm.NewClient(ctx, cfg, cfg.LLM.Model)
	if err != nil {
		return nil, nil, err
	}
	extractClient, err := llm.NewClient(ctx, cfg, cfg.LLM.ExtractModel)
	if err != nil {
		return nil, nil, err
	}

	prompts := llm.NewPrompts()
	g := &Generators{
		Assistant: llm.NewFieldAssistant(extractClient, prompts),
		Prompts:   prompts,
		Text:      llm.NewTextGenerator(textClient),
		Image:     llm.NewImageGenerator(cfg),
	}

	cleanup := func() {
		helper.Info("Cleaning up llm clients")
	}
	return g, cleanup, nil
}
