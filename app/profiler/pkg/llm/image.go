package llm

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/config"
)

// ErrNoImage 图片接口没有返回任何结果
var ErrNoImage = errors.New("image response has no data")

// imageCreator go-openai 客户端的图片生成接口
type imageCreator interface {
	CreateImage(ctx context.Context, request goopenai.ImageRequest) (goopenai.ImageResponse, error)
}

// ImageGenerator 使用 DALL-E 生成图片画像
type ImageGenerator struct {
	client  imageCreator
	limiter *rate.Limiter
	model   string
	size    string
	quality string
}

// NewImageGenerator 创建图片生成器
func NewImageGenerator(cfg *config.Config) *ImageGenerator {
	oc := goopenai.DefaultConfig(cfg.Image.APIKey)
	if cfg.Image.BaseURL != "" {
		oc.BaseURL = cfg.Image.BaseURL
	}
	return newImageGenerator(goopenai.NewClientWithConfig(oc), cfg.Image, cfg.Concurrency)
}

func newImageGenerator(client imageCreator, ic config.ImageConfig, cc config.ConcurrencyConfig) *ImageGenerator {
	limit := rate.Limit(float64(cc.RPM) / 60.0)
	if cc.RPM <= 0 {
		limit = rate.Inf
	}
	burst := cc.QPS
	if burst < 1 {
		burst = 1
	}

	g := &ImageGenerator{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		model:   ic.Model,
		size:    ic.Size,
		quality: ic.Quality,
	}
	if g.model == "" {
		g.model = goopenai.CreateImageModelDallE3
	}
	if g.size == "" {
		g.size = goopenai.CreateImageSize1024x1024
	}
	if g.quality == "" {
		g.quality = goopenai.CreateImageQualityStandard
	}
	return g
}

// GenerateImage 返回生成图片的 URL
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := g.client.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           g.size,
		Quality:        g.quality,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrNoImage
	}
	return resp.Data[0].URL, nil
}
