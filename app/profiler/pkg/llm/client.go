package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/config"
	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/logger"
)

const (
	maxRetries = 3
	baseDelay  = 2 * time.Second
)

// ErrEmptyResponse 模型返回了空内容
var ErrEmptyResponse = errors.New("empty model response")

// chatGenerator 对话模型的最小接口，openai.ChatModel 满足该接口
type chatGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Client 带限流、429 重试与熔断的对话模型客户端
type Client struct {
	chatModel chatGenerator
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[*schema.Message]
	delay     time.Duration
}

// NewClient 创建对话模型客户端，modelName 为空时使用 cfg.LLM.Model
func NewClient(ctx context.Context, cfg *config.Config, modelName string) (*Client, error) {
	if modelName == "" {
		modelName = cfg.LLM.Model
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   modelName,
		Timeout: time.Duration(cfg.LLM.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return newClient(chatModel, modelName, cfg.Concurrency, cfg.Breaker), nil
}

func newClient(cm chatGenerator, name string, cc config.ConcurrencyConfig, bc config.BreakerConfig) *Client {
	// 初始化限流器
	limit := rate.Limit(float64(cc.RPM) / 60.0)
	burst := cc.QPS
	if burst < 1 {
		burst = 1
	}
	if cc.RPM <= 0 {
		limit = rate.Inf
	}

	threshold := bc.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}
	breaker := gobreaker.NewCircuitBreaker[*schema.Message](gobreaker.Settings{
		Name:        "llm-" + name,
		MaxRequests: 1,
		Timeout:     time.Duration(bc.OpenTimeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warnf("熔断器 [%s] 状态变化: %s -> %s", name, from, to)
		},
	})

	return &Client{
		chatModel: cm,
		limiter:   rate.NewLimiter(limit, burst),
		breaker:   breaker,
		delay:     baseDelay,
	}
}

// Generate 发送一组 system/user 消息并返回模型回复文本
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := c.breaker.Execute(func() (*schema.Message, error) {
		return c.generateWithRetry(ctx, []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(user),
		})
	})
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (c *Client) generateWithRetry(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.chatModel.Generate(ctx, messages)
		if err == nil {
			if resp == nil {
				return nil, ErrEmptyResponse
			}
			return resp, nil
		}
		if !isRateLimited(err) {
			return nil, err
		}

		lastErr = err
		if i < maxRetries {
			logger.Log.Warnf("LLM 限流，第 %d 次重试: %v", i+1, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay * time.Duration(1<<i)):
			}
		}
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "too many requests")
}

// cleanJSON 去掉模型回复中的 markdown 代码块标记
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
