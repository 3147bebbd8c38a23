package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject 模型回复不是 JSON 对象
var ErrNotObject = errors.New("model response is not a JSON object")

// FieldAssistant 借助对话模型从自由文本中抽取缺失字段
type FieldAssistant struct {
	client  *Client
	prompts *Prompts
}

// NewFieldAssistant 创建字段抽取助手
func NewFieldAssistant(client *Client, prompts *Prompts) *FieldAssistant {
	return &FieldAssistant{client: client, prompts: prompts}
}

// ExtractFields 返回模型给出的 JSON 对象，过滤与类型转换由调用方负责
func (a *FieldAssistant) ExtractFields(ctx context.Context, info string, missingFields []string) (map[string]any, error) {
	userPrompt, err := a.prompts.ExtractPrompt(ctx, info, missingFields)
	if err != nil {
		return nil, err
	}

	content, err := a.client.Generate(ctx, extractSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}
	return parseObject(content)
}

func parseObject(content string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(content)), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}
