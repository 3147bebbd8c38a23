package llm

import "context"

// TextGenerator 使用对话模型生成文本画像
type TextGenerator struct {
	client *Client
}

func NewTextGenerator(client *Client) *TextGenerator {
	return &TextGenerator{client: client}
}

func (g *TextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.client.Generate(ctx, textSystemPrompt, prompt)
}
