package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const (
	extractSystemPrompt = "You are an assistant that extracts structured information from text as a JSON object. Output only JSON."
	textSystemPrompt    = "You are a mobility analyst specialised in writing detailed user profiles."
)

const extractTemplate = `Extract the following fields from the text below: {{ missing_fields }}.
Return a JSON object whose keys are exactly those field names. Omit any field the text does not mention.
Numbers must be JSON numbers, everything else a string.

Text:
{{ info }}`

const textTemplate = `Write a short profile of a traveller based on the aggregated data below.

- User: {{ user_id }}
- Period: {{ year }}
- Region: {{ region }}
- Main travel mode: {{ travel_mode }}
- Main travel motive: {{ travel_motive }}
{% if trip_count %}- Trips per year: {{ trip_count }}
{% endif %}{% if km_travelled %}- Kilometres per year: {{ km_travelled }}
{% endif %}{% if avg_km_per_trip %}- Average kilometres per trip: {{ avg_km_per_trip }}
{% endif %}- Travel frequency: {{ travel_frequency }}
- Typical distance: {{ travel_distance }}

Describe the travel habits, the likely lifestyle and what matters to this person when moving around. Keep it under 200 words.`

const imageTemplate = `A realistic illustration of a traveller from {{ region }} during {{ year }}, travelling by {{ travel_mode }} for {{ travel_motive }}.
Travel frequency: {{ travel_frequency }}. Typical distance: {{ travel_distance }}.
No text or labels in the picture.`

// Prompts 基于 Jinja2 模板渲染提示词
type Prompts struct {
	extract *prompt.DefaultChatTemplate
	text    *prompt.DefaultChatTemplate
	image   *prompt.DefaultChatTemplate
}

// NewPrompts 创建提示词模板
func NewPrompts() *Prompts {
	return &Prompts{
		extract: prompt.FromMessages(schema.Jinja2, schema.UserMessage(extractTemplate)),
		text:    prompt.FromMessages(schema.Jinja2, schema.UserMessage(textTemplate)),
		image:   prompt.FromMessages(schema.Jinja2, schema.UserMessage(imageTemplate)),
	}
}

// ExtractPrompt 渲染字段抽取提示词，只列出缺失的字段
func (p *Prompts) ExtractPrompt(ctx context.Context, info string, missing []string) (string, error) {
	return render(ctx, p.extract, map[string]any{
		"missing_fields": strings.Join(missing, ", "),
		"info":           info,
	})
}

// TextPrompt 渲染文本画像提示词
func (p *Prompts) TextPrompt(ctx context.Context, fields map[string]any) (string, error) {
	return render(ctx, p.text, fields)
}

// ImagePrompt 渲染图片画像提示词
func (p *Prompts) ImagePrompt(ctx context.Context, fields map[string]any) (string, error) {
	return render(ctx, p.image, fields)
}

func render(ctx context.Context, tpl *prompt.DefaultChatTemplate, vars map[string]any) (string, error) {
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Content)
	}
	return strings.TrimSpace(sb.String()), nil
}
