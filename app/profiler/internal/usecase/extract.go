package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"
	"github.com/iWorld-y/travel_profiler/app/profiler/internal/repo"
)

var errAssistantUnavailable = errors.New("field assistant not configured")

// extractStrategy 一种从自由文本恢复字段的方式，返回 error 表示本策略失败
type extractStrategy struct {
	name    string
	attempt func(ctx context.Context, info string, missingFields []string) (domain.Extraction, error)
}

// Extractor 按顺序尝试各抽取策略，第一个成功的结果即为最终结果
type Extractor struct {
	strategies []extractStrategy
	log        *log.Helper
}

// NewExtractor 创建抽取器，assistant 可以为 nil
func NewExtractor(assistant repo.FieldAssistant, logger log.Logger) *Extractor {
	return &Extractor{
		strategies: []extractStrategy{
			{name: "structured", attempt: parseStructured},
			{name: "assisted", attempt: assistedExtraction(assistant)},
			{name: "heuristic", attempt: parseKeyValues},
		},
		log: log.NewHelper(logger),
	}
}

// Extract 从 info 中恢复 missingFields 对应的值
func (e *Extractor) Extract(ctx context.Context, info string, missingFields []string) domain.Extraction {
	if info == "" || len(missingFields) == 0 {
		return domain.Extraction{}
	}

	for _, s := range e.strategies {
		res, err := s.attempt(ctx, info, missingFields)
		if err != nil {
			if s.name == "structured" {
				e.log.WithContext(ctx).Debugf("info is not a JSON object: %v", err)
			} else {
				e.log.WithContext(ctx).Warnf("%s extraction failed, falling back: %v", s.name, err)
			}
			continue
		}
		e.log.WithContext(ctx).Debugf("%s extraction recovered %d field(s)", s.name, len(res))
		return res
	}
	return domain.Extraction{}
}

// parseStructured 将 info 作为 JSON 对象解析，结果原样返回，不按缺失字段过滤
func parseStructured(_ context.Context, info string, _ []string) (domain.Extraction, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(info), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("null is not an object")
	}
	return domain.Extraction(obj), nil
}

func assistedExtraction(assistant repo.FieldAssistant) func(context.Context, string, []string) (domain.Extraction, error) {
	return func(ctx context.Context, info string, missingFields []string) (domain.Extraction, error) {
		if assistant == nil {
			return nil, errAssistantUnavailable
		}
		raw, err := assistant.ExtractFields(ctx, info, missingFields)
		if err != nil {
			return nil, fmt.Errorf("assistant: %w", err)
		}
		if raw == nil {
			return nil, errors.New("assistant returned no object")
		}

		wanted := fieldSet(missingFields)
		out := make(domain.Extraction, len(raw))
		for key, value := range raw {
			if !wanted[key] {
				continue
			}
			out[key] = coerceValue(value)
		}
		return out, nil
	}
}

// parseKeyValues 按逗号与换行切分，解析 key=value 形式的片段，不会失败
func parseKeyValues(_ context.Context, info string, missingFields []string) (domain.Extraction, error) {
	wanted := fieldSet(missingFields)
	out := domain.Extraction{}

	lines := strings.FieldsFunc(info, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		if !wanted[key] {
			continue
		}
		out[key] = coerceValue(strings.TrimSpace(value))
	}
	return out, nil
}

// coerceValue 含小数点的字符串转为浮点数，其余字符串尝试转为整数，失败则保留原值
func coerceValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		return s
	}
	if i, err := strconv.Atoi(trimmed); err == nil {
		return i
	}
	return s
}

func fieldSet(fields []string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
