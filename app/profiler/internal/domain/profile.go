package domain

import (
	"errors"
	"fmt"
	"strings"
)

// 聚合记录字段名
const (
	FieldUserID       = "user_id"
	FieldYear         = "year"
	FieldRegion       = "region"
	FieldTravelMode   = "travel_mode"
	FieldTravelMotive = "travel_motive"
	FieldTripCount    = "trip_count"
	FieldKmTravelled  = "km_travelled"
)

// 校验失败时代替字段名返回的标记
const (
	MarkerValidationError = "validation_error"
	MarkerDatabaseError   = "database_error"
)

var requiredFields = []string{
	FieldUserID,
	FieldYear,
	FieldRegion,
	FieldTravelMode,
	FieldTravelMotive,
	FieldTripCount,
	FieldKmTravelled,
}

// RequiredFields 返回生成画像所需字段，顺序固定
func RequiredFields() []string {
	out := make([]string, len(requiredFields))
	copy(out, requiredFields)
	return out
}

var (
	// ErrNotFound 用户没有任何聚合数据
	ErrNotFound = errors.New("aggregate record not found")
	// ErrInvalidUserID 用户 ID 无法转换为整数
	ErrInvalidUserID = errors.New("invalid user id")
)

// Record 数据库取出的原始聚合记录，值为 nil 表示该字段为 NULL
type Record map[string]any

// Clone 浅拷贝记录
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Extraction 从自由文本中抽取出的字段
type Extraction map[string]any

// ValidationOutcome 用户数据校验结果
type ValidationOutcome struct {
	IsValid       bool                `json:"is_valid"`
	MissingFields []string            `json:"missing_fields"`
	Message       string              `json:"message"`
	Data          *UserAggregatedData `json:"data,omitempty"`
}

// ProfileRequest 画像生成请求
type ProfileRequest struct {
	UserID string `json:"user_id"`
	Info   string `json:"info,omitempty"`
}

// TextProfile 文本画像响应
type TextProfile struct {
	UserID           string         `json:"user_id"`
	Text             string         `json:"text"`
	EnhancedData     map[string]any `json:"enhanced_data"`
	ValidationStatus string         `json:"validation_status"`
}

// ImageProfile 图片画像响应
type ImageProfile struct {
	UserID           string         `json:"user_id"`
	ImageURL         string         `json:"image_url"`
	EnhancedData     map[string]any `json:"enhanced_data"`
	ValidationStatus string         `json:"validation_status"`
}

// IncompleteDataError 数据不完整，调用方应拒绝请求
type IncompleteDataError struct {
	Outcome *ValidationOutcome
}

func (e *IncompleteDataError) Error() string {
	if e.Outcome == nil {
		return "incomplete user data"
	}
	return fmt.Sprintf("incomplete user data: %s (missing: %s)",
		e.Outcome.Message, strings.Join(e.Outcome.MissingFields, ", "))
}
