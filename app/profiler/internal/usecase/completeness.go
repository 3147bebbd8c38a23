package usecase

import "github.com/iWorld-y/travel_profiler/app/profiler/internal/domain"

// MissingFields 按必填字段的固定顺序返回缺失或为 NULL 的字段
func MissingFields(rec domain.Record) []string {
	var missing []string
	for _, field := range domain.RequiredFields() {
		if v, ok := rec[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	return missing
}
