package domain

// TravelFrequency 出行频率分类
type TravelFrequency string

const (
	FrequencyOccasional   TravelFrequency = "occasional"
	FrequencyModerate     TravelFrequency = "moderate"
	FrequencyFrequent     TravelFrequency = "frequent"
	FrequencyVeryFrequent TravelFrequency = "very_frequent"
	FrequencyUnknown      TravelFrequency = "unknown"
)

// TravelDistance 出行距离分类
type TravelDistance string

const (
	DistanceShort   TravelDistance = "short"
	DistanceMedium  TravelDistance = "medium"
	DistanceLong    TravelDistance = "long"
	DistanceUnknown TravelDistance = "unknown"
)

// EnrichedProfile 聚合数据加上派生特征
type EnrichedProfile struct {
	UserAggregatedData
	AvgKmPerTrip    *float64        `json:"avg_km_per_trip"`
	TravelFrequency TravelFrequency `json:"travel_frequency"`
	TravelDistance  TravelDistance  `json:"travel_distance"`
}

// Fields 展平为字段名到标量的映射，供提示词模板渲染
func (p *EnrichedProfile) Fields() map[string]any {
	fields := map[string]any{
		FieldUserID:        p.UserID,
		FieldYear:          p.Year,
		FieldRegion:        p.Region,
		FieldTravelMode:    p.TravelMode,
		FieldTravelMotive:  p.TravelMotive,
		FieldTripCount:     nil,
		FieldKmTravelled:   nil,
		"avg_km_per_trip":  nil,
		"travel_frequency": string(p.TravelFrequency),
		"travel_distance":  string(p.TravelDistance),
	}
	if p.TripCount != nil {
		fields[FieldTripCount] = *p.TripCount
	}
	if p.KmTravelled != nil {
		fields[FieldKmTravelled] = *p.KmTravelled
	}
	if p.AvgKmPerTrip != nil {
		fields["avg_km_per_trip"] = *p.AvgKmPerTrip
	}
	return fields
}
