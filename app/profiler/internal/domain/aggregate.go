package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// UserAggregatedData 校验通过的用户聚合数据，字符串字段允许为空串
type UserAggregatedData struct {
	UserID       int    `json:"user_id" validate:"gte=0"`
	Year         string `json:"year"`
	Region       string `json:"region"`
	TravelMode   string `json:"travel_mode"`
	TravelMotive string `json:"travel_motive"`
	TripCount    *int   `json:"trip_count" validate:"omitempty,gte=0"`
	KmTravelled  *int   `json:"km_travelled" validate:"omitempty,gte=0"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// NewUserAggregatedData 将原始记录转换为类型化结构并校验约束
func NewUserAggregatedData(rec Record) (*UserAggregatedData, error) {
	var (
		d    UserAggregatedData
		errs []string
	)

	intField := func(name string) *int {
		v, err := asInt(rec[name])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			return nil
		}
		return v
	}
	strField := func(name string) string {
		v, err := asString(rec[name])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
		}
		return v
	}

	if id := intField(FieldUserID); id != nil {
		d.UserID = *id
	}
	d.Year = strField(FieldYear)
	d.Region = strField(FieldRegion)
	d.TravelMode = strField(FieldTravelMode)
	d.TravelMotive = strField(FieldTravelMotive)
	d.TripCount = intField(FieldTripCount)
	d.KmTravelled = intField(FieldKmTravelled)

	if len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, "; "))
	}

	if err := getValidator().Struct(&d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldErrorMessage(fe))
			}
			return nil, errors.New(strings.Join(msgs, "; "))
		}
		return nil, err
	}
	return &d, nil
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s: must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed on %s", fe.Field(), fe.Tag())
	}
}

// asInt 接受整数、整值浮点数以及数字字符串
func asInt(v any) (*int, error) {
	var n int
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = x
	case int32:
		n = int(x)
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, fmt.Errorf("expected an integer, got %v", x)
		}
		if x >= math.MaxInt || x < math.MinInt {
			return nil, fmt.Errorf("integer out of range: %v", x)
		}
		n = int(x)
	case float32:
		return asInt(float64(x))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", x)
		}
		n = i
	default:
		return nil, fmt.Errorf("expected an integer, got %T", v)
	}
	return &n, nil
}

// asString 接受字符串与整数（含整值浮点数），整数按十进制格式化
func asString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || x >= math.MaxInt64 || x < math.MinInt64 {
			return "", fmt.Errorf("expected a string, got %v", x)
		}
		return strconv.FormatInt(int64(x), 10), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", v)
	}
}
