package service

import (
	"encoding/json"
	"fmt"
	"physics_edu_backend/internal/util"
	"time"
)

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func jsonBytes(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// validRating 评分范围 1-5
func validRating(values ...int) error {
	for _, v := range values {
		if v < 1 || v > 5 {
			return util.ErrInvalidRating
		}
	}
	return nil
}

// validOptionalRating 可选评分，0 表示未填写
func validOptionalRating(values ...int) error {
	for _, v := range values {
		if v != 0 && (v < 1 || v > 5) {
			return util.ErrInvalidRating
		}
	}
	return nil
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
