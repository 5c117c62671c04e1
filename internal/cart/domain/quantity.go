package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const maxQuantity = math.MaxInt32

// ParseQuantity 把请求中的数量解析为正整数。
// 接受 JSON 数字或数字字符串，小数部分截断。
func ParseQuantity(v any) (int, error) {
	var f float64
	switch q := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: quantity is required", ErrValidation)
	case float64:
		f = q
	case int:
		f = float64(q)
	case json.Number:
		n, err := q.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: quantity must be a number", ErrValidation)
		}
		f = n
	case string:
		s := strings.TrimSpace(q)
		if s == "" {
			return 0, fmt.Errorf("%w: quantity is required", ErrValidation)
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: quantity must be a number", ErrValidation)
		}
		f = n
	default:
		return 0, fmt.Errorf("%w: quantity must be a number", ErrValidation)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: quantity must be a number", ErrValidation)
	}
	n := math.Trunc(f)
	if n <= 0 || n > maxQuantity {
		return 0, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}
	return int(n), nil
}
