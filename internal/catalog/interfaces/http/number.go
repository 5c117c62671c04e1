package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// numericValue 解析 JSON 数字或数字字符串，例如 12.5 和 "12.5"
func numericValue(b []byte) (float64, error) {
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s is not a number", b)
	}
	return f, nil
}

// Price 价格字段，接受数字或数字字符串
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	f, err := numericValue(b)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = Price(f)
	return nil
}

// Stock 库存字段，接受数字或数字字符串，小数部分截断
type Stock int

func (s *Stock) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	f, err := numericValue(b)
	if err != nil {
		return fmt.Errorf("stock: %w", err)
	}
	n := math.Trunc(f)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("stock: %s is out of range", b)
	}
	*s = Stock(n)
	return nil
}
