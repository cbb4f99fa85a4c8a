package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	moneyScale = 2
	rateScale  = 4
)

// Money 金额类型（保留 2 位小数）
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

// FitsScale 小数位不超过 2 位（尾随零不计）
func (m Money) FitsScale() bool {
	return m.Decimal.Equal(m.Decimal.Round(moneyScale))
}

// MarshalJSON 输出固定 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 接受字符串或数字，保留原始精度，由调用方校验小数位
func (m *Money) UnmarshalJSON(b []byte) error {
	d, ok, err := decodeDecimalJSON(b)
	if err != nil || !ok {
		return err
	}
	m.Decimal = d
	return nil
}

// Value 写库
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(moneyScale).Value()
}

// Scan 读库
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(moneyScale)
	return nil
}

// String 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(moneyScale).StringFixed(moneyScale)
}

// Rate 比例类型（0.10 表示 10%，保留 4 位小数）
type Rate struct {
	decimal.Decimal
}

// NewRateFromDecimal 从 decimal 创建比例
func NewRateFromDecimal(rate decimal.Decimal) Rate {
	return Rate{Decimal: rate.Round(rateScale)}
}

// FitsScale 小数位不超过 4 位（尾随零不计）
func (r Rate) FitsScale() bool {
	return r.Decimal.Equal(r.Decimal.Round(rateScale))
}

// MarshalJSON 输出规范化后的字符串，如 "0.1"
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON 接受字符串或数字，保留原始精度，由调用方校验小数位
func (r *Rate) UnmarshalJSON(b []byte) error {
	d, ok, err := decodeDecimalJSON(b)
	if err != nil || !ok {
		return err
	}
	r.Decimal = d
	return nil
}

// Value 写库
func (r Rate) Value() (driver.Value, error) {
	return r.Decimal.Round(rateScale).Value()
}

// Scan 读库
func (r *Rate) Scan(value interface{}) error {
	if err := r.Decimal.Scan(value); err != nil {
		return err
	}
	r.Decimal = r.Decimal.Round(rateScale)
	return nil
}

// String 规范化格式
func (r Rate) String() string {
	return r.Decimal.Round(rateScale).String()
}

// decodeDecimalJSON 解析 JSON 字符串或数字，null/空值返回 ok=false
func decodeDecimalJSON(b []byte) (decimal.Decimal, bool, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, false, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, false, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		return d, true, nil
	}
	// 直接按文本解析数字，避免经过 float64
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid decimal %s: %w", trimmed, err)
	}
	return d, true, nil
}
