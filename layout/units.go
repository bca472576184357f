package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for tab sizes, spacing and font sizes.

// Unit represents the original unit of a length value as specified in a box description.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitPX               // device pixels
	UnitSP               // columns of space advance
	UnitPT               // points, only meaningful for font sizes
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitSP:
		return "sp"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// Spaces 以空格列数表示长度（制表位的默认单位）。
func Spaces(n int) Length { return Length{Value: float64(n), Unit: UnitSP} }

// Pixels 以像素表示长度。
func Pixels(n int) Length { return Length{Value: float64(n), Unit: UnitPX} }

// ToPixels 使用给定的空格宽度把长度换算为像素；pt 与无单位数值按像素处理。
func (l Length) ToPixels(spaceAdvance int) int {
	if l.Unit == UnitSP {
		return int(l.Value) * spaceAdvance
	}
	return int(l.Value)
}

// ParseRawLengthStr parses a length string preserving its unit.
// Unit-less values fall back to def.
func ParseRawLengthStr(value string, def Unit) (Length, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Length{Unit: UnitNone}, false
	}
	lower := strings.ToLower(v)
	unit := def
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"sp", UnitSP}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{Unit: UnitNone}, false
	}
	return Length{Value: f, Unit: unit}, true
}
