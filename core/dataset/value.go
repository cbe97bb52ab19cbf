package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the storage type of a cell value.
type Kind int

const (
	// KindNull marks a missing value.
	KindNull Kind = iota
	// KindBool is a boolean value.
	KindBool
	// KindNumber is a numeric value (stored as float64).
	KindNumber
	// KindText is a free-form string value.
	KindText
	// KindTime is a native date/time value.
	KindTime
)

// String returns the storage type name, matching the names used in profiles.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a tagged union for a single cell. A cell is exactly one of:
// null, bool, number, text, or time. Comparison and inference logic switch
// exhaustively on Kind instead of probing runtime types.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric cell.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Text wraps a string cell.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Time wraps a date/time cell.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind returns the storage type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload. Only meaningful when Kind is KindBool.
func (v Value) Bool() bool { return v.b }

// Number returns the numeric payload. Only meaningful when Kind is KindNumber.
func (v Value) Number() float64 { return v.n }

// Text returns the string payload. Only meaningful when Kind is KindText.
func (v Value) Text() string { return v.s }

// Time returns the time payload. Only meaningful when Kind is KindTime.
func (v Value) Time() time.Time { return v.t }

// IsIntegral reports whether a numeric value has no fractional part.
func (v Value) IsIntegral() bool {
	if v.kind != KindNumber {
		return false
	}
	return v.n == float64(int64(v.n))
}

// String renders the value for composite keys and tabular export.
// Nulls render as the empty string; integral numbers render without a
// decimal point so "1" and 1 produce the same key part.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		if v.IsIntegral() {
			return strconv.FormatInt(int64(v.n), 10)
		}
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindText:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether two values are identical. Values of different kinds
// are never equal; two nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindText:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return false
	}
}

// Interface returns the cell as a plain Go value for JSON serialization.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindText:
		return v.s
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// ValueOf coerces a plain Go value into a cell using explicit type switching.
// Unknown types fall back to their string rendering.
func ValueOf(val any) Value {
	switch v := val.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case float32:
		return Number(float64(v))
	case float64:
		return Number(v)
	case string:
		return Text(v)
	case []byte:
		return Text(string(v))
	case time.Time:
		return Time(v)
	case *time.Time:
		if v == nil {
			return Null()
		}
		return Time(*v)
	default:
		return Text(fmt.Sprintf("%v", v))
	}
}
