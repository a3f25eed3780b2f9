package value

import "math"

// Kind identifies which alternative of the value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindEnum
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindEnum:
		return "Enum"
	case KindList:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is a field value: null, boolean, 64-bit signed integer, 64-bit IEEE
// float, string, enum symbol, or a homogeneously-typed list of values
// (lists may nest). The zero Value is Null.
type Value struct {
	kind Kind

	b    bool
	i    int64
	f    float64
	s    string
	list []Value
}

// Null is the null value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Int(i int64) Value    { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Enum(symbol string) Value { return Value{kind: KindEnum, s: symbol} }
func List(elems []Value) Value { return Value{kind: KindList, list: elems} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Str() string    { return v.s }
func (v Value) Enum_() string  { return v.s }
func (v Value) List() []Value  { return v.list }

// Equal implements the value model's structural equality, with bitwise
// NaN-equal float comparison so values remain usable as stable keys.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return math.Float64bits(a.f) == math.Float64bits(b.f)
	case KindString, KindEnum:
		return a.s == b.s
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Comparable reports whether a and b may be compared with the ordering
// operators (<, <=, >, >=). Ordering is only defined within a kind, and
// only for Int, Float, and String.
func Comparable(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInt, KindFloat, KindString:
		return true
	default:
		return false
	}
}

// Less implements strict ordering for Comparable values. NaN float values
// are never ordered: Less returns false for any comparison involving NaN in
// either position, on either side of the inequality. NaN compares only
// equal to itself, and only under Equal.
func Less(a, b Value) bool {
	switch a.kind {
	case KindInt:
		return a.i < b.i
	case KindFloat:
		if math.IsNaN(a.f) || math.IsNaN(b.f) {
			return false
		}
		return a.f < b.f
	case KindString:
		return a.s < b.s
	default:
		return false
	}
}
