// Package series holds the canonical normalized entities of the analysis
// pipeline: an explicit optional numeric, year-indexed financial series,
// alias-resolved statement snapshots, and date-indexed price series.
//
// Every formula downstream works on Value rather than raw float64 so that
// missing data degrades one metric at a time instead of poisoning a whole
// table with NaN.
package series

import "math"

// Value is an optional float64. The zero value is absent ("unavailable"),
// which is distinct from zero: a company with no reported debt is not the
// same as one whose debt line item is missing.
type Value struct {
	v  float64
	ok bool
}

// Some wraps a finite float. NaN and ±Inf collapse to absent, so pandas-style
// silent non-finite propagation cannot happen.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// None returns the absent value.
func None() Value { return Value{} }

// FromPtr converts the wire representation (nil pointer = absent).
func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Some(*p)
}

// IsSome reports whether the value is present.
func (x Value) IsSome() bool { return x.ok }

// Float returns the underlying float and whether it is present.
func (x Value) Float() (float64, bool) { return x.v, x.ok }

// Or returns the value, or def when absent.
func (x Value) Or(def float64) float64 {
	if !x.ok {
		return def
	}
	return x.v
}

// Ptr returns a pointer for the wire representation, nil when absent.
func (x Value) Ptr() *float64 {
	if !x.ok {
		return nil
	}
	v := x.v
	return &v
}

// Add returns x+y, absent if either side is absent.
func (x Value) Add(y Value) Value {
	if !x.ok || !y.ok {
		return Value{}
	}
	return Some(x.v + y.v)
}

// Sub returns x-y, absent if either side is absent.
func (x Value) Sub(y Value) Value {
	if !x.ok || !y.ok {
		return Value{}
	}
	return Some(x.v - y.v)
}

// Mul returns x*y, absent if either side is absent.
func (x Value) Mul(y Value) Value {
	if !x.ok || !y.ok {
		return Value{}
	}
	return Some(x.v * y.v)
}

// Scale returns x*k, absent if x is absent.
func (x Value) Scale(k float64) Value {
	if !x.ok {
		return Value{}
	}
	return Some(x.v * k)
}

// Abs returns |x|, absent if x is absent.
func (x Value) Abs() Value {
	if !x.ok {
		return Value{}
	}
	return Some(math.Abs(x.v))
}

// SafeDiv returns a/b. Absent when either operand is absent, when b is zero,
// or when the result would be non-finite. This is the single division rule
// used by every metric.
func SafeDiv(a, b Value) Value {
	if !a.ok || !b.ok || b.v == 0 {
		return Value{}
	}
	return Some(a.v / b.v)
}

// Pow returns x^p, absent when x is absent or the result is non-finite
// (e.g. a negative base with a fractional exponent).
func Pow(x Value, p float64) Value {
	if !x.ok {
		return Value{}
	}
	return Some(math.Pow(x.v, p))
}
