package interp

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is any SMG runtime value: nil, bool, int64, float64, string,
// time.Time (date), *List, *Map, Callable, or *Exception.
type Value = any

// List is SMG's array, boxed behind a pointer so every alias observes
// a mutation (spec.md §3: container mutation must be visible through
// every reference to the same list).
type List struct {
	Items []Value
}

// Map is SMG's map, boxed for the same reason as List.
type Map struct {
	Entries map[string]Value
}

// Exception is a raised language-level error value, catchable by
// try/catch. Cause holds the original Go error when the exception
// wraps a host failure (spec.md §7's "suppressed cause").
type Exception struct {
	Message string
	Cause   error
}

func (e *Exception) Error() string { return e.Message }

// NewException wraps any Go error as a catchable SMG exception.
func NewException(err error) *Exception {
	if exc, ok := err.(*Exception); ok {
		return exc
	}
	return &Exception{Message: err.Error(), Cause: err}
}

// isTruthy implements SMG's truthiness rule: null is false, booleans
// are themselves, everything else is true.
func isTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// numeric is a coerced numeric operand. i holds the integer form (a
// float64 is truncated toward zero), which integer-only operators
// (shifts, bitwise, invert) use. isInt records whether the original
// value was exactly representable as an integer so that
// integer-preserving arithmetic stays in int64 per spec.md §4.4
// ("binary operators mixing integer and floating-point operate in
// floating-point").
type numeric struct {
	f     float64
	i     int64
	isInt bool
}

// coerceNumeric implements spec.md §4.4's numeric coercion: null→0,
// date→epoch-milliseconds, number→itself, string→a hash-derived
// numeric value ("good enough for equality of equal strings, unstable
// for ordering" — spec.md §9).
func coerceNumeric(v Value) (numeric, error) {
	switch t := v.(type) {
	case nil:
		return numeric{isInt: true}, nil
	case int64:
		return numeric{f: float64(t), i: t, isInt: true}, nil
	case float64:
		return numeric{f: t, i: int64(t)}, nil
	case time.Time:
		ms := t.UnixMilli()
		return numeric{f: float64(ms), i: ms, isInt: true}, nil
	case string:
		return numeric{f: hashString(t)}, nil
	}
	return numeric{}, fmt.Errorf("cannot use a value of type %T as a number", v)
}

// hashString derives a deterministic float64 from a string's FNV-1a
// hash. Equal strings always hash equal; ordering between distinct
// strings carries no meaning (spec.md §9 numeric-coercion-of-strings
// note).
func hashString(s string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return float64(h.Sum64() % (1 << 53))
}

// intPow computes base^exp for a non-negative integer exponent by
// repeated squaring.
func intPow(base, exp int64) int64 {
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Display renders v the way the language's string conversions do; it
// is the exported form of displayString for hosts like cmd/smg that
// need to print a returned Value.
func Display(v Value) string { return displayString(v) }

// displayString renders v the way string concatenation and print/
// println do: dates as dd/MM/yyyy, doubles via Go's shortest
// round-trip decimal form (locale-insensitive, unlike the host's
// default number formatting), everything else via fmt's default verb.
func displayString(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int64:
		return fmt.Sprintf("%d", t)
	case float64:
		return strFloat(t)
	case time.Time:
		return t.Format("02/01/2006")
	case *List:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = displayString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Map:
		parts := make([]string, 0, len(t.Entries))
		for k, val := range t.Entries {
			parts = append(parts, fmt.Sprintf("%s: %s", k, displayString(val)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Exception:
		return t.Message
	case Callable:
		return "<function>"
	}
	return fmt.Sprintf("%v", v)
}

func strFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// valuesEqual implements spec.md §4.4's equality rule: null compares
// by reference/identity (so only null equals null), matching strings
// compare directly (trivially consistent with the hash-coercion note:
// equal strings always hash equal), everything else compares via
// numeric coercion.
func valuesEqual(left, right Value) (bool, error) {
	if left == nil || right == nil {
		return left == nil && right == nil, nil
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls == rs, nil
		}
	}
	ln, err := coerceNumeric(left)
	if err != nil {
		return false, err
	}
	rn, err := coerceNumeric(right)
	if err != nil {
		return false, err
	}
	if ln.isInt && rn.isInt {
		return ln.i == rn.i, nil
	}
	return ln.f == rn.f, nil
}
