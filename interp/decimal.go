package interp

import "github.com/shopspring/decimal"

// ToDecimal marshals an int64/float64 operand into a decimal.Decimal
// for the host-callable boundary (SPEC_FULL.md §6); any other value
// passes through unchanged.
func ToDecimal(v Value) Value {
	switch t := v.(type) {
	case int64:
		return decimal.NewFromInt(t)
	case float64:
		return decimal.NewFromFloat(t)
	}
	return v
}

// FromDecimal converts a decimal.Decimal coming back across the host
// boundary into int64 (when it has no fractional part) or float64.
// Any other value passes through unchanged.
func FromDecimal(v Value) Value {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return v
	}
	if d.IsInteger() {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}

func marshalArgs(args []Value, decimalMode bool) []Value {
	if !decimalMode {
		return args
	}
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = ToDecimal(a)
	}
	return out
}
