package interp

import (
	"math"

	"smg/ast"
)

// evalArith implements spec.md §4.4's numeric binary operators: when
// both operands coerce to an exact integer the operator stays in
// int64, otherwise both sides promote to float64. Shifts and bitwise
// operators always work on the operands' integer forms.
func evalArith(op ast.BinaryOp, left, right Value, line int) (Value, error) {
	ln, err := coerceNumeric(left)
	if err != nil {
		return nil, newRuntimeError(line, "%v", err)
	}
	rn, err := coerceNumeric(right)
	if err != nil {
		return nil, newRuntimeError(line, "%v", err)
	}
	bothInt := ln.isInt && rn.isInt

	switch op {
	case ast.Exponent:
		if bothInt && rn.i >= 0 {
			return intPow(ln.i, rn.i), nil
		}
		return math.Pow(ln.f, rn.f), nil
	case ast.Multiply:
		if bothInt {
			return ln.i * rn.i, nil
		}
		return ln.f * rn.f, nil
	case ast.Divide:
		if bothInt {
			if rn.i == 0 {
				return nil, newRuntimeError(line, "division by zero")
			}
			return ln.i / rn.i, nil
		}
		return ln.f / rn.f, nil
	case ast.Modulo:
		if bothInt {
			if rn.i == 0 {
				return nil, newRuntimeError(line, "division by zero")
			}
			return ln.i % rn.i, nil
		}
		return math.Mod(ln.f, rn.f), nil
	case ast.Add:
		if bothInt {
			return ln.i + rn.i, nil
		}
		return ln.f + rn.f, nil
	case ast.Subtract:
		if bothInt {
			return ln.i - rn.i, nil
		}
		return ln.f - rn.f, nil
	case ast.ShiftLeft:
		return ln.i << uint(rn.i), nil
	case ast.ShiftRight:
		return ln.i >> uint(rn.i), nil
	case ast.Less:
		if bothInt {
			return ln.i < rn.i, nil
		}
		return ln.f < rn.f, nil
	case ast.LessEqual:
		if bothInt {
			return ln.i <= rn.i, nil
		}
		return ln.f <= rn.f, nil
	case ast.Greater:
		if bothInt {
			return ln.i > rn.i, nil
		}
		return ln.f > rn.f, nil
	case ast.GreaterEqual:
		if bothInt {
			return ln.i >= rn.i, nil
		}
		return ln.f >= rn.f, nil
	case ast.BitAnd:
		return ln.i & rn.i, nil
	case ast.BitOr:
		return ln.i | rn.i, nil
	case ast.BitXor:
		return ln.i ^ rn.i, nil
	}
	return nil, newRuntimeError(line, "unsupported arithmetic operator")
}

// addValues implements '+', which overloads onto string concatenation
// (spec.md §4.4: "'+' with either operand a string concatenates,
// stringifying the other side") before falling back to numeric add.
func addValues(left, right Value, line int) (Value, error) {
	if ls, ok := left.(string); ok {
		return ls + displayString(right), nil
	}
	if rs, ok := right.(string); ok {
		return displayString(left) + rs, nil
	}
	return evalArith(ast.Add, left, right, line)
}
