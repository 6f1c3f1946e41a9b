package interp

import (
	"strconv"
	"strings"
	"time"
)

// dateLayout is the only date format the language understands, per
// spec.md §6: "the `date` cast parses `dd/MM/yyyy`".
const dateLayout = "02/01/2006"

// castValue implements the Cast term for each of the eight cast type
// names in spec.md §6. Each conversion is explicit; unsupported
// source/target pairs raise a RuntimeError (spec.md §4.3 Cast).
func castValue(v Value, typeName string, line int) (Value, error) {
	switch typeName {
	case "int", "long":
		return castToInt(v, line)
	case "double", "float":
		return castToFloat(v, line)
	case "char":
		return castToChar(v, line)
	case "string":
		return displayString(v), nil
	case "boolean":
		return isTruthy(v), nil
	case "date":
		return castToDate(v, line)
	}
	return nil, newRuntimeError(line, "unsupported cast type %q", typeName)
}

func castToInt(v Value, line int) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
		return 0, newRuntimeError(line, "cannot cast %q to int", t)
	case time.Time:
		return t.UnixMilli(), nil
	}
	return 0, newRuntimeError(line, "cannot cast %T to int", v)
}

func castToFloat(v Value, line int) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, newRuntimeError(line, "cannot cast %q to double", t)
		}
		return f, nil
	case time.Time:
		return float64(t.UnixMilli()), nil
	}
	return 0, newRuntimeError(line, "cannot cast %T to double", v)
}

func castToChar(v Value, line int) (string, error) {
	switch t := v.(type) {
	case string:
		r := []rune(t)
		if len(r) == 0 {
			return "", newRuntimeError(line, "cannot cast an empty string to char")
		}
		return string(r[0]), nil
	case int64:
		return string(rune(t)), nil
	case float64:
		return string(rune(int64(t))), nil
	}
	return "", newRuntimeError(line, "cannot cast %T to char", v)
}

func castToDate(v Value, line int) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		d, err := time.Parse(dateLayout, t)
		if err != nil {
			return time.Time{}, newRuntimeError(line, "cannot cast %q to date, expected dd/MM/yyyy", t)
		}
		return d, nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	}
	return time.Time{}, newRuntimeError(line, "cannot cast %T to date", v)
}
