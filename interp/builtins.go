package interp

import (
	"strings"
	"time"
)

// injectBuiltins installs the three well-known built-ins spec.md §4.3
// names: exists, global, type. They are plain global bindings, so
// user code may overwrite them like any other variable.
func (i *Interpreter) injectBuiltins() {
	i.globals.vars["exists"] = HostFunc(func(args []Value) (Value, error) {
		if len(args) == 0 {
			return false, nil
		}
		name, ok := args[0].(string)
		if !ok {
			return false, nil
		}
		_, found := i.stack.getVar(name)
		return found, nil
	})
	i.globals.vars["global"] = HostFunc(func(args []Value) (Value, error) {
		if len(args) == 0 {
			return nil, newRuntimeError(0, "global() requires a name argument")
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, newRuntimeError(0, "global() name must be a string")
		}
		if !i.globals.has(name) {
			i.globals.vars[name] = nil
		}
		return nil, nil
	})
	i.globals.vars["type"] = HostFunc(func(args []Value) (Value, error) {
		if len(args) == 0 {
			return "null", nil
		}
		return typeName(args[0]), nil
	})
}

func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64:
		return "int"
	case float64:
		return "double"
	case string:
		return "string"
	case time.Time:
		return "date"
	case *List:
		return "list"
	case *Map:
		return "map"
	case *Exception:
		return "exception"
	case Callable:
		return "function"
	}
	return "unknown"
}

// propertyAccess implements the well-known string/list properties
// (spec.md §4.3 PropAccess: "size"/"length", and strings additionally
// expose "split").
func propertyAccess(container Value, prop string, line int) (Value, error) {
	switch c := container.(type) {
	case *Map:
		v, ok := c.Entries[prop]
		if !ok {
			return nil, nil
		}
		return v, nil
	case string:
		switch prop {
		case "size", "length":
			return int64(len([]rune(c))), nil
		case "split":
			return HostFunc(func(args []Value) (Value, error) {
				return splitString(c, args), nil
			}), nil
		}
		return nil, newRuntimeError(line, "string has no property %q", prop)
	case *List:
		switch prop {
		case "size", "length":
			return int64(len(c.Items)), nil
		}
		return nil, newRuntimeError(line, "list has no property %q", prop)
	}
	return nil, newRuntimeError(line, "cannot access property %q on %s", prop, typeName(container))
}

func splitString(s string, args []Value) Value {
	sep := " "
	if len(args) > 0 {
		if str, ok := args[0].(string); ok {
			sep = str
		}
	}
	parts := strings.Split(s, sep)
	items := make([]Value, len(parts))
	for i, p := range parts {
		items[i] = p
	}
	return &List{Items: items}
}
