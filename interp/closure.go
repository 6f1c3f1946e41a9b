package interp

import "smg/ast"

// Callable is anything a Call term can invoke: a user Closure or a
// host-provided function/procedure.
type Callable interface {
	call(i *Interpreter, args []Value) (Value, error)
}

// Closure is the result of evaluating a Lambda or Function statement:
// a tuple of (params, body, captured scope-stack snapshot), per
// spec.md §3. Captured is a reference to the live frames in effect at
// creation time, so later mutations of captured variables stay
// visible — true lexical capture, not copy-capture.
type Closure struct {
	Name      string
	Params    []ast.Param
	Body      *ast.Scope
	Captured  []*Scope
}

func (c *Closure) call(i *Interpreter, args []Value) (Value, error) {
	return i.callClosure(c, args)
}

// HostFunc is a host-provided callable that returns a Value.
type HostFunc func(args []Value) (Value, error)

func (f HostFunc) call(_ *Interpreter, args []Value) (Value, error) { return f(args) }

// HostProc is a host-provided callable invoked for effect only; SMG
// sees it return null.
type HostProc func(args []Value)

func (f HostProc) call(_ *Interpreter, args []Value) (Value, error) {
	f(args)
	return nil, nil
}
