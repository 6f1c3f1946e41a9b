package interp

import (
	"fmt"

	"smg/ast"
	"smg/internal/logx"
	"smg/parser"
)

// jumpFlag records an in-flight control transfer (break/continue/
// return) that unwinds through statement execution until the
// construct that can consume it (a loop, or a function call).
type jumpFlag int

const (
	jumpNone jumpFlag = iota
	jumpBreak
	jumpContinue
	jumpReturn
)

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithDecimalMode turns on decimal.Decimal marshalling of host-callable
// arguments and return values (spec.md §6, SPEC_FULL.md §6).
func WithDecimalMode(enabled bool) Option {
	return func(i *Interpreter) { i.decimalMode = enabled }
}

// WithLogger installs a trace logger; without this option the
// interpreter logs nothing.
func WithLogger(log *logx.Logger) Option {
	return func(i *Interpreter) { i.log = log }
}

// Interpreter tree-walks a parsed Program against a scope stack. It is
// reusable across Run calls: globals are snapshotted before execution
// and restored afterward, so Run behaves as a pure function of
// (program, pre-run globals) unless the caller inspects Globals()
// between runs.
type Interpreter struct {
	program *ast.Program
	globals *Scope
	stack   *ScopeStack

	lastResult  Value
	lastGlobals map[string]Value
	jump        jumpFlag
	decimalMode bool
	log         *logx.Logger
}

// New parses src and builds an Interpreter ready to Bind globals and Run.
func New(src string, opts ...Option) (*Interpreter, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	it := &Interpreter{
		program: program,
		globals: NewScope(),
		log:     logx.NoOp(),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it, nil
}

// Bind pre-binds a global variable before Run. Typically used by a
// host to expose callables like print/println.
func (i *Interpreter) Bind(name string, value Value) {
	i.globals.vars[name] = value
}

// Globals returns the global bindings as they stood at the end of the
// most recent Run, before the pure-function restore. A host REPL uses
// this to persist state across successive Run calls.
func (i *Interpreter) Globals() map[string]Value {
	return i.lastGlobals
}

// Run executes every top-level statement once. Globals are restored to
// their pre-run values afterward; use Bind/Globals across calls to
// thread state through explicitly.
func (i *Interpreter) Run() (Value, error) {
	pre := i.globals.snapshot()
	i.stack = newScopeStack(i.globals)
	i.lastResult = nil
	i.jump = jumpNone
	i.injectBuiltins()

	i.log.Trace("interp: run start")
	err := i.execStatements(i.program.Statements)
	i.lastGlobals = i.globals.snapshot()
	i.globals.restore(pre)

	if err != nil {
		i.log.Tracef("interp: run failed: %v", err)
		return nil, err
	}
	i.log.Trace("interp: run done")
	return i.lastResult, nil
}

func rewrapLine(err error, line int) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RuntimeError); ok && re.Line == 0 {
		re.Line = line
	}
	return err
}

// --- statements ---

func (i *Interpreter) execStatements(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := i.execStmt(s); err != nil {
			return err
		}
		if i.jump != jumpNone {
			return nil
		}
	}
	return nil
}

func (i *Interpreter) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Declare:
		return i.execDeclare(s)
	case *ast.Assign:
		return i.execAssign(s)
	case *ast.ExprStmt:
		v, err := i.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		i.lastResult = v
		return nil
	case *ast.If:
		return i.execIf(s)
	case *ast.While:
		return i.execWhile(s)
	case *ast.For:
		return i.execFor(s)
	case *ast.ForEach:
		return i.execForEach(s)
	case *ast.Scope:
		return i.execScope(s)
	case *ast.Function:
		closure := &Closure{Name: s.Name, Params: s.Params, Body: s.Body, Captured: i.stack.snapshotFrames()}
		return rewrapLine(i.stack.defineVar(s.Name, closure), s.Line)
	case *ast.Return:
		var v Value
		if s.Expr != nil {
			var err error
			v, err = i.evalExpr(s.Expr)
			if err != nil {
				return err
			}
		}
		i.lastResult = v
		i.jump = jumpReturn
		return nil
	case *ast.Break:
		i.jump = jumpBreak
		return nil
	case *ast.Continue:
		i.jump = jumpContinue
		return nil
	case *ast.TryCatch:
		return i.execTryCatch(s)
	}
	return newRuntimeError(0, "unsupported statement %T", stmt)
}

func (i *Interpreter) execDeclare(s *ast.Declare) error {
	var v Value
	if s.Expr != nil {
		var err error
		v, err = i.evalExpr(s.Expr)
		if err != nil {
			return err
		}
	}
	return rewrapLine(i.stack.defineVar(s.Name, v), s.Line)
}

func (i *Interpreter) execScope(scope *ast.Scope) error {
	i.stack.enterScope(nil)
	defer i.stack.exitScope()
	return i.execStatements(scope.Inner)
}

func (i *Interpreter) execIf(s *ast.If) error {
	cond, err := i.evalExpr(s.Cond)
	if err != nil {
		return err
	}
	if isTruthy(cond) {
		return i.execScope(s.Then)
	}
	switch e := s.Else.(type) {
	case nil:
		return nil
	case *ast.Scope:
		return i.execScope(e)
	case *ast.If:
		return i.execIf(e)
	}
	return newRuntimeError(s.Line, "unsupported else clause %T", s.Else)
}

func (i *Interpreter) execWhile(s *ast.While) error {
	for {
		cond, err := i.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if !isTruthy(cond) {
			return nil
		}
		if err := i.execScope(s.Body); err != nil {
			return err
		}
		switch i.jump {
		case jumpBreak:
			i.jump = jumpNone
			return nil
		case jumpReturn:
			return nil
		case jumpContinue:
			i.jump = jumpNone
		}
	}
}

func (i *Interpreter) execFor(s *ast.For) error {
	i.stack.enterScope(nil)
	defer i.stack.exitScope()

	if s.Init != nil {
		if err := i.execStmt(s.Init); err != nil {
			return err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := i.evalExpr(s.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
		}
		if err := i.execScope(s.Body); err != nil {
			return err
		}
		switch i.jump {
		case jumpBreak:
			i.jump = jumpNone
			return nil
		case jumpReturn:
			return nil
		case jumpContinue:
			i.jump = jumpNone
		}
		if s.Inc != nil {
			if err := i.execStmt(s.Inc); err != nil {
				return err
			}
		}
	}
}

func (i *Interpreter) execForEach(s *ast.ForEach) error {
	listVal, err := i.evalTerm(s.ListTerm)
	if err != nil {
		return err
	}
	items, err := iterableItems(listVal, s.Line)
	if err != nil {
		return err
	}
	for _, item := range items {
		i.stack.enterScope(nil)
		if err := i.stack.defineVar(s.ItrName, item); err != nil {
			i.stack.exitScope()
			return rewrapLine(err, s.Line)
		}
		err := i.execStatements(s.Body.Inner)
		i.stack.exitScope()
		if err != nil {
			return err
		}
		switch i.jump {
		case jumpBreak:
			i.jump = jumpNone
			return nil
		case jumpReturn:
			return nil
		case jumpContinue:
			i.jump = jumpNone
		}
	}
	return nil
}

func iterableItems(v Value, line int) ([]Value, error) {
	switch t := v.(type) {
	case *List:
		return t.Items, nil
	case string:
		runes := []rune(t)
		items := make([]Value, len(runes))
		for idx, r := range runes {
			items[idx] = string(r)
		}
		return items, nil
	}
	return nil, newRuntimeError(line, "cannot iterate over %s", typeName(v))
}

func (i *Interpreter) execTryCatch(s *ast.TryCatch) error {
	depth := i.stack.depth()
	err := i.execScope(s.Try)
	if err != nil && s.Catch != nil {
		i.stack.truncate(depth)
		i.jump = jumpNone
		i.stack.enterScope(nil)
		if s.ErrName != "" {
			if dErr := i.stack.defineVar(s.ErrName, NewException(err)); dErr != nil {
				i.stack.exitScope()
				return rewrapLine(dErr, s.Line)
			}
		}
		err = i.execStatements(s.Catch.Inner)
		i.stack.exitScope()
	}
	if s.Finally != nil {
		savedJump := i.jump
		savedResult := i.lastResult
		i.jump = jumpNone
		ferr := i.execScope(s.Finally)
		if ferr != nil {
			return ferr
		}
		if i.jump == jumpNone {
			i.jump = savedJump
			i.lastResult = savedResult
		}
	}
	return err
}

// --- assignment ---

func (i *Interpreter) execAssign(s *ast.Assign) error {
	rhs, err := i.evalExpr(s.Expr)
	if err != nil {
		return err
	}
	switch target := s.Target.(type) {
	case ast.Variable:
		cur, _ := i.stack.getVar(target.Name)
		val, err := applyAssignOp(s.Op, cur, rhs, s.Line)
		if err != nil {
			return err
		}
		return rewrapLine(i.stack.setVar(target.Name, val), s.Line)
	case ast.PropAccess:
		container, err := i.evalTerm(target.Term)
		if err != nil {
			return err
		}
		m, ok := container.(*Map)
		if !ok {
			return newRuntimeError(s.Line, "property assignment target is not a map")
		}
		val, err := applyAssignOp(s.Op, m.Entries[target.Prop], rhs, s.Line)
		if err != nil {
			return err
		}
		m.Entries[target.Prop] = val
		return nil
	case ast.ArrayAccess:
		return i.execArrayAccessAssign(s, target, rhs)
	}
	return newRuntimeError(s.Line, "invalid assignment target %T", s.Target)
}

func applyAssignOp(op ast.AssignOp, cur, rhs Value, line int) (Value, error) {
	if op == ast.SimpleAssign {
		return rhs, nil
	}
	if op == ast.AddEq {
		return addValues(cur, rhs, line)
	}
	var bop ast.BinaryOp
	switch op {
	case ast.SubEq:
		bop = ast.Subtract
	case ast.MulEq:
		bop = ast.Multiply
	case ast.DivEq:
		bop = ast.Divide
	case ast.ModEq:
		bop = ast.Modulo
	case ast.AndEq:
		bop = ast.BitAnd
	case ast.OrEq:
		bop = ast.BitOr
	default:
		return nil, newRuntimeError(line, "unsupported compound assignment operator")
	}
	return evalArith(bop, cur, rhs, line)
}

// execArrayAccessAssign implements spec.md §4.3's three container
// assignment shapes: map entry write (string index), list entry write
// (numeric index), and — only when the indexed container term is a
// bare variable holding a string — single-character replacement by
// rebuilding and rebinding the string.
func (i *Interpreter) execArrayAccessAssign(s *ast.Assign, target ast.ArrayAccess, rhs Value) error {
	container, err := i.evalTerm(target.Term)
	if err != nil {
		return err
	}
	idxVal, err := i.evalExpr(target.Index)
	if err != nil {
		return err
	}

	switch c := container.(type) {
	case *Map:
		key, ok := idxVal.(string)
		if !ok {
			return newRuntimeError(s.Line, "map index must be a string")
		}
		val, err := applyAssignOp(s.Op, c.Entries[key], rhs, s.Line)
		if err != nil {
			return err
		}
		c.Entries[key] = val
		return nil
	case *List:
		idx, err := indexToInt(idxVal, s.Line)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= int64(len(c.Items)) {
			return newRuntimeError(s.Line, "list index %d out of range", idx)
		}
		val, err := applyAssignOp(s.Op, c.Items[idx], rhs, s.Line)
		if err != nil {
			return err
		}
		c.Items[idx] = val
		return nil
	case string:
		variable, ok := target.Term.(ast.Variable)
		if !ok {
			return newRuntimeError(s.Line, "string character assignment requires a variable target")
		}
		idx, err := indexToInt(idxVal, s.Line)
		if err != nil {
			return err
		}
		runes := []rune(c)
		if idx < 0 || idx >= int64(len(runes)) {
			return newRuntimeError(s.Line, "string index %d out of range", idx)
		}
		ch, err := castToChar(rhs, s.Line)
		if err != nil {
			return err
		}
		runes[idx] = []rune(ch)[0]
		return rewrapLine(i.stack.setVar(variable.Name, string(runes)), s.Line)
	}
	return newRuntimeError(s.Line, "cannot index into %s", typeName(container))
}

// --- closures ---

func (i *Interpreter) callClosure(c *Closure, args []Value) (Value, error) {
	frame := NewScope()
	callFrames := append(append([]*Scope{}, c.Captured...), frame)
	old := i.stack.replaceFrames(callFrames)

	for idx, param := range c.Params {
		var v Value
		var err error
		if idx < len(args) {
			v = args[idx]
		} else if param.Default != nil {
			v, err = i.evalExpr(param.Default)
			if err != nil {
				i.stack.replaceFrames(old)
				return nil, err
			}
		}
		frame.vars[param.Name] = v
	}

	savedJump := i.jump
	i.jump = jumpNone
	err := i.execStatements(c.Body.Inner)
	result := i.lastResult
	if i.jump != jumpReturn {
		result = nil
	}
	i.jump = savedJump
	i.stack.replaceFrames(old)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// --- expressions ---

func (i *Interpreter) evalExpr(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case ast.TermExpr:
		return i.evalTerm(e.Term)
	case ast.BinaryExpr:
		return i.evalBinary(e)
	case ast.Lambda:
		return &Closure{Params: e.Params, Body: e.Body, Captured: i.stack.snapshotFrames()}, nil
	}
	return nil, newRuntimeError(0, "unsupported expression %T", expr)
}

func (i *Interpreter) evalBinary(e ast.BinaryExpr) (Value, error) {
	switch e.Op {
	case ast.And:
		left, err := i.evalTerm(e.Left)
		if err != nil {
			return nil, err
		}
		if !isTruthy(left) {
			return false, nil
		}
		right, err := i.evalTerm(e.Right)
		if err != nil {
			return nil, err
		}
		return isTruthy(right), nil
	case ast.Or:
		left, err := i.evalTerm(e.Left)
		if err != nil {
			return nil, err
		}
		if isTruthy(left) {
			return true, nil
		}
		right, err := i.evalTerm(e.Right)
		if err != nil {
			return nil, err
		}
		return isTruthy(right), nil
	}

	left, err := i.evalTerm(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalTerm(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.Equal:
		return valuesEqual(left, right)
	case ast.NotEqual:
		ok, err := valuesEqual(left, right)
		if err != nil {
			return nil, err
		}
		return !ok, nil
	case ast.Add:
		return addValues(left, right, e.Line)
	case ast.Modulo:
		if ls, ok := left.(string); ok {
			return formatString(ls, right), nil
		}
		return evalArith(e.Op, left, right, e.Line)
	}
	return evalArith(e.Op, left, right, e.Line)
}

func formatString(format string, arg Value) string {
	if list, ok := arg.(*List); ok {
		return fmt.Sprintf(format, list.Items...)
	}
	return fmt.Sprintf(format, arg)
}

// --- terms ---

func (i *Interpreter) evalTerm(t ast.Term) (Value, error) {
	switch term := t.(type) {
	case ast.Literal:
		return term.Value, nil
	case ast.Variable:
		v, ok := i.stack.getVar(term.Name)
		if !ok {
			return nil, newRuntimeError(term.Line, "undefined variable: %s", term.Name)
		}
		return v, nil
	case ast.ParenExpr:
		return i.evalExpr(term.Expr)
	case ast.UnaryExpr:
		return i.evalUnary(term)
	case ast.ArrayAccess:
		return i.evalArrayAccess(term)
	case ast.PropAccess:
		container, err := i.evalTerm(term.Term)
		if err != nil {
			return nil, err
		}
		return propertyAccess(container, term.Prop, term.Line)
	case ast.Call:
		return i.evalCall(term)
	case ast.Cast:
		v, err := i.evalTerm(term.Term)
		if err != nil {
			return nil, err
		}
		return castValue(v, term.Type, term.Line)
	case ast.ArrayLiteral:
		items := make([]Value, len(term.Items))
		for idx, itemExpr := range term.Items {
			v, err := i.evalExpr(itemExpr)
			if err != nil {
				return nil, err
			}
			items[idx] = v
		}
		return &List{Items: items}, nil
	case ast.MapLiteral:
		entries := make(map[string]Value, len(term.Entries))
		for _, e := range term.Entries {
			v, err := i.evalExpr(e.Value)
			if err != nil {
				return nil, err
			}
			entries[e.Key] = v
		}
		return &Map{Entries: entries}, nil
	}
	return nil, newRuntimeError(0, "unsupported term %T", t)
}

func (i *Interpreter) evalUnary(term ast.UnaryExpr) (Value, error) {
	if term.Op == ast.Increment || term.Op == ast.Decrement {
		return nil, newRuntimeError(term.Line, "++ and -- are not supported at runtime")
	}
	v, err := i.evalTerm(term.Term)
	if err != nil {
		return nil, err
	}
	switch term.Op {
	case ast.Negate:
		n, err := coerceNumeric(v)
		if err != nil {
			return nil, newRuntimeError(term.Line, "%v", err)
		}
		if n.isInt {
			return -n.i, nil
		}
		return -n.f, nil
	case ast.Invert:
		n, err := coerceNumeric(v)
		if err != nil {
			return nil, newRuntimeError(term.Line, "%v", err)
		}
		return ^n.i, nil
	case ast.Not:
		return !isTruthy(v), nil
	}
	return nil, newRuntimeError(term.Line, "unsupported unary operator")
}

func (i *Interpreter) evalArrayAccess(term ast.ArrayAccess) (Value, error) {
	container, err := i.evalTerm(term.Term)
	if err != nil {
		return nil, err
	}
	idxVal, err := i.evalExpr(term.Index)
	if err != nil {
		return nil, err
	}
	// A string index behaves like property access regardless of the
	// container type (spec.md §4.3 ArrayAccess), so this is checked
	// before the per-container dispatch below.
	if key, ok := idxVal.(string); ok {
		return propertyAccess(container, key, term.Line)
	}
	switch c := container.(type) {
	case *List:
		idx, err := indexToInt(idxVal, term.Line)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= int64(len(c.Items)) {
			return nil, newRuntimeError(term.Line, "list index %d out of range", idx)
		}
		return c.Items[idx], nil
	case string:
		idx, err := indexToInt(idxVal, term.Line)
		if err != nil {
			return nil, err
		}
		runes := []rune(c)
		if idx < 0 || idx >= int64(len(runes)) {
			return nil, newRuntimeError(term.Line, "string index %d out of range", idx)
		}
		return string(runes[idx]), nil
	case *Map:
		key, ok := idxVal.(string)
		if !ok {
			return nil, newRuntimeError(term.Line, "map index must be a string")
		}
		return c.Entries[key], nil
	}
	return nil, newRuntimeError(term.Line, "cannot index into %s", typeName(container))
}

func indexToInt(v Value, line int) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	}
	return 0, newRuntimeError(line, "index must be numeric, got %s", typeName(v))
}

func (i *Interpreter) evalCall(term ast.Call) (Value, error) {
	calleeVal, err := i.evalTerm(term.Callee)
	if err != nil {
		return nil, err
	}
	callee, ok := calleeVal.(Callable)
	if !ok {
		return nil, newRuntimeError(term.Line, "cannot call a value of type %s", typeName(calleeVal))
	}
	args := make([]Value, len(term.Args))
	for idx, argExpr := range term.Args {
		v, err := i.evalExpr(argExpr)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	_, isClosure := calleeVal.(*Closure)
	if !isClosure && i.decimalMode {
		args = marshalArgs(args, true)
	}

	result, err := callee.call(i, args)
	if err != nil {
		return nil, rewrapLine(err, term.Line)
	}
	if !isClosure && i.decimalMode {
		result = FromDecimal(result)
	}
	return result, nil
}
