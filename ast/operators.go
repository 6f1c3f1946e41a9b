package ast

// BinaryOp enumerates the binary operators of spec.md §3.
type BinaryOp int

const (
	Exponent BinaryOp = iota
	Multiply
	Divide
	Modulo
	Add
	Subtract
	ShiftLeft
	ShiftRight
	Less
	LessEqual
	Greater
	GreaterEqual
	Equal
	NotEqual
	BitAnd
	BitOr
	BitXor
	And
	Or
)

// UnaryOp enumerates the unary operators of spec.md §3. Increment and
// Decrement are reserved: the parser produces them for prefix `++`/`--`
// like any other unary operator, and the interpreter rejects them at
// runtime as unsupported.
type UnaryOp int

const (
	Negate UnaryOp = iota
	Invert
	Not
	Increment
	Decrement
)

// AssignOp enumerates compound-assignment operators. SimpleAssign is
// plain '='; the statement node carrying it is ast.Assign.
type AssignOp int

const (
	SimpleAssign AssignOp = iota
	AddEq
	SubEq
	MulEq
	DivEq
	ModEq
	AndEq
	OrEq
)

// Param is a declared closure/function parameter with an optional
// default-value expression, evaluated (per call) in the closure's
// captured scope when the caller omits the argument.
type Param struct {
	Name    string
	Default Expression // nil when the parameter has no default
}
