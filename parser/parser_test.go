package parser

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"smg/ast"
)

func TestParseDeclare(t *testing.T) {
	prog, err := Parse(`let x = 1 + 2`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.Declare)
	require.True(t, ok, "expected *ast.Declare, got %T", prog.Statements[0])
	require.Equal(t, "x", decl.Name)

	bin, ok := decl.Expr.(ast.BinaryExpr)
	require.True(t, ok, "expected ast.BinaryExpr, got %T", decl.Expr)
	require.Equal(t, ast.Add, bin.Op)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	// 1 + 2 * 3 must bind as 1 + (2 * 3), so the outer op is Add and
	// its right operand is itself a grouping term carrying the
	// Multiply expression.
	prog, err := Parse(`let x = 1 + 2 * 3`)
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.Declare)
	outer := decl.Expr.(ast.BinaryExpr)
	require.Equal(t, ast.Add, outer.Op)

	paren, ok := outer.Right.(ast.ParenExpr)
	require.True(t, ok, "expected ast.ParenExpr wrapping the higher-precedence subexpression, got %T", outer.Right)
	inner := paren.Expr.(ast.BinaryExpr)
	require.Equal(t, ast.Multiply, inner.Op)
}

func TestParseIfElseAcrossNewline(t *testing.T) {
	src := heredoc.Doc(`
		if x > 0 {
			let y = 1
		}
		else {
			let y = 2
		}
	`)
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	ifStmt, ok := prog.Statements[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
	_, ok = ifStmt.Else.(*ast.Scope)
	require.True(t, ok, "expected else clause to be a *ast.Scope, got %T", ifStmt.Else)
}

func TestParseIfWithoutElseDoesNotConsumeNextStatement(t *testing.T) {
	src := heredoc.Doc(`
		if x > 0 {
			let y = 1
		}
		let z = 2
	`)
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	ifStmt := prog.Statements[0].(*ast.If)
	require.Nil(t, ifStmt.Else)

	decl, ok := prog.Statements[1].(*ast.Declare)
	require.True(t, ok)
	require.Equal(t, "z", decl.Name)
}

func TestParseForEachVsCStyleFor(t *testing.T) {
	prog, err := Parse(`for (item in items) { println(item) }`)
	require.NoError(t, err)
	_, ok := prog.Statements[0].(*ast.ForEach)
	require.True(t, ok, "expected *ast.ForEach, got %T", prog.Statements[0])

	prog, err = Parse(`for (let i = 0; i < 10; i += 1) { println(i) }`)
	require.NoError(t, err)
	_, ok = prog.Statements[0].(*ast.For)
	require.True(t, ok, "expected *ast.For, got %T", prog.Statements[0])
}

func TestParseNamedFunctionVsLambda(t *testing.T) {
	prog, err := Parse(`function add(a, b) { return a + b }`)
	require.NoError(t, err)
	_, ok := prog.Statements[0].(*ast.Function)
	require.True(t, ok, "expected *ast.Function, got %T", prog.Statements[0])

	prog, err = Parse(`let f = function (x) x + 1`)
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.Declare)
	lambda, ok := decl.Expr.(ast.Lambda)
	require.True(t, ok, "expected ast.Lambda, got %T", decl.Expr)
	require.Len(t, lambda.Body.Inner, 1)
	_, ok = lambda.Body.Inner[0].(*ast.Return)
	require.True(t, ok, "expected the expression-bodied lambda to be rewritten into a Return statement")
}

func TestParseAssignTargetRestriction(t *testing.T) {
	prog, err := Parse(`x[0] = 1`)
	require.NoError(t, err)
	assign := prog.Statements[0].(*ast.Assign)
	_, ok := assign.Target.(ast.ArrayAccess)
	require.True(t, ok, "expected ast.ArrayAccess target, got %T", assign.Target)

	_, err = Parse(`1 + 1 = 2`)
	require.Error(t, err, "assigning to a non-lvalue term should be a parse error")
}

func TestParseTryCatchFinally(t *testing.T) {
	src := heredoc.Doc(`
		try {
			let x = 1
		}
		catch (e) {
			println(e)
		}
		finally {
			println("done")
		}
	`)
	prog, err := Parse(src)
	require.NoError(t, err)
	tc, ok := prog.Statements[0].(*ast.TryCatch)
	require.True(t, ok, "expected *ast.TryCatch, got %T", prog.Statements[0])
	require.Equal(t, "e", tc.ErrName)
	require.NotNil(t, tc.Catch)
	require.NotNil(t, tc.Finally)
}

func TestParseErrorRecoveryAccumulatesMultiple(t *testing.T) {
	src := heredoc.Doc(`
		let x = )
		let y = 1
		let z = (
	`)
	_, err := Parse(src)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "expected *multierror.Error, got %T", err)
	require.Len(t, merr.Errors, 2, "both bad declarations should be reported")
}

func TestParseIncrementDecrementReachAST(t *testing.T) {
	prog, err := Parse(`let x = ++y`)
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.Declare)
	term := decl.Expr.(ast.TermExpr).Term
	unary, ok := term.(ast.UnaryExpr)
	require.True(t, ok, "expected ast.UnaryExpr, got %T", term)
	require.Equal(t, ast.Increment, unary.Op)
}
