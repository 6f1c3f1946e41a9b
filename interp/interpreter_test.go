package interp

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (Value, *Interpreter) {
	t.Helper()
	it, err := New(src)
	require.NoError(t, err)
	result, err := it.Run()
	require.NoError(t, err, "running %q", src)
	return result, it
}

func TestArithmeticStaysIntegerWhenBothOperandsAreInt(t *testing.T) {
	result, _ := run(t, `let x = 7 / 2; x`)
	require.Equal(t, int64(3), result)
}

func TestArithmeticPromotesToFloatWhenMixed(t *testing.T) {
	result, _ := run(t, `let x = 7 / 2.0; x`)
	require.Equal(t, 3.5, result)
}

func TestStringConcatenationStringifiesOtherOperand(t *testing.T) {
	result, _ := run(t, `let x = "count: " + 3; x`)
	require.Equal(t, "count: 3", result)
}

func TestNullEqualityIsIdentityOnly(t *testing.T) {
	result, _ := run(t, `let x = null == null; x`)
	require.Equal(t, true, result)

	result, _ = run(t, `let x = null == 0; x`)
	require.Equal(t, false, result)
}

func TestAndOrShortCircuit(t *testing.T) {
	src := heredoc.Doc(`
		let calls = 0
		function sideEffect() {
			calls += 1
			return true
		}
		let x = false and sideEffect()
		x = calls
		x
	`)
	result, _ := run(t, src)
	require.Equal(t, int64(0), result, "sideEffect must not run when the left operand short-circuits 'and'")
}

func TestIfElseBranching(t *testing.T) {
	src := heredoc.Doc(`
		let x = 0
		if 1 > 2 {
			x = 1
		}
		else {
			x = 2
		}
		x
	`)
	result, _ := run(t, src)
	require.Equal(t, int64(2), result)
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	src := heredoc.Doc(`
		let sum = 0
		let i = 0
		while true {
			i += 1
			if i > 10 {
				break
			}
			if i % 2 == 0 {
				continue
			}
			sum += i
		}
		sum
	`)
	result, _ := run(t, src)
	require.Equal(t, int64(25), result) // 1+3+5+7+9
}

func TestForEachOverList(t *testing.T) {
	src := heredoc.Doc(`
		let items = [1, 2, 3]
		let sum = 0
		for (item in items) {
			sum += item
		}
		sum
	`)
	result, _ := run(t, src)
	require.Equal(t, int64(6), result)
}

func TestClosureCapturesLexicalScopeNotCallSite(t *testing.T) {
	src := heredoc.Doc(`
		let base = 10
		function makeAdder() {
			let offset = 5
			return function (x) x + offset
		}
		let add = makeAdder()
		add(1)
	`)
	result, _ := run(t, src)
	require.Equal(t, int64(6), result)
}

func TestClosureDoesNotSeeCallSiteLocals(t *testing.T) {
	src := heredoc.Doc(`
		function reader() {
			return offset
		}
		function caller() {
			let offset = 99
			return reader()
		}
		try {
			caller()
		}
		catch (e) {
			"caught"
		}
	`)
	result, _ := run(t, src)
	require.Equal(t, "caught", result, "a closure must not observe the caller's block locals")
}

func TestFunctionDefaultParameter(t *testing.T) {
	src := heredoc.Doc(`
		function greet(name, greeting = "hello") {
			return greeting + " " + name
		}
		greet("world")
	`)
	result, _ := run(t, src)
	require.Equal(t, "hello world", result)
}

func TestMapAndListLiteralsAndIndexAssignment(t *testing.T) {
	src := heredoc.Doc(`
		let m = {a: 1, b: 2}
		m["a"] = 10
		let l = [1, 2, 3]
		l[0] = 99
		m["a"] + l[0]
	`)
	result, _ := run(t, src)
	require.Equal(t, int64(109), result)
}

func TestStringCharacterReplacementOnBareVariable(t *testing.T) {
	src := heredoc.Doc(`
		let s = "cat"
		s[0] = "b"
		s
	`)
	result, _ := run(t, src)
	require.Equal(t, "bat", result)
}

func TestTryCatchFinallyRunsOnBothPaths(t *testing.T) {
	src := heredoc.Doc(`
		let log = ""
		try {
			let z = 1 / 0
		}
		catch (e) {
			log += "c"
		}
		finally {
			log += "f"
		}
		log
	`)
	result, _ := run(t, src)
	require.Equal(t, "cf", result)
}

func TestTryFinallyRunsInFullAndPreservesPendingReturn(t *testing.T) {
	src := heredoc.Doc(`
		let log = ""
		function f() {
			try {
				return 1
			}
			finally {
				log += "a"
				log += "b"
			}
		}
		let result = f()
		log + ":" + result
	`)
	result, _ := run(t, src)
	require.Equal(t, "ab:1", result, "finally must run to completion and the pending return must survive it")
}

func TestBracketStringIndexBehavesLikePropertyAccess(t *testing.T) {
	result, _ := run(t, `let l = [1, 2, 3]; l["size"]`)
	require.Equal(t, int64(3), result)
}

func TestCastStringToIntAndBack(t *testing.T) {
	result, _ := run(t, `"42" as int`)
	require.Equal(t, int64(42), result)

	result, _ = run(t, `42 as string`)
	require.Equal(t, "42", result)
}

func TestRunRestoresGlobalsButGlobalsAccessorSeesFinalState(t *testing.T) {
	it, err := New(`x = 5`)
	require.NoError(t, err)
	it.Bind("x", int64(1))
	_, err = it.Run()
	require.NoError(t, err)
	require.Equal(t, int64(5), it.Globals()["x"])
	require.Equal(t, int64(1), it.globals.vars["x"], "Run must restore the pre-run global binding")
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	it, err := New(`missing + 1`)
	require.NoError(t, err)
	_, err = it.Run()
	require.Error(t, err)
}

func TestIncrementIsUnsupportedAtRuntime(t *testing.T) {
	it, err := New(`let x = 1
++x`)
	require.NoError(t, err)
	_, err = it.Run()
	require.Error(t, err)
}
