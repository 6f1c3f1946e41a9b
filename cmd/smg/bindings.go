package main

import (
	"fmt"
	"io"
	"strings"

	"smg/interp"
)

// bindHostIO installs the two built-ins spec.md §8's scenarios require:
// print (space-joined, no trailing newline) and println (space-joined,
// trailing newline). Both are plain globals, overridable like any other
// user variable.
func bindHostIO(it *interp.Interpreter, out io.Writer) {
	it.Bind("print", interp.HostProc(func(args []interp.Value) {
		printJoined(out, args, "")
	}))
	it.Bind("println", interp.HostProc(func(args []interp.Value) {
		printJoined(out, args, "\n")
	}))
}

func printJoined(out io.Writer, args []interp.Value, end string) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = interp.Display(a)
	}
	fmt.Fprint(out, strings.Join(parts, " ")+end)
}
