package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"smg/internal/logx"
	"smg/interp"
)

// replCmd runs an interactive session, one Interpreter per line,
// threading global bindings forward through Interpreter.Globals since
// Run treats an Interpreter as a pure function of (code, pre-run
// globals). Adapted from the teacher's bufio.Scanner loop in
// main.go/cmd_repl.go, upgraded to readline for history and line
// editing.
type replCmd struct {
	trace   bool
	decimal bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive SMG session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive SMG REPL.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.trace, "trace", false, "enable interp trace logging")
	f.BoolVar(&r.decimal, "decimal", false, "marshal host-boundary numbers through decimal.Decimal")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	fmt.Println("Welcome to SMG.")

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	log := logx.New(os.Stderr, traceLevel(r.trace))
	globals := map[string]interp.Value{}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return subcommands.ExitSuccess
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if line == "" {
			continue
		}
		if line == "exit" {
			return subcommands.ExitSuccess
		}

		opts := []interp.Option{interp.WithLogger(log)}
		if r.decimal {
			opts = append(opts, interp.WithDecimalMode(true))
		}
		it, err := interp.New(line, opts...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		for name, v := range globals {
			it.Bind(name, v)
		}
		bindHostIO(it, os.Stdout)

		result, err := it.Run()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		globals = it.Globals()
		if result != nil {
			fmt.Println(interp.Display(result))
		}
	}
}
