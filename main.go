// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"runic/grammar"
	"runic/internal/errors"
	"runic/internal/lower"
	"runic/internal/ssa"
	"runic/repl"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	opt := flag.Bool("opt", false, "collapse trivial join nodes before dumping")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	if flag.NArg() < 1 {
		repl.Start(os.Stdin, os.Stdout, *opt)
		return
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	program, err := grammar.ParseSource(path, string(source))
	if err != nil {
		grammar.ReportParseError(string(source), err)
		os.Exit(1)
	}

	ssaProgram, diags := lower.Lower(program)
	if len(diags) > 0 {
		reporter := errors.NewErrorReporter(path, string(source))
		fatal := false
		for _, diag := range diags {
			fmt.Print(reporter.FormatError(diag))
			if diag.Level == errors.Error {
				fatal = true
			}
		}
		if fatal {
			os.Exit(1)
		}
	}

	if *opt {
		ssa.CollapsePhis(ssaProgram)
	}

	fmt.Print(ssaProgram.Dump())
	color.Green("✅ Successfully lowered %s", path)
}
