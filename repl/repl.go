// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"

	"runic/grammar"
	"runic/internal/errors"
	"runic/internal/lower"
	"runic/internal/ssa"
)

const PROMPT = ">> "

// Start reads one program per line, lowers it and prints the dump.
func Start(in io.Reader, out io.Writer, collapse bool) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		program, err := grammar.ParseSource("repl", line)
		if err != nil {
			grammar.ReportParseError(line, err)
			continue
		}

		ssaProgram, diags := lower.Lower(program)
		reporter := errors.NewErrorReporter("repl", line)
		for _, diag := range diags {
			fmt.Fprint(out, reporter.FormatError(diag))
		}

		if collapse {
			ssa.CollapsePhis(ssaProgram)
		}
		fmt.Fprint(out, ssaProgram.Dump())
	}
}
