package ssa

import (
	"fmt"
)

// Term is the final control flow instruction of a block.
type Term interface {
	// Dump renders the terminator as a single diagnostic line.
	Dump() string
	term()
}

// Panic is the terminator of a freshly constructed block. A block
// still carrying it after construction never received a real
// terminator.
type Panic struct{}

// Jump transfers control unconditionally.
type Jump struct {
	Block BlockID
}

// JumpIf transfers control to Then when Cond is true and to Else
// otherwise.
type JumpIf struct {
	Cond Var
	Then BlockID
	Else BlockID
}

// Return leaves the enclosing procedure with the value of Var.
type Return struct {
	Var Var
}

// Dump implements Term.
func (Panic) Dump() string {
	return "panic"
}

// Dump implements Term.
func (t Jump) Dump() string {
	return fmt.Sprintf("jump %s", t.Block)
}

// Dump implements Term.
func (t JumpIf) Dump() string {
	return fmt.Sprintf("jump-if %s, then %s, else %s", t.Cond, t.Then, t.Else)
}

// Dump implements Term.
func (t Return) Dump() string {
	return fmt.Sprintf("return %s", t.Var)
}

func (Panic) term()  {}
func (Jump) term()   {}
func (JumpIf) term() {}
func (Return) term() {}
