package ssa

import (
	"fmt"
)

// Inst is a single instruction. Instructions are pure data; the
// enclosing block records which variable each one defines.
type Inst interface {
	// Dump renders the instruction as a single diagnostic line.
	Dump() string
	inst()
}

// Input is the n-th formal input of the owning block.
type Input struct {
	N int
}

// Const materializes a pooled constant.
type Const struct {
	ID ConstID
}

// Alias makes the defined variable equal to a definition elsewhere.
// Aliases are produced when trivial join nodes are collapsed.
type Alias struct {
	Dep Dep
}

// BinOp tags a BinaryOp with the operation it computes.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpCmpLt
	OpCmpLte
	OpCmpEq
	OpCmpGt
	OpCmpGte
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpCmpLt:
		return "lt"
	case OpCmpLte:
		return "lte"
	case OpCmpEq:
		return "eq"
	case OpCmpGt:
		return "gt"
	case OpCmpGte:
		return "gte"
	default:
		panic(fmt.Sprintf("unknown binary op: %d", int(op)))
	}
}

// BinaryOp computes an arithmetic operation or comparison over two
// variables.
type BinaryOp struct {
	Op  BinOp
	LHS Var
	RHS Var
}

// Dump implements Inst.
func (i Input) Dump() string {
	return fmt.Sprintf("input %d", i.N)
}

// Dump implements Inst.
func (i Const) Dump() string {
	return i.ID.String()
}

// Dump implements Inst.
func (i Alias) Dump() string {
	return i.Dep.String()
}

// Dump implements Inst.
func (i BinaryOp) Dump() string {
	return fmt.Sprintf("%s %s, %s", i.Op, i.LHS, i.RHS)
}

func (Input) inst()    {}
func (Const) inst()    {}
func (Alias) inst()    {}
func (BinaryOp) inst() {}
