package ssa

import (
	"fmt"
	"sort"
	"strings"
)

// Block is a basic block under construction. Blocks are shared
// handles into the same program: installing a jump from one block
// mutates the target's ancestor list, and resolving a variable walks
// ancestor blocks anywhere in the program.
//
// A block carries an ordered list of ancestors (one entry per
// incoming edge, duplicates preserved), a map from variable to the
// instruction defining it, and a terminator.
type Block struct {
	id          BlockID
	name        string
	global      *global
	finalized   bool
	inputs      int
	assignments map[Var]Inst
	ancestors   []BlockID
	term        Term
}

// ID returns the identifier of the block.
func (b *Block) ID() BlockID {
	return b.id
}

// Name returns the debug name of the block, or the empty string.
func (b *Block) Name() string {
	return b.name
}

// Finalize marks the block as done. Control flow edges can no longer
// be added into a finalized block.
func (b *Block) Finalize() {
	b.finalized = true
}

// Finalized reports whether Finalize has been called.
func (b *Block) Finalized() bool {
	return b.finalized
}

// Inputs returns the number of declared inputs.
func (b *Block) Inputs() int {
	return b.inputs
}

// Term returns the installed terminator. A block that never received
// one still carries Panic.
func (b *Block) Term() Term {
	return b.term
}

// Ancestors returns the incoming edges in the order they were
// recorded, duplicates preserved.
func (b *Block) Ancestors() []BlockID {
	return append([]BlockID(nil), b.ancestors...)
}

// Inst returns the instruction defining var in this block, if any.
func (b *Block) Inst(v Var) (Inst, bool) {
	inst, ok := b.assignments[v]
	return inst, ok
}

// Vars returns the variables defined in this block in ascending
// order.
func (b *Block) Vars() []Var {
	vars := make([]Var, 0, len(b.assignments))
	for v := range b.assignments {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool {
		return vars[i] < vars[j]
	})
	return vars
}

// Input allocates the next input of the block.
func (b *Block) Input() Var {
	v := b.global.fresh()
	b.assignments[v] = Input{N: b.inputs}
	b.inputs++
	return v
}

// Constant loads a constant as a variable.
func (b *Block) Constant(constant Constant) Var {
	v := b.global.fresh()
	b.assignments[v] = Const{ID: b.global.intern(constant)}
	return v
}

// Unit loads the unit constant.
func (b *Block) Unit() Var {
	return b.Constant(Unit{})
}

// Add computes lhs + rhs.
func (b *Block) Add(lhs, rhs Var) Var {
	return b.binary(OpAdd, lhs, rhs)
}

// Sub computes lhs - rhs.
func (b *Block) Sub(lhs, rhs Var) Var {
	return b.binary(OpSub, lhs, rhs)
}

// Mul computes lhs * rhs.
func (b *Block) Mul(lhs, rhs Var) Var {
	return b.binary(OpMul, lhs, rhs)
}

// Div computes lhs / rhs.
func (b *Block) Div(lhs, rhs Var) Var {
	return b.binary(OpDiv, lhs, rhs)
}

// CmpLt compares lhs < rhs.
func (b *Block) CmpLt(lhs, rhs Var) Var {
	return b.binary(OpCmpLt, lhs, rhs)
}

// CmpLte compares lhs <= rhs.
func (b *Block) CmpLte(lhs, rhs Var) Var {
	return b.binary(OpCmpLte, lhs, rhs)
}

// CmpEq compares lhs == rhs.
func (b *Block) CmpEq(lhs, rhs Var) Var {
	return b.binary(OpCmpEq, lhs, rhs)
}

// CmpGt compares lhs > rhs.
func (b *Block) CmpGt(lhs, rhs Var) Var {
	return b.binary(OpCmpGt, lhs, rhs)
}

// CmpGte compares lhs >= rhs.
func (b *Block) CmpGte(lhs, rhs Var) Var {
	return b.binary(OpCmpGte, lhs, rhs)
}

// AssignAdd computes lhs + rhs into a caller supplied variable.
func (b *Block) AssignAdd(dst, lhs, rhs Var) {
	b.assignBinary(OpAdd, dst, lhs, rhs)
}

// AssignSub computes lhs - rhs into a caller supplied variable.
func (b *Block) AssignSub(dst, lhs, rhs Var) {
	b.assignBinary(OpSub, dst, lhs, rhs)
}

// AssignMul computes lhs * rhs into a caller supplied variable.
func (b *Block) AssignMul(dst, lhs, rhs Var) {
	b.assignBinary(OpMul, dst, lhs, rhs)
}

// AssignDiv computes lhs / rhs into a caller supplied variable.
func (b *Block) AssignDiv(dst, lhs, rhs Var) {
	b.assignBinary(OpDiv, dst, lhs, rhs)
}

// AssignCmpLt compares lhs < rhs into a caller supplied variable.
func (b *Block) AssignCmpLt(dst, lhs, rhs Var) {
	b.assignBinary(OpCmpLt, dst, lhs, rhs)
}

// AssignCmpLte compares lhs <= rhs into a caller supplied variable.
func (b *Block) AssignCmpLte(dst, lhs, rhs Var) {
	b.assignBinary(OpCmpLte, dst, lhs, rhs)
}

// AssignCmpEq compares lhs == rhs into a caller supplied variable.
func (b *Block) AssignCmpEq(dst, lhs, rhs Var) {
	b.assignBinary(OpCmpEq, dst, lhs, rhs)
}

// AssignCmpGt compares lhs > rhs into a caller supplied variable.
func (b *Block) AssignCmpGt(dst, lhs, rhs Var) {
	b.assignBinary(OpCmpGt, dst, lhs, rhs)
}

// AssignCmpGte compares lhs >= rhs into a caller supplied variable.
func (b *Block) AssignCmpGte(dst, lhs, rhs Var) {
	b.assignBinary(OpCmpGte, dst, lhs, rhs)
}

func (b *Block) binary(op BinOp, lhs, rhs Var) Var {
	b.read(lhs)
	b.read(rhs)
	v := b.global.fresh()
	b.assignments[v] = BinaryOp{Op: op, LHS: lhs, RHS: rhs}
	return v
}

// assignBinary records the instruction against dst instead of a fresh
// variable. An existing assignment of dst in this block, including a
// join node installed by an earlier read, is replaced; deps naming
// this block and dst then refer to the new instruction.
func (b *Block) assignBinary(op BinOp, dst, lhs, rhs Var) {
	b.read(lhs)
	b.read(rhs)
	b.assignments[dst] = BinaryOp{Op: op, LHS: lhs, RHS: rhs}
}

// Jump installs an unconditional jump to target and records this
// block as an ancestor of it.
func (b *Block) Jump(target *Block) error {
	if target.finalized {
		return &BlockControlFinalizedError{Block: target.id}
	}
	target.ancestors = append(target.ancestors, b.id)
	b.term = Jump{Block: target.id}
	return nil
}

// JumpIf installs a conditional jump. Both arms record this block as
// an ancestor, then arm first.
func (b *Block) JumpIf(cond Var, then, els *Block) error {
	if then.finalized {
		return &BlockControlFinalizedError{Block: then.id}
	}
	if els.finalized {
		return &BlockControlFinalizedError{Block: els.id}
	}
	b.read(cond)
	then.ancestors = append(then.ancestors, b.id)
	els.ancestors = append(els.ancestors, b.id)
	b.term = JumpIf{Cond: cond, Then: then.id, Else: els.id}
	return nil
}

// Return installs a return of the given variable.
func (b *Block) Return(v Var) {
	b.read(v)
	b.term = Return{Var: v}
}

// ReturnUnit materializes unit and returns it.
func (b *Block) ReturnUnit() {
	b.Return(b.Unit())
}

// read resolves the definition of v in use at this point of the
// block, installing join nodes along the ancestor paths as needed.
// It is idempotent: once v has a local entry there is nothing left to
// do.
func (b *Block) read(v Var) {
	if _, ok := b.assignments[v]; ok {
		return
	}
	b.readRecursive(v)
}

// readRecursive resolves v and returns the dep a successor block
// should record for it. The empty join node is installed before
// descending into ancestors so that re-entry through a back edge
// terminates.
func (b *Block) readRecursive(v Var) Dep {
	own := Dep{Block: b.id, Var: v}

	if inst, ok := b.assignments[v]; ok {
		if alias, ok := inst.(Alias); ok {
			return b.global.chase(alias.Dep)
		}
		return own
	}

	phi := &Phi{}
	b.assignments[v] = phi

	deps := make([]Dep, 0, len(b.ancestors))
	for _, id := range b.ancestors {
		deps = append(deps, b.global.get(id).readRecursive(v))
	}

	for _, dep := range deps {
		phi.Insert(dep)
	}
	return own
}

// Dump renders the block in its diagnostic form.
func (b *Block) Dump() string {
	var out strings.Builder

	out.WriteString(b.id.String())
	if len(b.ancestors) == 0 {
		out.WriteString(":")
	} else {
		parts := make([]string, len(b.ancestors))
		for i, id := range b.ancestors {
			parts[i] = id.String()
		}
		out.WriteString(": ")
		out.WriteString(strings.Join(parts, ", "))
	}
	if b.name != "" {
		out.WriteString(" // ")
		out.WriteString(b.name)
	}
	out.WriteString("\n")

	for _, v := range b.Vars() {
		fmt.Fprintf(&out, "  %s <- %s\n", v, b.assignments[v].Dump())
	}
	fmt.Fprintf(&out, "  %s\n", b.term.Dump())

	return out.String()
}
