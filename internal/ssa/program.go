// Package ssa is the state machine assembler: an in-memory program
// representation in Static Single Assignment form, built on the fly
// as a front end walks its syntax tree. Cross block variable reads
// resolve themselves, inserting join nodes where control flow merges,
// so no separate dominance or renaming pass is needed.
package ssa

import (
	"strings"
)

// Program owns the shared construction state and hands out blocks.
type Program struct {
	global *global
}

// NewProgram constructs an empty program. The constant pool starts
// out holding only the unit constant.
func NewProgram() *Program {
	return &Program{global: newGlobal()}
}

// Block allocates the next unnamed block.
func (p *Program) Block() *Block {
	return p.global.block("")
}

// Named allocates the next block with a debug name.
func (p *Program) Named(name string) *Block {
	return p.global.block(name)
}

// Get returns the block with the given id.
func (p *Program) Get(id BlockID) *Block {
	return p.global.get(id)
}

// Blocks returns all blocks in allocation order.
func (p *Program) Blocks() []*Block {
	return append([]*Block(nil), p.global.blocks...)
}

// Constants returns the constant pool in id order.
func (p *Program) Constants() []Constant {
	return append([]Constant(nil), p.global.constants...)
}

// Dump renders every block in allocation order.
func (p *Program) Dump() string {
	var out strings.Builder
	for _, b := range p.global.blocks {
		out.WriteString(b.Dump())
	}
	return out.String()
}
