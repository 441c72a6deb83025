package ssa

import (
	"sort"
	"strings"
)

// Dep names the definition of a variable in a specific block.
type Dep struct {
	// Block is the block the variable is defined in.
	Block BlockID
	// Var is the variable being depended on.
	Var Var
}

func (d Dep) String() string {
	return d.Block.String() + ":" + d.Var.String()
}

// less orders deps lexicographically on (block, var).
func (d Dep) less(o Dep) bool {
	if d.Block != o.Block {
		return d.Block < o.Block
	}
	return d.Var < o.Var
}

// Phi joins the definitions of one variable that flow into a block.
// The operand set is kept sorted and deduplicated so that dumps are
// stable.
type Phi struct {
	deps []Dep
}

// Insert adds a dependency to the operand set.
func (p *Phi) Insert(dep Dep) {
	i := sort.Search(len(p.deps), func(i int) bool {
		return !p.deps[i].less(dep)
	})
	if i < len(p.deps) && p.deps[i] == dep {
		return
	}
	p.deps = append(p.deps, Dep{})
	copy(p.deps[i+1:], p.deps[i:])
	p.deps[i] = dep
}

// Deps returns the operands in their canonical order.
func (p *Phi) Deps() []Dep {
	return p.deps
}

// Dump implements Inst.
func (p *Phi) Dump() string {
	if len(p.deps) == 0 {
		return "Φ(?)"
	}
	parts := make([]string, len(p.deps))
	for i, dep := range p.deps {
		parts[i] = dep.String()
	}
	return "Φ(" + strings.Join(parts, ", ") + ")"
}

func (*Phi) inst() {}
