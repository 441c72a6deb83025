package ssa

// CollapsePhis rewrites every trivial join node into an alias of its
// sole target. A join node is trivial when its operand set, after
// chasing aliases and dropping references to the node itself, names
// exactly one definition. Collapsing one node can make another
// trivial, so the pass runs to a fixed point.
//
// The pass is optional: construction never invokes it, and the
// uncollapsed form is correct SSA.
func CollapsePhis(p *Program) {
	g := p.global
	for changed := true; changed; {
		changed = false
		for _, b := range g.blocks {
			for _, v := range b.Vars() {
				phi, ok := b.assignments[v].(*Phi)
				if !ok {
					continue
				}
				target, ok := trivialTarget(g, b.id, v, phi)
				if !ok {
					continue
				}
				b.assignments[v] = Alias{Dep: target}
				changed = true
			}
		}
	}
}

// trivialTarget returns the single distinct definition a join node
// resolves to, when there is one. Operands are chased through alias
// chains first, so an alias names the ultimate target as it stands
// when the alias is installed. A join node collapsed later in the pass
// is not rewritten into earlier aliases; reads reach it through chase.
func trivialTarget(g *global, id BlockID, v Var, phi *Phi) (Dep, bool) {
	self := Dep{Block: id, Var: v}

	var target Dep
	found := false
	for _, dep := range phi.Deps() {
		dep = g.chase(dep)
		if dep == self {
			continue
		}
		if found && dep != target {
			return Dep{}, false
		}
		target = dep
		found = true
	}
	return target, found
}
