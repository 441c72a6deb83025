package ssa

import (
	"testing"
)

// buildConditionalJoin builds the two-armed program used by several
// tests: entry branches over a comparison, the then arm bumps a, and
// both arms meet in end.
func buildConditionalJoin() (*Program, Var) {
	p := NewProgram()
	entry := p.Named("entry")
	then := p.Named("then")
	end := p.Named("end")

	a := entry.Input()
	b := entry.Constant(Integer(10))
	cond := entry.CmpLt(a, b)
	if err := entry.JumpIf(cond, then, end); err != nil {
		panic(err)
	}

	c := then.Constant(Integer(1))
	then.AssignAdd(a, a, c)
	if err := then.Jump(end); err != nil {
		panic(err)
	}

	end.Return(a)
	return p, a
}

func TestConditionalJoin(t *testing.T) {
	p, a := buildConditionalJoin()

	entry := p.Get(0)
	then := p.Get(1)
	end := p.Get(2)

	if got := then.Ancestors(); len(got) != 1 || got[0] != entry.ID() {
		t.Errorf("then ancestors = %v, want [%s]", got, entry.ID())
	}
	if got := end.Ancestors(); len(got) != 2 || got[0] != entry.ID() || got[1] != then.ID() {
		t.Errorf("end ancestors = %v, want [%s %s]", got, entry.ID(), then.ID())
	}

	inst, ok := end.Inst(a)
	if !ok {
		t.Fatalf("end has no join node for %s", a)
	}
	phi, ok := inst.(*Phi)
	if !ok {
		t.Fatalf("end resolves %s to %T, want a join node", a, inst)
	}
	deps := phi.Deps()
	if len(deps) != 2 {
		t.Fatalf("join node has %d operands, want 2", len(deps))
	}
	if deps[0] != (Dep{Block: entry.ID(), Var: a}) || deps[1] != (Dep{Block: then.ID(), Var: a}) {
		t.Errorf("join operands = %v", deps)
	}

	if term, ok := end.Term().(Return); !ok || term.Var != a {
		t.Errorf("end terminator = %q, want return of %s", end.Term().Dump(), a)
	}
}

func TestConditionalJoinDump(t *testing.T) {
	p, _ := buildConditionalJoin()

	want := "" +
		"block0: // entry\n" +
		"  v0 <- input 0\n" +
		"  v1 <- c1\n" +
		"  v2 <- lt v0, v1\n" +
		"  jump-if v2, then block1, else block2\n" +
		"block1: block0 // then\n" +
		"  v0 <- add v0, v3\n" +
		"  v3 <- c2\n" +
		"  jump block2\n" +
		"block2: block0, block1 // end\n" +
		"  v0 <- Φ(block0:v0, block1:v0)\n" +
		"  return v0\n"

	if got := p.Dump(); got != want {
		t.Errorf("dump mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// buildLoop builds a counting loop. The back edge from body to header
// is recorded before the header reads the counter, so the header's
// join node sees both incoming paths.
func buildLoop() (*Program, Var) {
	p := NewProgram()
	entry := p.Named("entry")
	header := p.Named("header")
	body := p.Named("body")
	exit := p.Named("exit")

	i := entry.Constant(Integer(0))
	if err := entry.Jump(header); err != nil {
		panic(err)
	}
	if err := body.Jump(header); err != nil {
		panic(err)
	}

	n := header.Constant(Integer(10))
	cond := header.CmpLt(i, n)
	if err := header.JumpIf(cond, body, exit); err != nil {
		panic(err)
	}

	one := body.Constant(Integer(1))
	body.AssignAdd(i, i, one)

	exit.Return(i)
	return p, i
}

func TestLoopBackEdge(t *testing.T) {
	p, i := buildLoop()

	entry := p.Get(0)
	header := p.Get(1)
	body := p.Get(2)

	if got := header.Ancestors(); len(got) != 2 || got[0] != entry.ID() || got[1] != body.ID() {
		t.Fatalf("header ancestors = %v, want [%s %s]", got, entry.ID(), body.ID())
	}

	inst, ok := header.Inst(i)
	if !ok {
		t.Fatalf("header has no entry for %s", i)
	}
	phi, ok := inst.(*Phi)
	if !ok {
		t.Fatalf("header resolves %s to %T, want a join node", i, inst)
	}
	if got, want := phi.Dump(), "Φ(block0:v0, block2:v0)"; got != want {
		t.Errorf("header join node = %q, want %q", got, want)
	}

	// The counter update overwrote the placeholder installed while
	// the header resolved the counter through the back edge.
	if inst, _ := body.Inst(i); inst == nil {
		t.Fatalf("body has no entry for %s", i)
	} else if op, ok := inst.(BinaryOp); !ok || op.Op != OpAdd {
		t.Errorf("body resolves %s to %q, want the add", i, inst.Dump())
	}
}

func TestLoopDump(t *testing.T) {
	p, _ := buildLoop()

	want := "" +
		"block0: // entry\n" +
		"  v0 <- c1\n" +
		"  jump block1\n" +
		"block1: block0, block2 // header\n" +
		"  v0 <- Φ(block0:v0, block2:v0)\n" +
		"  v1 <- c2\n" +
		"  v2 <- lt v0, v1\n" +
		"  jump-if v2, then block2, else block3\n" +
		"block2: block1 // body\n" +
		"  v0 <- add v0, v3\n" +
		"  v3 <- c3\n" +
		"  jump block1\n" +
		"block3: block1 // exit\n" +
		"  v0 <- Φ(block1:v0)\n" +
		"  return v0\n"

	if got := p.Dump(); got != want {
		t.Errorf("dump mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSelfLoopTerminates(t *testing.T) {
	p := NewProgram()
	entry := p.Block()
	loop := p.Block()

	x := entry.Constant(Integer(1))
	if err := entry.Jump(loop); err != nil {
		t.Fatal(err)
	}
	if err := loop.Jump(loop); err != nil {
		t.Fatal(err)
	}

	// Resolving x walks loop's own back edge; the placeholder breaks
	// the cycle.
	loop.Return(x)

	inst, _ := loop.Inst(x)
	phi, ok := inst.(*Phi)
	if !ok {
		t.Fatalf("loop resolves %s to %T, want a join node", x, inst)
	}
	if got, want := phi.Dump(), "Φ(block0:v0, block1:v0)"; got != want {
		t.Errorf("join node = %q, want %q", got, want)
	}
}

func TestDiamondJoin(t *testing.T) {
	p := NewProgram()
	entry := p.Named("entry")
	left := p.Named("a")
	right := p.Named("b")
	join := p.Named("c")

	cond := entry.Input()
	x := entry.Constant(Integer(7))
	if err := entry.JumpIf(cond, left, right); err != nil {
		t.Fatal(err)
	}
	if err := left.Jump(join); err != nil {
		t.Fatal(err)
	}
	if err := right.Jump(join); err != nil {
		t.Fatal(err)
	}

	join.Return(x)

	for _, arm := range []*Block{left, right} {
		inst, _ := arm.Inst(x)
		phi, ok := inst.(*Phi)
		if !ok {
			t.Fatalf("%s resolves %s to %T, want a join node", arm.ID(), x, inst)
		}
		if got, want := phi.Dump(), "Φ(block0:v1)"; got != want {
			t.Errorf("%s join node = %q, want %q", arm.ID(), got, want)
		}
	}

	inst, _ := join.Inst(x)
	phi, ok := inst.(*Phi)
	if !ok {
		t.Fatalf("join resolves %s to %T, want a join node", x, inst)
	}
	if got, want := phi.Dump(), "Φ(block1:v1, block2:v1)"; got != want {
		t.Errorf("join node = %q, want %q", got, want)
	}
}

func TestReadOfUndefinedVarYieldsEmptyPhi(t *testing.T) {
	p := NewProgram()
	other := p.Block()
	b := p.Block()

	x := other.Input()
	b.Return(x)

	inst, ok := b.Inst(x)
	if !ok {
		t.Fatalf("read should have installed an entry for %s", x)
	}
	phi, ok := inst.(*Phi)
	if !ok {
		t.Fatalf("entry is %T, want a join node", inst)
	}
	if got := phi.Dump(); got != "Φ(?)" {
		t.Errorf("join node = %q, want %q", got, "Φ(?)")
	}
}

func TestDuplicateEdgesCollapseInJoinNode(t *testing.T) {
	p := NewProgram()
	entry := p.Block()
	target := p.Block()

	cond := entry.Input()
	x := entry.Constant(Integer(3))
	if err := entry.JumpIf(cond, target, target); err != nil {
		t.Fatal(err)
	}

	if got := target.Ancestors(); len(got) != 2 || got[0] != entry.ID() || got[1] != entry.ID() {
		t.Fatalf("both edges should be recorded, got %v", got)
	}

	target.Return(x)
	inst, _ := target.Inst(x)
	phi, ok := inst.(*Phi)
	if !ok {
		t.Fatalf("target resolves %s to %T, want a join node", x, inst)
	}
	if len(phi.Deps()) != 1 {
		t.Errorf("operand set should collapse the duplicate edge, got %d operands", len(phi.Deps()))
	}
}

func TestReadIsIdempotent(t *testing.T) {
	p := NewProgram()
	entry := p.Block()
	next := p.Block()

	x := entry.Constant(Integer(1))
	if err := entry.Jump(next); err != nil {
		t.Fatal(err)
	}

	next.read(x)
	first, _ := next.Inst(x)
	next.read(x)
	second, _ := next.Inst(x)

	if first != second {
		t.Error("a second read must not replace the installed join node")
	}
	if phi, ok := first.(*Phi); !ok || len(phi.Deps()) != 1 {
		t.Errorf("join node disturbed by re-read: %q", first.Dump())
	}
}

func TestInputNumbering(t *testing.T) {
	p := NewProgram()
	b := p.Block()

	first := b.Input()
	b.Constant(Integer(9))
	second := b.Input()
	third := b.Input()

	if b.Inputs() != 3 {
		t.Fatalf("declared inputs = %d, want 3", b.Inputs())
	}

	seen := make(map[int]bool)
	for _, v := range []Var{first, second, third} {
		inst, ok := b.Inst(v)
		if !ok {
			t.Fatalf("input %s has no assignment", v)
		}
		input, ok := inst.(Input)
		if !ok {
			t.Fatalf("input %s resolves to %T", v, inst)
		}
		seen[input.N] = true
	}
	for n := 0; n < 3; n++ {
		if !seen[n] {
			t.Errorf("input %d missing; numbering must be dense", n)
		}
	}
}

func TestJumpIntoFinalizedBlockFails(t *testing.T) {
	p := NewProgram()
	from := p.Block()
	target := p.Block()

	target.ReturnUnit()
	target.Finalize()

	err := from.Jump(target)
	ctrl, ok := err.(*BlockControlFinalizedError)
	if !ok {
		t.Fatalf("jump into a finalized block returned %v", err)
	}
	if ctrl.Block != target.ID() {
		t.Errorf("error names %s, want %s", ctrl.Block, target.ID())
	}

	// The failed jump must leave no partial state.
	if len(target.Ancestors()) != 0 {
		t.Error("failed jump recorded an ancestor edge")
	}
	if _, ok := from.Term().(Panic); !ok {
		t.Errorf("failed jump installed terminator %q", from.Term().Dump())
	}
}

func TestJumpIfIntoFinalizedElseFails(t *testing.T) {
	p := NewProgram()
	from := p.Block()
	then := p.Block()
	els := p.Block()

	cond := from.Input()
	els.ReturnUnit()
	els.Finalize()

	err := from.JumpIf(cond, then, els)
	if _, ok := err.(*BlockControlFinalizedError); !ok {
		t.Fatalf("conditional jump into a finalized block returned %v", err)
	}
	if len(then.Ancestors()) != 0 {
		t.Error("failed conditional jump recorded an edge into the then arm")
	}
	if _, ok := from.Term().(Panic); !ok {
		t.Errorf("failed conditional jump installed terminator %q", from.Term().Dump())
	}
}

func TestTerminatorReplacement(t *testing.T) {
	p := NewProgram()
	b := p.Block()
	other := p.Block()

	b.ReturnUnit()
	if err := b.Jump(other); err != nil {
		t.Fatal(err)
	}

	if term, ok := b.Term().(Jump); !ok || term.Block != other.ID() {
		t.Errorf("terminator = %q, want the jump", b.Term().Dump())
	}
}

// Every ancestor edge A -> B must be matched by A's terminator naming
// B as a successor.
func TestAncestorsAgreeWithTerminators(t *testing.T) {
	for _, build := range []func() (*Program, Var){buildConditionalJoin, buildLoop} {
		p, _ := build()
		for _, b := range p.Blocks() {
			for _, anc := range b.Ancestors() {
				if !namesSuccessor(p.Get(anc).Term(), b.ID()) {
					t.Errorf("%s lists ancestor %s, whose terminator %q does not name it",
						b.ID(), anc, p.Get(anc).Term().Dump())
				}
			}
		}
	}
}

func namesSuccessor(term Term, id BlockID) bool {
	switch term := term.(type) {
	case Jump:
		return term.Block == id
	case JumpIf:
		return term.Then == id || term.Else == id
	default:
		return false
	}
}
