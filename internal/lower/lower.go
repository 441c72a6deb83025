package lower

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"

	"runic/grammar"
	"runic/internal/errors"
	"runic/internal/ssa"
)

var log = commonlog.GetLogger("runic.lower")

// Lowerer walks the AST in source order and drives the SSA builder.
// Cross block variable resolution is the builder's job; the lowerer
// only tracks which variable each name is bound to.
type Lowerer struct {
	program    *ssa.Program
	current    *ssa.Block
	scopes     []map[string]ssa.Var
	diags      []errors.CompilerError
	returned   bool
	blockCount int
}

// Lower converts a parsed program into SSA form. Diagnostics are
// collected rather than aborting, so a single run reports everything
// it can.
func Lower(program *grammar.Program) (*ssa.Program, []errors.CompilerError) {
	l := &Lowerer{program: ssa.NewProgram()}
	for _, fn := range program.Functions {
		l.lowerFunction(fn)
	}
	return l.program, l.diags
}

func (l *Lowerer) lowerFunction(fn *grammar.Function) {
	log.Debugf("lowering function %s", fn.Name)

	entry := l.program.Named(fn.Name)
	l.current = entry
	l.returned = false
	l.scopes = []map[string]ssa.Var{{}}

	for _, param := range fn.Params {
		l.bind(param.Name, entry.Input(), param.Pos)
	}

	l.lowerStatements(fn.Body.Statements)

	if !l.returned {
		l.current.ReturnUnit()
		l.current.Finalize()
	}
}

func (l *Lowerer) lowerStatements(stmts []*grammar.Statement) {
	for _, stmt := range stmts {
		if l.returned {
			l.diags = append(l.diags, errors.UnreachableCode(statementPos(stmt)))
			return
		}
		l.lowerStatement(stmt)
	}
}

func (l *Lowerer) lowerStatement(stmt *grammar.Statement) {
	switch {
	case stmt.Let != nil:
		v := l.lowerExpr(stmt.Let.Expr)
		l.bind(stmt.Let.Name, v, stmt.Let.Pos)

	case stmt.Assign != nil:
		l.lowerAssign(stmt.Assign)

	case stmt.Return != nil:
		if stmt.Return.Expr != nil {
			l.current.Return(l.lowerExpr(stmt.Return.Expr))
		} else {
			l.current.ReturnUnit()
		}
		l.current.Finalize()
		l.returned = true

	case stmt.If != nil:
		l.lowerIf(stmt.If)

	case stmt.While != nil:
		l.lowerWhile(stmt.While)

	case stmt.Expr != nil:
		l.lowerExpr(stmt.Expr.Expr)
	}
}

func (l *Lowerer) lowerAssign(stmt *grammar.AssignStmt) {
	target, ok := l.lookup(stmt.Target)
	if !ok {
		l.diags = append(l.diags, errors.UndefinedVariable(stmt.Target, stmt.Pos))
		l.lowerExpr(stmt.Value)
		return
	}

	value := l.lowerExpr(stmt.Value)
	switch stmt.Op {
	case "+=":
		l.current.AssignAdd(target, target, value)
	case "-=":
		l.current.AssignSub(target, target, value)
	case "*=":
		l.current.AssignMul(target, target, value)
	case "/=":
		l.current.AssignDiv(target, target, value)
	default:
		panic(fmt.Sprintf("unknown compound assignment: %s", stmt.Op))
	}
}

func (l *Lowerer) lowerIf(stmt *grammar.IfStmt) {
	cond := l.lowerExpr(stmt.Cond)

	then := l.block("then")
	var els, end *ssa.Block
	if stmt.Else != nil {
		els = l.block("else")
	} else {
		end = l.block("endif")
		els = end
	}

	l.terminate(l.current.JumpIf(cond, then, els))
	l.current.Finalize()

	thenReturned := l.lowerArm(then, stmt.Then.Statements, &end)
	elseReturned := false
	if stmt.Else != nil {
		elseReturned = l.lowerArm(els, stmt.Else.Statements, &end)
	}

	if end != nil {
		l.current = end
		l.returned = false
		return
	}
	// Both arms returned and nothing ever jumped to a meet point.
	l.returned = thenReturned && elseReturned
}

// lowerArm lowers one arm of a conditional into block, allocating the
// meet point on first use, and reports whether the arm returned.
func (l *Lowerer) lowerArm(block *ssa.Block, stmts []*grammar.Statement, end **ssa.Block) bool {
	l.current = block
	l.returned = false

	l.pushScope()
	l.lowerStatements(stmts)
	l.popScope()

	if l.returned {
		return true
	}
	if *end == nil {
		*end = l.block("endif")
	}
	l.terminate(l.current.Jump(*end))
	l.current.Finalize()
	return false
}

func (l *Lowerer) lowerWhile(stmt *grammar.WhileStmt) {
	header := l.block("while")
	body := l.block("body")
	exit := l.block("endwhile")

	l.terminate(l.current.Jump(header))
	l.current.Finalize()

	// For a straight line body the back edge is recorded before the
	// condition reads, so the header's join nodes see the loop path.
	straight := straightLine(stmt.Body.Statements)
	if straight {
		l.terminate(body.Jump(header))
	}

	// The condition variable is allocated and wired into the
	// terminator first; lowering the condition into it afterwards
	// means every recorded edge is visible to its operand reads.
	l.current = header
	cond := header.Unit()
	l.terminate(header.JumpIf(cond, body, exit))
	l.assignCondition(cond, stmt.Cond)

	l.current = body
	l.returned = false
	l.pushScope()
	l.lowerStatements(stmt.Body.Statements)
	l.popScope()

	if straight {
		body.Finalize()
	} else if !l.returned {
		l.terminate(l.current.Jump(header))
		l.current.Finalize()
	}
	header.Finalize()

	l.current = exit
	l.returned = false
}

// straightLine reports whether the statements neither branch nor
// return, so the enclosing block keeps a single exit.
func straightLine(stmts []*grammar.Statement) bool {
	for _, stmt := range stmts {
		if stmt.If != nil || stmt.While != nil || stmt.Return != nil {
			return false
		}
	}
	return true
}

func (l *Lowerer) lowerExpr(e *grammar.Expr) ssa.Var {
	return l.lowerCmp(e.Cmp)
}

func (l *Lowerer) lowerCmp(e *grammar.CmpExpr) ssa.Var {
	v := l.lowerAdd(e.Left)
	for _, op := range e.Ops {
		v = l.emitCmp(op.Op, v, l.lowerAdd(op.Right))
	}
	return v
}

func (l *Lowerer) emitCmp(op string, lhs, rhs ssa.Var) ssa.Var {
	switch op {
	case "<":
		return l.current.CmpLt(lhs, rhs)
	case "<=":
		return l.current.CmpLte(lhs, rhs)
	case "==":
		return l.current.CmpEq(lhs, rhs)
	case ">":
		return l.current.CmpGt(lhs, rhs)
	case ">=":
		return l.current.CmpGte(lhs, rhs)
	default:
		panic(fmt.Sprintf("unknown comparison: %s", op))
	}
}

// assignCondition lowers a loop condition into a previously allocated
// variable. A condition ending in a comparison assigns that
// comparison directly; anything else is a boolean value and is tested
// against true.
func (l *Lowerer) assignCondition(dst ssa.Var, e *grammar.Expr) {
	cmp := e.Cmp
	if len(cmp.Ops) == 0 {
		v := l.lowerAdd(cmp.Left)
		t := l.current.Constant(ssa.Bool(true))
		l.current.AssignCmpEq(dst, v, t)
		return
	}

	v := l.lowerAdd(cmp.Left)
	for _, op := range cmp.Ops[:len(cmp.Ops)-1] {
		v = l.emitCmp(op.Op, v, l.lowerAdd(op.Right))
	}
	last := cmp.Ops[len(cmp.Ops)-1]
	rhs := l.lowerAdd(last.Right)
	switch last.Op {
	case "<":
		l.current.AssignCmpLt(dst, v, rhs)
	case "<=":
		l.current.AssignCmpLte(dst, v, rhs)
	case "==":
		l.current.AssignCmpEq(dst, v, rhs)
	case ">":
		l.current.AssignCmpGt(dst, v, rhs)
	case ">=":
		l.current.AssignCmpGte(dst, v, rhs)
	default:
		panic(fmt.Sprintf("unknown comparison: %s", last.Op))
	}
}

func (l *Lowerer) lowerAdd(e *grammar.AddExpr) ssa.Var {
	v := l.lowerMul(e.Left)
	for _, op := range e.Ops {
		rhs := l.lowerMul(op.Right)
		if op.Op == "+" {
			v = l.current.Add(v, rhs)
		} else {
			v = l.current.Sub(v, rhs)
		}
	}
	return v
}

func (l *Lowerer) lowerMul(e *grammar.MulExpr) ssa.Var {
	v := l.lowerPrimary(e.Left)
	for _, op := range e.Ops {
		rhs := l.lowerPrimary(op.Right)
		if op.Op == "*" {
			v = l.current.Mul(v, rhs)
		} else {
			v = l.current.Div(v, rhs)
		}
	}
	return v
}

func (l *Lowerer) lowerPrimary(p *grammar.Primary) ssa.Var {
	switch {
	case p.Float != nil:
		f, err := strconv.ParseFloat(*p.Float, 64)
		if err != nil {
			panic(fmt.Sprintf("unparseable float literal %q", *p.Float))
		}
		return l.current.Constant(ssa.Float(f))

	case p.Integer != nil:
		n, err := strconv.ParseInt(*p.Integer, 10, 64)
		if err != nil {
			panic(fmt.Sprintf("unparseable integer literal %q", *p.Integer))
		}
		return l.current.Constant(ssa.Integer(n))

	case p.Str != nil:
		s, err := strconv.Unquote(*p.Str)
		if err != nil {
			panic(fmt.Sprintf("unparseable string literal %q", *p.Str))
		}
		return l.current.Constant(ssa.String(s))

	case p.Char != nil:
		s, err := strconv.Unquote(*p.Char)
		if err != nil || s == "" {
			panic(fmt.Sprintf("unparseable character literal %q", *p.Char))
		}
		return l.current.Constant(ssa.Char([]rune(s)[0]))

	case p.Bool != nil:
		return l.current.Constant(ssa.Bool(*p.Bool == "true"))

	case p.Ident != nil:
		v, ok := l.lookup(*p.Ident)
		if !ok {
			l.diags = append(l.diags, errors.UndefinedVariable(*p.Ident, p.Pos))
			return l.current.Unit()
		}
		return v

	case p.Parens != nil:
		return l.lowerExpr(p.Parens)

	default:
		panic("empty primary expression")
	}
}

func (l *Lowerer) block(label string) *ssa.Block {
	l.blockCount++
	return l.program.Named(fmt.Sprintf("%s_%d", label, l.blockCount))
}

// terminate asserts that installing a terminator succeeded. The
// lowerer only jumps into blocks it just created, so a failure is a
// bug.
func (l *Lowerer) terminate(err error) {
	if err != nil {
		panic(err)
	}
}

func (l *Lowerer) pushScope() {
	l.scopes = append(l.scopes, map[string]ssa.Var{})
}

func (l *Lowerer) popScope() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *Lowerer) bind(name string, v ssa.Var, pos lexer.Position) {
	scope := l.scopes[len(l.scopes)-1]
	if _, ok := scope[name]; ok {
		l.diags = append(l.diags, errors.DuplicateBinding(name, pos))
	}
	scope[name] = v
}

func (l *Lowerer) lookup(name string) (ssa.Var, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if v, ok := l.scopes[i][name]; ok {
			return v, true
		}
	}
	return 0, false
}

func statementPos(stmt *grammar.Statement) lexer.Position {
	switch {
	case stmt.Let != nil:
		return stmt.Let.Pos
	case stmt.Return != nil:
		return stmt.Return.Pos
	case stmt.Assign != nil:
		return stmt.Assign.Pos
	default:
		return lexer.Position{}
	}
}
