package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Program struct {
	Functions []*Function `@@*`
}

type Function struct {
	Pos    lexer.Position
	Name   string   `"fn" @Ident "("`
	Params []*Param `[ @@ { "," @@ } ] ")"`
	Body   *Block   `@@`
}

type Param struct {
	Pos  lexer.Position
	Name string `@Ident`
}

type Block struct {
	Statements []*Statement `"{" @@* "}"`
}

type Statement struct {
	Let    *LetStmt    `  @@`
	Return *ReturnStmt `| @@`
	If     *IfStmt     `| @@`
	While  *WhileStmt  `| @@`
	Assign *AssignStmt `| @@`
	Expr   *ExprStmt   `| @@`
}

type LetStmt struct {
	Pos  lexer.Position
	Name string `"let" @Ident "="`
	Expr *Expr  `@@ ";"`
}

// AssignStmt is a compound assignment. Plain rebinding does not exist
// in the language; `let` is the only binder.
type AssignStmt struct {
	Pos    lexer.Position
	Target string `@Ident`
	Op     string `@("+=" | "-=" | "*=" | "/=")`
	Value  *Expr  `@@ ";"`
}

type ReturnStmt struct {
	Pos  lexer.Position
	Expr *Expr `"return" [ @@ ] ";"`
}

type IfStmt struct {
	Cond *Expr  `"if" @@`
	Then *Block `@@`
	Else *Block `[ "else" @@ ]`
}

type WhileStmt struct {
	Cond *Expr  `"while" @@`
	Body *Block `@@`
}

type ExprStmt struct {
	Expr *Expr `@@ ";"`
}

type Expr struct {
	Cmp *CmpExpr `@@`
}

type CmpExpr struct {
	Left *AddExpr `@@`
	Ops  []*CmpOp `@@*`
}

type CmpOp struct {
	Op    string   `@("<=" | "<" | "==" | ">=" | ">")`
	Right *AddExpr `@@`
}

type AddExpr struct {
	Left *MulExpr `@@`
	Ops  []*AddOp `@@*`
}

type AddOp struct {
	Op    string   `@("+" | "-")`
	Right *MulExpr `@@`
}

type MulExpr struct {
	Left *Primary `@@`
	Ops  []*MulOp `@@*`
}

type MulOp struct {
	Op    string   `@("*" | "/")`
	Right *Primary `@@`
}

type Primary struct {
	Pos     lexer.Position
	Float   *string `  @Float`
	Integer *string `| @Integer`
	Str     *string `| @String`
	Char    *string `| @Char`
	Bool    *string `| @("true" | "false")`
	Ident   *string `| @Ident`
	Parens  *Expr   `| "(" @@ ")"`
}
