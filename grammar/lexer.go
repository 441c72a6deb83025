package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var RunicLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// Literals (float before integer, the prefix overlaps)
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `[0-9]+`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Char", `'(\\.|[^'\\])'`, nil},

		// Keywords and identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Operators
		{"Operator", `(==|<=|>=|\+=|-=|\*=|/=|=|[-+*/<>])`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}(),;]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
