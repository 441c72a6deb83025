package errors

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Error codes used by the lowering pipeline.
const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Binding errors
	ErrorDuplicateBinding = "E0002"

	// E0601: Flow control warnings
	WarningUnreachableCode = "E0601"
)

// UndefinedVariable reports a read of a name that has no binding in
// scope.
func UndefinedVariable(name string, pos lexer.Position) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorUndefinedVariable,
		Message:  fmt.Sprintf("undefined variable '%s'", name),
		Position: pos,
		Length:   len(name),
	}
}

// DuplicateBinding reports a let that shadows a binding in the same
// scope.
func DuplicateBinding(name string, pos lexer.Position) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorDuplicateBinding,
		Message:  fmt.Sprintf("'%s' is already bound in this scope", name),
		Position: pos,
		Length:   len(name),
	}
}

// UnreachableCode reports statements that follow a return.
func UnreachableCode(pos lexer.Position) CompilerError {
	return CompilerError{
		Level:    Warning,
		Code:     WarningUnreachableCode,
		Message:  "unreachable code after return statement",
		Position: pos,
		Length:   1,
	}
}
