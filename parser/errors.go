package parser

import (
	"fmt"

	"github.com/amaji/cactus/token"
)

// ErrorKind distinguishes the parse error conditions the grammar can
// produce.
type ErrorKind int

const (
	UnmatchedParen ErrorKind = iota
	ExpectExpression
	ExpectSemicolon
	ExpectVariableName
	ExpectLeftOperand
	InvalidAssignmentTarget
)

// Error is a parse error tied to the token where it was detected.
type Error struct {
	Kind    ErrorKind
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	where := e.Token.Lexeme
	if e.Token.Type == token.Eof {
		where = "end"
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Token.Line, where, e.Message)
}

// Report renders the one-line user-visible diagnostic spec.md §7 requires.
func (e *Error) Report() string {
	return "Parse " + e.Error()
}

func newError(kind ErrorKind, tok token.Token, message string) *Error {
	return &Error{Kind: kind, Token: tok, Message: message}
}
