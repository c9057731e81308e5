// Package eval walks a parsed statement list and executes it, producing
// side effects (writes from `print`) and reporting runtime errors.
//
// Where the teacher encodes "no value" and error conditions as sentinel
// runtime objects checked with IsError, this evaluator uses plain Go
// (value, error) returns throughout: a failed evaluation propagates as an
// error the same way any other Go function signals failure.
package eval

import (
	"fmt"
	"io"

	"github.com/amaji/cactus/objects"
	"github.com/amaji/cactus/parser"
	"github.com/amaji/cactus/scope"
	"github.com/amaji/cactus/token"
)

// Evaluator holds the mutable state of one run: the scope arena, the scope
// currently executing in, and where `print` writes.
type Evaluator struct {
	arena   *scope.Arena
	current scope.ID
	writer  io.Writer
}

// New returns an Evaluator with a fresh global scope, writing print output
// to w.
func New(w io.Writer) *Evaluator {
	return &Evaluator{arena: scope.New(), current: scope.Global, writer: w}
}

// SetWriter redirects where subsequent `print` statements write, mirroring
// the teacher's Evaluator.SetWriter used to capture output in tests.
func (e *Evaluator) SetWriter(w io.Writer) {
	e.writer = w
}

// EvalExpr evaluates a single expression and returns its value, without
// going through statement execution. The REPL uses this to print the
// result of a bare expression statement for debugging.
func (e *Evaluator) EvalExpr(expr parser.Expr) (objects.Value, error) {
	return e.eval(expr)
}

// Interpret executes stmts in order, stopping at the first runtime error.
func (e *Evaluator) Interpret(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if err := e.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execStmt(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.ExprStmt:
		_, err := e.eval(s.Expression)
		return err

	case *parser.PrintStmt:
		v, err := e.eval(s.Expression)
		if err != nil {
			return err
		}
		if _, ok := v.(objects.Nil); ok {
			return uninitializedVariable(exprLine(s.Expression))
		}
		fmt.Fprintln(e.writer, v.String())
		return nil

	case *parser.VarStmt:
		value := objects.Value(objects.Null)
		if s.Initializer != nil {
			v, err := e.eval(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		e.arena.Define(e.current, s.Name.Lexeme, value)
		return nil

	case *parser.BlockStmt:
		return e.execBlock(s.Statements)

	case *parser.IfStmt:
		cond, err := e.eval(s.Cond)
		if err != nil {
			return err
		}
		if objects.Truthy(cond) {
			return e.execStmt(s.Then)
		}
		if s.Else != nil {
			return e.execStmt(s.Else)
		}
		return nil

	case *parser.WhileStmt:
		for {
			cond, err := e.eval(s.Cond)
			if err != nil {
				return err
			}
			if !objects.Truthy(cond) {
				return nil
			}
			if err := e.execStmt(s.Body); err != nil {
				return err
			}
		}

	default:
		return nil
	}
}

// execBlock runs stmts in a fresh child scope, restoring the previous
// scope and the arena's length on every exit path (normal return or
// propagated error) via defer.
func (e *Evaluator) execBlock(stmts []parser.Stmt) error {
	prevScope := e.current
	prevLen := e.arena.Len()
	e.current = e.arena.PushChild(prevScope)
	defer func() {
		e.current = prevScope
		e.arena.Truncate(prevLen)
	}()

	for _, stmt := range stmts {
		if err := e.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) eval(expr parser.Expr) (objects.Value, error) {
	switch node := expr.(type) {
	case *parser.Literal:
		return literalValue(node.Value), nil

	case *parser.Grouping:
		return e.eval(node.Expression)

	case *parser.Unary:
		return e.evalUnary(node)

	case *parser.Binary:
		left, err := e.eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(node.Right)
		if err != nil {
			return nil, err
		}
		return applyBinary(node.Operator, left, right)

	case *parser.Logical:
		return e.evalLogical(node)

	case *parser.Variable:
		v, ok := e.arena.Get(e.current, node.Name.Lexeme)
		if !ok {
			return nil, undefinedVariable(node.Name.Line, node.Name.Lexeme)
		}
		return v, nil

	case *parser.Assign:
		v, err := e.eval(node.Value)
		if err != nil {
			return nil, err
		}
		if !e.arena.Assign(e.current, node.Name.Lexeme, v) {
			return nil, undefinedVariable(node.Name.Line, node.Name.Lexeme)
		}
		return v, nil

	default:
		return nil, failedCast(0, "", "")
	}
}

func literalValue(v any) objects.Value {
	switch val := v.(type) {
	case string:
		return objects.String{Value: val}
	case float64:
		return objects.Number{Value: val}
	case bool:
		return objects.Boolean{Value: val}
	default:
		return objects.Null
	}
}

func (e *Evaluator) evalUnary(node *parser.Unary) (objects.Value, error) {
	right, err := e.eval(node.Right)
	if err != nil {
		return nil, err
	}
	switch node.Operator.Type {
	case token.Minus:
		n, ok := right.(objects.Number)
		if !ok {
			return nil, failedCast(node.Operator.Line, right.Kind(), objects.NumberKind)
		}
		return objects.Number{Value: -n.Value}, nil
	case token.Bang:
		return objects.Boolean{Value: !objects.Truthy(right)}, nil
	default:
		return nil, failedCast(node.Operator.Line, "", "")
	}
}

func (e *Evaluator) evalLogical(node *parser.Logical) (objects.Value, error) {
	left, err := e.eval(node.Left)
	if err != nil {
		return nil, err
	}
	switch node.Operator.Type {
	case token.Or:
		if objects.Truthy(left) {
			return left, nil
		}
	case token.And:
		if !objects.Truthy(left) {
			return left, nil
		}
	}
	return e.eval(node.Right)
}

// applyBinary implements the binary operator table: `-`/`*`/`/` require
// both operands to be numbers, `+` additionally concatenates when the left
// side is a string, or when the left side is a number and the right side a
// string (any other mix is a FailedCast), comparisons require numbers, and
// `==`/`!=` compare structurally across any variant.
func applyBinary(op token.Token, left, right objects.Value) (objects.Value, error) {
	switch op.Type {
	case token.Minus, token.Star, token.Slash:
		ln, lok := left.(objects.Number)
		if !lok {
			return nil, failedCast(op.Line, left.Kind(), objects.NumberKind)
		}
		rn, rok := right.(objects.Number)
		if !rok {
			return nil, failedCast(op.Line, right.Kind(), objects.NumberKind)
		}
		switch op.Type {
		case token.Minus:
			return objects.Number{Value: ln.Value - rn.Value}, nil
		case token.Star:
			return objects.Number{Value: ln.Value * rn.Value}, nil
		default: // token.Slash
			if rn.Value == 0 {
				return nil, divideByZero(op.Line, ln.Value)
			}
			return objects.Number{Value: ln.Value / rn.Value}, nil
		}

	case token.Plus:
		if ln, ok := left.(objects.Number); ok {
			if rn, ok := right.(objects.Number); ok {
				return objects.Number{Value: ln.Value + rn.Value}, nil
			}
			if rs, ok := right.(objects.String); ok {
				return objects.String{Value: ln.String() + rs.Value}, nil
			}
			return nil, failedCast(op.Line, right.Kind(), objects.NumberKind)
		}
		if ls, ok := left.(objects.String); ok {
			return objects.String{Value: ls.Value + right.String()}, nil
		}
		return nil, failedCast(op.Line, left.Kind(), objects.StringKind)

	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, lok := left.(objects.Number)
		if !lok {
			return nil, failedCast(op.Line, left.Kind(), objects.NumberKind)
		}
		rn, rok := right.(objects.Number)
		if !rok {
			return nil, failedCast(op.Line, right.Kind(), objects.NumberKind)
		}
		switch op.Type {
		case token.Greater:
			return objects.Boolean{Value: ln.Value > rn.Value}, nil
		case token.GreaterEqual:
			return objects.Boolean{Value: ln.Value >= rn.Value}, nil
		case token.Less:
			return objects.Boolean{Value: ln.Value < rn.Value}, nil
		default: // token.LessEqual
			return objects.Boolean{Value: ln.Value <= rn.Value}, nil
		}

	case token.BangEqual:
		return objects.Boolean{Value: !objects.Equal(left, right)}, nil
	case token.EqualEqual:
		return objects.Boolean{Value: objects.Equal(left, right)}, nil

	default:
		return nil, failedCast(op.Line, "", "")
	}
}

// exprLine finds a representative source line for an expression that has
// no value of its own to report errors against, such as the Nil result of
// a bare literal passed to `print`. Literal nodes carry no token, so they
// fall back to 0.
func exprLine(expr parser.Expr) int {
	switch e := expr.(type) {
	case *parser.Grouping:
		return exprLine(e.Expression)
	case *parser.Unary:
		return e.Operator.Line
	case *parser.Binary:
		return e.Operator.Line
	case *parser.Logical:
		return e.Operator.Line
	case *parser.Variable:
		return e.Name.Line
	case *parser.Assign:
		return e.Name.Line
	default:
		return 0
	}
}
