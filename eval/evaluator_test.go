package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaji/cactus/objects"
	"github.com/amaji/cactus/parser"
	"github.com/amaji/cactus/scanner"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	tokens, err := scanner.ScanTokens(src)
	require.NoError(t, err)
	stmts, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	var buf bytes.Buffer
	interp := New(&buf)
	runErr := interp.Interpret(stmts)
	return buf.String(), runErr
}

func TestInterpret_ArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpret_StringConcatenationLeftIsString(t *testing.T) {
	out, err := run(t, `print "count: " + 4;`)
	require.NoError(t, err)
	assert.Equal(t, "count: 4\n", out)
}

func TestInterpret_StringConcatenationLeftIsNumber(t *testing.T) {
	out, err := run(t, `print 4 + " items";`)
	require.NoError(t, err)
	assert.Equal(t, "4 items\n", out)
}

func TestInterpret_ScopeShadowingDoesNotLeak(t *testing.T) {
	out, err := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "inner\nouter\n", out)
}

func TestInterpret_ForLoopDesugaring(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpret_OrShortCircuits(t *testing.T) {
	out, err := run(t, `
		var touched = false;
		true or (touched = true);
		print touched;
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestInterpret_AndShortCircuits(t *testing.T) {
	out, err := run(t, `
		var touched = false;
		false and (touched = true);
		print touched;
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestInterpret_OrReturnsFirstTruthyOperand(t *testing.T) {
	out, err := run(t, `print "left" or "right";`)
	require.NoError(t, err)
	assert.Equal(t, "left\n", out)
}

func TestInterpret_DivideByZero(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, DivideByZero, rerr.Kind)
	assert.Equal(t, 1.0, rerr.Dividend)
	assert.Contains(t, rerr.Error(), "1")
}

func TestInterpret_UndefinedVariable(t *testing.T) {
	_, err := run(t, `print missing;`)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, UndefinedVariable, rerr.Kind)
}

func TestInterpret_PrintOfUninitializedVariableFails(t *testing.T) {
	_, err := run(t, `var a; print a;`)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, UninitializedVariable, rerr.Kind)
}

func TestInterpret_BooleanPlusNumberIsFailedCast(t *testing.T) {
	_, err := run(t, `print true + 1;`)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, FailedCast, rerr.Kind)
	assert.Equal(t, objects.BooleanKind, rerr.From)
	assert.Equal(t, objects.StringKind, rerr.To)
}

func TestInterpret_StructuralEqualityAcrossVariants(t *testing.T) {
	out, err := run(t, `
		print nil == nil;
		print 1 == "1";
		print 1 == 1;
		print "a" == "a";
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\ntrue\ntrue\n", out)
}

func TestInterpret_NumericLiteralRoundTrip(t *testing.T) {
	out, err := run(t, `print 3.14;`)
	require.NoError(t, err)
	assert.Equal(t, "3.14\n", strings.TrimPrefix(out, ""))
}

func TestInterpret_WhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpret_IfElse(t *testing.T) {
	out, err := run(t, `
		if (1 < 2) print "yes"; else print "no";
	`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}

func TestInterpret_AssignmentToUndefinedNameFails(t *testing.T) {
	_, err := run(t, `ghost = 1;`)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, UndefinedVariable, rerr.Kind)
}
