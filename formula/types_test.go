package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inferSource(t *testing.T, source string) BaseType {
	t.Helper()
	root := mustParse(t, source)
	reg := NewRegistry()
	return InferTypes(root, reg)
}

func TestInferTypes_Literals(t *testing.T) {
	assert.Equal(t, TypeNumber, inferSource(t, "1"))
	assert.Equal(t, TypeString, inferSource(t, `"hi"`))
}

func TestInferTypes_References(t *testing.T) {
	assert.Equal(t, TypeCellRef, inferSource(t, "A1"))
	assert.Equal(t, TypeRange, inferSource(t, "A1:B2"))
}

func TestInferTypes_Arithmetic(t *testing.T) {
	assert.Equal(t, TypeNumber, inferSource(t, "1+2"))
	assert.Equal(t, TypeNumber, inferSource(t, "A1*2"))
}

func TestInferTypes_Comparison(t *testing.T) {
	// Parenthesized: a number literal may not be directly followed by '<'.
	assert.Equal(t, TypeBool, inferSource(t, "(1)<2"))
}

func TestInferTypes_EqualityAllowsAnyNonRangeOperand(t *testing.T) {
	assert.Equal(t, TypeBool, inferSource(t, `(1)="1"`))
}

func TestInferTypes_EqualityRejectsRangeOperand(t *testing.T) {
	// ':' binds loosest of all operators, so the range is parenthesized.
	assert.Equal(t, TypeError, inferSource(t, "(A1:A2)=1"))
}

func TestInferTypes_ConcatRejectsRangeOperand(t *testing.T) {
	assert.Equal(t, TypeError, inferSource(t, `(A1:A2)&"x"`))
}

func TestInferTypes_ConcatOfScalarsIsString(t *testing.T) {
	assert.Equal(t, TypeString, inferSource(t, `"a"&1`))
}

func TestInferTypes_ErrorPropagatesThroughArithmetic(t *testing.T) {
	assert.Equal(t, TypeError, inferSource(t, "1+UNKNOWNFN(1)"))
}

func TestInferTypes_IfReturnsUnknown(t *testing.T) {
	assert.Equal(t, TypeUnknown, inferSource(t, "IF((1)<2,1,2)"))
}

func TestInferTypes_UnknownFunctionNameIsError(t *testing.T) {
	assert.Equal(t, TypeError, inferSource(t, "NOPE(1)"))
}

func TestInferTypes_WrongArityIsError(t *testing.T) {
	assert.Equal(t, TypeError, inferSource(t, "LEN(1,2)"))
}

func TestInferTypes_WrongArgKindIsError(t *testing.T) {
	assert.Equal(t, TypeError, inferSource(t, `ABS("x")`))
}

func TestInferTypes_IsErrorAbsorbsArgumentError(t *testing.T) {
	root := mustParse(t, "ISERROR(1+UNKNOWNFN(1))")
	reg := NewRegistry()
	require.Equal(t, TypeBool, InferTypes(root, reg))
}
