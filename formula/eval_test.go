package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSource(t *testing.T, source string, store CellStore) Value {
	t.Helper()
	root := mustParse(t, source)
	reg := NewRegistry()
	InferTypes(root, reg)
	return Evaluate(root, store, reg)
}

func TestEvaluate_Arithmetic(t *testing.T) {
	assert.Equal(t, 3.0, evalSource(t, "1+2", emptyCellStore{}).Num())
	assert.Equal(t, -1.0, evalSource(t, "1-2", emptyCellStore{}).Num())
	assert.Equal(t, 6.0, evalSource(t, "2*3", emptyCellStore{}).Num())
	assert.Equal(t, 2.0, evalSource(t, "6/3", emptyCellStore{}).Num())
}

func TestEvaluate_SubtractionBugfix(t *testing.T) {
	// A known bug in one historical implementation computed Sub as Add;
	// confirm this one really subtracts.
	assert.Equal(t, 3.0, evalSource(t, "5-2", emptyCellStore{}).Num())
}

func TestEvaluate_PowBugfix(t *testing.T) {
	// A known bug in one historical implementation computed Pow as Div;
	// confirm this one really exponentiates, and right-associates.
	assert.Equal(t, 8.0, evalSource(t, "2^3", emptyCellStore{}).Num())
	assert.Equal(t, 512.0, evalSource(t, "2^3^2", emptyCellStore{}).Num())
}

func TestEvaluate_ZeroToZeroPowerIsNumError(t *testing.T) {
	v := evalSource(t, "0^0", emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrNum, v.ErrorCode())
}

func TestEvaluate_NegativeBaseFractionalExponentIsNumError(t *testing.T) {
	v := evalSource(t, "(0-4)^0.5", emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrNum, v.ErrorCode())
}

func TestEvaluate_DivideByZeroIsDiv0Error(t *testing.T) {
	v := evalSource(t, "1/0", emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrDiv0, v.ErrorCode())
}

func TestEvaluate_PercentIsDividedByHundred(t *testing.T) {
	assert.Equal(t, 0.5, evalSource(t, "50%", emptyCellStore{}).Num())
}

func TestEvaluate_Concat(t *testing.T) {
	assert.Equal(t, "ab", evalSource(t, `"a"&"b"`, emptyCellStore{}).Text())
}

func TestEvaluate_ConcatCoercesBlankToEmptyString(t *testing.T) {
	store := newTestStore()
	assert.Equal(t, "x", evalSource(t, `A1&"x"`, store).Text())
}

func TestEvaluate_ArithmeticCoercesBlankToZero(t *testing.T) {
	store := newTestStore()
	assert.Equal(t, 1.0, evalSource(t, "A1+1", store).Num())
}

func TestEvaluate_CellReferenceDereferences(t *testing.T) {
	store := newTestStore()
	store.Set(1, 1, NewNumber(42))
	assert.Equal(t, 42.0, evalSource(t, "A1", store).Num())
}

func TestEvaluate_ErrorPropagatesThroughArithmetic(t *testing.T) {
	v := evalSource(t, "1/0+1", emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrDiv0, v.ErrorCode())
}

func TestEvaluate_EqualityStrictPropagation(t *testing.T) {
	v := evalSource(t, "(1/0)=1", emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrDiv0, v.ErrorCode())
}

func TestEvaluate_EqualityAcrossKindsIsFalse(t *testing.T) {
	// A kind mismatch never coerces for equality: Number vs Text and Number
	// vs Bool both compare unequal even when their textual/numeric forms
	// would otherwise match. A number literal may not be directly followed by
	// a comparison operator, so left-hand numbers are parenthesized; the
	// grammar has no Bool literal, so ("a"="a") supplies a TRUE operand.
	assert.False(t, evalSource(t, `(1)="1"`, emptyCellStore{}).Bool())
	assert.True(t, evalSource(t, `(1)<>"1"`, emptyCellStore{}).Bool())
	assert.False(t, evalSource(t, `(1)=("a"="a")`, emptyCellStore{}).Bool())
}

func TestEvaluate_EqualitySameKind(t *testing.T) {
	assert.True(t, evalSource(t, `(1)=1`, emptyCellStore{}).Bool())
	assert.True(t, evalSource(t, `"a"="a"`, emptyCellStore{}).Bool())
	assert.True(t, evalSource(t, `("a"="a")=("b"="b")`, emptyCellStore{}).Bool())
}

func TestEvaluate_SumOverRange(t *testing.T) {
	store := newTestStore()
	store.Set(1, 1, NewNumber(1))
	store.Set(2, 1, NewNumber(2))
	store.Set(3, 1, NewNumber(3))
	assert.Equal(t, 6.0, evalSource(t, "SUM(A1:A3)", store).Num())
}

func TestEvaluate_SumSkipsBlankCells(t *testing.T) {
	store := newTestStore()
	store.Set(1, 1, NewNumber(1))
	store.Set(3, 1, NewNumber(3))
	assert.Equal(t, 4.0, evalSource(t, "SUM(A1:A3)", store).Num())
}

func TestEvaluate_SumSkipsNonNumericRangeCells(t *testing.T) {
	store := newTestStore()
	store.Set(1, 1, NewNumber(1))
	store.Set(2, 1, NewText("x"))
	store.Set(3, 1, NewBool(true))
	assert.Equal(t, 1.0, evalSource(t, "SUM(A1:A3)", store).Num())
}

func TestEvaluate_SumOfDirectNonNumericArgIsValueError(t *testing.T) {
	v := evalSource(t, `SUM(1,"x")`, emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrValue, v.ErrorCode())
}

func TestEvaluate_IfTakesTrueBranch(t *testing.T) {
	assert.Equal(t, 1.0, evalSource(t, "IF((1)<2,1,2)", emptyCellStore{}).Num())
}

func TestEvaluate_IfTakesFalseBranch(t *testing.T) {
	assert.Equal(t, 2.0, evalSource(t, "IF((1)>2,1,2)", emptyCellStore{}).Num())
}

func TestEvaluate_IsErrorAbsorbsError(t *testing.T) {
	assert.True(t, evalSource(t, "ISERROR(1/0)", emptyCellStore{}).Bool())
	assert.False(t, evalSource(t, "ISERROR(1)", emptyCellStore{}).Bool())
}

func TestEvaluate_IfErrorSubstitutes(t *testing.T) {
	assert.Equal(t, 99.0, evalSource(t, "IFERROR(1/0,99)", emptyCellStore{}).Num())
	assert.Equal(t, 1.0, evalSource(t, "IFERROR(1,99)", emptyCellStore{}).Num())
}

func TestEvaluate_UnknownFunctionIsNameError(t *testing.T) {
	v := evalSource(t, "NOPE(1)", emptyCellStore{})
	require.True(t, v.IsError())
	assert.Equal(t, ErrName, v.ErrorCode())
}

func TestEvaluate_AverageOfNoValuesIsDiv0(t *testing.T) {
	store := newTestStore()
	v := evalSource(t, "AVERAGE(A1:A3)", store)
	require.True(t, v.IsError())
	assert.Equal(t, ErrDiv0, v.ErrorCode())
}

// testStore is a trivial CellStore for eval tests, backed by a map, kept
// local to this file so evaluator tests don't depend on the cellstore
// package (which itself depends on this package).
type testStore struct {
	cells map[CellRef]Value
}

func newTestStore() *testStore { return &testStore{cells: make(map[CellRef]Value)} }

func (s *testStore) Set(row, col int, v Value) { s.cells[CellRef{Row: row, Col: col}] = v }

func (s *testStore) Get(row, col int) (Value, bool) {
	v, ok := s.cells[CellRef{Row: row, Col: col}]
	return v, ok
}
