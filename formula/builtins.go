package formula

import "math"

// file builtins.go is the seed-and-expanded function catalogue: plain Go
// functions of (args, resolveRange) registered into a Registry by name, each
// built as its own small free function.

func standardCatalogue() []FunctionSignature {
	return []FunctionSignature{
		sumSignature(),
		lenSignature(),
		ifSignature(),
		andSignature(),
		orSignature(),
		notSignature(),
		minSignature(),
		maxSignature(),
		averageSignature(),
		countSignature(),
		countaSignature(),
		concatenateSignature(),
		textSignature(),
		absSignature(),
		roundSignature(),
		isBlankSignature(),
		isErrorSignature(),
		isNumberSignature(),
		ifErrorSignature(),
	}
}

// flattenNumericArgs flattens a mixed list of scalar Number values and Range
// values (resolved via resolveRange) into one slice of Values, in argument
// order. A cell pulled from a range silently drops out unless it holds a
// Number (Blank, Text, and Bool cells are all skipped, matching the
// spreadsheet convention that only numeric cells participate in a range-based
// aggregate); an error cell is kept so the caller still sees and propagates
// it. A directly-passed scalar argument is never silently dropped this way —
// the caller is expected to type-check it itself, since passing the wrong
// kind as a literal argument (rather than letting it arrive via a range) is
// a caller error, not a cell to skip.
func flattenNumericArgs(args []Value, resolveRange func(RangeRef) []Value) []Value {
	var out []Value
	for _, a := range args {
		if a.Type() == TypeRange {
			for _, cell := range resolveRange(a.Range()) {
				if cell.IsError() || cell.Type() == TypeNumber {
					out = append(out, cell)
				}
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

func sumSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "SUM",
		Params:        []Param{{AnyOf: []ArgKind{KindNumber, KindRange}}},
		VariableArity: true,
		ReturnType:    TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			total := 0.0
			for _, v := range flattenNumericArgs(args, resolveRange) {
				if v.IsError() {
					return v
				}
				if v.Type() != TypeNumber {
					return NewError(ErrValue)
				}
				total += v.Num()
			}
			return NewNumber(total)
		},
	}
}

func lenSignature() FunctionSignature {
	return FunctionSignature{
		Name:       "LEN",
		Params:     []Param{{AnyOf: []ArgKind{KindText}}},
		ReturnType: TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			s, ok := args[0].Textualize()
			if !ok {
				return NewError(ErrValue)
			}
			return NewNumber(float64(len(s)))
		},
	}
}

// ifSignature's return type is Unknown: which branch runs (and hence the
// result's BaseType) depends on the runtime value of the condition, not on
// anything the inferencer can see statically. It absorbs errors so that an
// error in the branch not taken is discarded; an error condition or an error
// in the selected branch is still returned.
func ifSignature() FunctionSignature {
	return FunctionSignature{
		Name:         "IF",
		Params:       []Param{{AnyOf: []ArgKind{KindBool}}, {AnyOf: []ArgKind{KindAnyScalar, KindRef, KindRange}}, {AnyOf: []ArgKind{KindAnyScalar, KindRef, KindRange}}},
		ReturnType:   TypeUnknown,
		AbsorbsError: true,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			cond := args[0]
			if cond.IsError() {
				return cond
			}
			if cond.Type() != TypeBool {
				return NewError(ErrValue)
			}
			if cond.Bool() {
				return args[1]
			}
			return args[2]
		},
	}
}

func andSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "AND",
		Params:        []Param{{AnyOf: []ArgKind{KindBool}}},
		VariableArity: true,
		ReturnType:    TypeBool,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			result := true
			for _, v := range args {
				if v.IsError() {
					return v
				}
				if v.Type() != TypeBool {
					return NewError(ErrValue)
				}
				result = result && v.Bool()
			}
			return NewBool(result)
		},
	}
}

func orSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "OR",
		Params:        []Param{{AnyOf: []ArgKind{KindBool}}},
		VariableArity: true,
		ReturnType:    TypeBool,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			result := false
			for _, v := range args {
				if v.IsError() {
					return v
				}
				if v.Type() != TypeBool {
					return NewError(ErrValue)
				}
				result = result || v.Bool()
			}
			return NewBool(result)
		},
	}
}

func notSignature() FunctionSignature {
	return FunctionSignature{
		Name:       "NOT",
		Params:     []Param{{AnyOf: []ArgKind{KindBool}}},
		ReturnType: TypeBool,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			if args[0].IsError() {
				return args[0]
			}
			if args[0].Type() != TypeBool {
				return NewError(ErrValue)
			}
			return NewBool(!args[0].Bool())
		},
	}
}

func minSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "MIN",
		Params:        []Param{{AnyOf: []ArgKind{KindNumber, KindRange}}},
		VariableArity: true,
		ReturnType:    TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			vals := flattenNumericArgs(args, resolveRange)
			if len(vals) == 0 {
				return NewNumber(0)
			}
			best := math.Inf(1)
			for _, v := range vals {
				if v.IsError() {
					return v
				}
				if v.Type() != TypeNumber {
					return NewError(ErrValue)
				}
				if v.Num() < best {
					best = v.Num()
				}
			}
			return NewNumber(best)
		},
	}
}

func maxSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "MAX",
		Params:        []Param{{AnyOf: []ArgKind{KindNumber, KindRange}}},
		VariableArity: true,
		ReturnType:    TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			vals := flattenNumericArgs(args, resolveRange)
			if len(vals) == 0 {
				return NewNumber(0)
			}
			best := math.Inf(-1)
			for _, v := range vals {
				if v.IsError() {
					return v
				}
				if v.Type() != TypeNumber {
					return NewError(ErrValue)
				}
				if v.Num() > best {
					best = v.Num()
				}
			}
			return NewNumber(best)
		},
	}
}

func averageSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "AVERAGE",
		Params:        []Param{{AnyOf: []ArgKind{KindNumber, KindRange}}},
		VariableArity: true,
		ReturnType:    TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			vals := flattenNumericArgs(args, resolveRange)
			if len(vals) == 0 {
				return NewError(ErrDiv0)
			}
			total := 0.0
			for _, v := range vals {
				if v.IsError() {
					return v
				}
				if v.Type() != TypeNumber {
					return NewError(ErrValue)
				}
				total += v.Num()
			}
			return NewNumber(total / float64(len(vals)))
		},
	}
}

func countSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "COUNT",
		Params:        []Param{{AnyOf: []ArgKind{KindAnyScalar, KindRange}}},
		VariableArity: true,
		ReturnType:    TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			n := 0
			for _, v := range flattenScalarArgs(args, resolveRange) {
				if v.Type() == TypeNumber {
					n++
				}
			}
			return NewNumber(float64(n))
		},
	}
}

func countaSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "COUNTA",
		Params:        []Param{{AnyOf: []ArgKind{KindAnyScalar, KindRange}}},
		VariableArity: true,
		ReturnType:    TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			n := 0
			for _, a := range args {
				if a.Type() == TypeRange {
					for _, cell := range resolveRange(a.Range()) {
						if !cell.IsBlank() {
							n++
						}
					}
					continue
				}
				if !a.IsBlank() {
					n++
				}
			}
			return NewNumber(float64(n))
		},
	}
}

// flattenScalarArgs is like flattenNumericArgs but keeps non-numeric scalars
// too, for functions such as COUNT that need to distinguish numeric from
// non-numeric entries rather than rejecting the latter outright.
func flattenScalarArgs(args []Value, resolveRange func(RangeRef) []Value) []Value {
	var out []Value
	for _, a := range args {
		if a.Type() == TypeRange {
			out = append(out, resolveRange(a.Range())...)
			continue
		}
		out = append(out, a)
	}
	return out
}

func concatenateSignature() FunctionSignature {
	return FunctionSignature{
		Name:          "CONCATENATE",
		Params:        []Param{{AnyOf: []ArgKind{KindAnyScalar}}},
		VariableArity: true,
		ReturnType:    TypeString,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			var sb []byte
			for _, v := range args {
				if v.IsError() {
					return v
				}
				text, ok := v.Textualize()
				if !ok {
					return NewError(ErrValue)
				}
				sb = append(sb, text...)
			}
			return NewText(string(sb))
		},
	}
}

func textSignature() FunctionSignature {
	return FunctionSignature{
		Name:       "TEXT",
		Params:     []Param{{AnyOf: []ArgKind{KindAnyScalar}}},
		ReturnType: TypeString,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			if args[0].IsError() {
				return args[0]
			}
			text, ok := args[0].Textualize()
			if !ok {
				return NewError(ErrValue)
			}
			return NewText(text)
		},
	}
}

func absSignature() FunctionSignature {
	return FunctionSignature{
		Name:       "ABS",
		Params:     []Param{{AnyOf: []ArgKind{KindNumber}}},
		ReturnType: TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			if args[0].IsError() {
				return args[0]
			}
			if args[0].Type() != TypeNumber {
				return NewError(ErrValue)
			}
			return NewNumber(math.Abs(args[0].Num()))
		},
	}
}

func roundSignature() FunctionSignature {
	return FunctionSignature{
		Name:       "ROUND",
		Params:     []Param{{AnyOf: []ArgKind{KindNumber}}, {AnyOf: []ArgKind{KindNumber}}},
		ReturnType: TypeNumber,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			if args[0].IsError() {
				return args[0]
			}
			if args[1].IsError() {
				return args[1]
			}
			if args[0].Type() != TypeNumber || args[1].Type() != TypeNumber {
				return NewError(ErrValue)
			}
			digits := args[1].Num()
			scale := math.Pow(10, digits)
			return NewNumber(math.Round(args[0].Num()*scale) / scale)
		},
	}
}

func isBlankSignature() FunctionSignature {
	return FunctionSignature{
		Name:         "ISBLANK",
		Params:       []Param{{AnyOf: []ArgKind{KindAnyScalar, KindRef}}},
		ReturnType:   TypeBool,
		AbsorbsError: true,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			return NewBool(args[0].IsBlank())
		},
	}
}

// isErrorSignature is one of the documented exceptions to error propagation:
// its argument is inspected for error-ness rather than letting that
// error-ness propagate through the call.
func isErrorSignature() FunctionSignature {
	return FunctionSignature{
		Name:         "ISERROR",
		Params:       []Param{{AnyOf: []ArgKind{KindAnyScalar, KindRef, KindRange}}},
		ReturnType:   TypeBool,
		AbsorbsError: true,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			return NewBool(args[0].IsError())
		},
	}
}

func isNumberSignature() FunctionSignature {
	return FunctionSignature{
		Name:         "ISNUMBER",
		Params:       []Param{{AnyOf: []ArgKind{KindAnyScalar, KindRef}}},
		ReturnType:   TypeBool,
		AbsorbsError: true,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			return NewBool(!args[0].IsError() && args[0].Type() == TypeNumber)
		},
	}
}

// ifErrorSignature is the other documented exception: it absorbs an error in
// its first argument and substitutes its second, rather than propagating.
func ifErrorSignature() FunctionSignature {
	return FunctionSignature{
		Name:         "IFERROR",
		Params:       []Param{{AnyOf: []ArgKind{KindAnyScalar, KindRef, KindRange}}, {AnyOf: []ArgKind{KindAnyScalar, KindRef, KindRange}}},
		ReturnType:   TypeUnknown,
		AbsorbsError: true,
		Eval: func(args []Value, resolveRange func(RangeRef) []Value) Value {
			if args[0].IsError() {
				return args[1]
			}
			return args[0]
		},
	}
}
