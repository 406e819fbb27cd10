package formula

// file operators.go implements the Pratt parser's per-token dispatch: nud
// ("null denotation", how a token starts an expression) and led ("left
// denotation", how a token continues an expression given what's already been
// parsed to its left). parser.go owns the driving loop; this file owns what
// each token kind means in each position.

// nud parses t as the start of an expression (a literal, a reference, a
// prefix operator, a parenthesized group, or a function call).
func (p *parser) nud(t token) (*astNode, error) {
	switch t.kind {
	case tkNumber:
		return &astNode{shape: shapeLiteral, span: t.span, literal: &literalNode{
			kind: literalNumeric,
			num:  parseNumberLexeme(t.lexeme),
		}}, nil

	case tkString:
		return &astNode{shape: shapeLiteral, span: t.span, literal: &literalNode{
			kind: literalString,
			text: t.lexeme,
		}}, nil

	case tkReference:
		cell, err := parseCellRef(t.lexeme)
		if err != nil {
			return nil, parseErrorAt(t, p.source, "%s", err.Error())
		}
		return &astNode{shape: shapeReference, span: t.span, reference: &referenceNode{
			kind: referenceCell,
			cell: cell,
		}}, nil

	case tkPlus:
		operand, err := p.parseExpression(prefixBindingPower)
		if err != nil {
			return nil, err
		}
		return &astNode{shape: shapeUnary, span: span{t.span.start, operand.span.end}, unary: &unaryNode{
			op: unaryPlus, operand: operand,
		}}, nil

	case tkMinus:
		operand, err := p.parseExpression(prefixBindingPower)
		if err != nil {
			return nil, err
		}
		return &astNode{shape: shapeUnary, span: span{t.span.start, operand.span.end}, unary: &unaryNode{
			op: unaryMinus, operand: operand,
		}}, nil

	case tkLParen:
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		closing := p.stream.Peek()
		if closing.kind != tkRParen {
			return nil, parseErrorAt(closing, p.source, "expected ')' to close '('")
		}
		p.stream.Next()
		inner.span = span{t.span.start, closing.span.end}
		return inner, nil

	case tkIdent:
		return p.parseCall(t)

	default:
		return nil, parseErrorAt(t, p.source, "unexpected %s; expected a number, string, reference, '(', '+', '-', or a function name", t.kind.Human())
	}
}

// parseCall parses a function call that has already consumed its identifier
// token. The grammar admits calls only in this shape — identifier
// immediately followed by a parenthesized, comma-separated argument list —
// so there is no general notion of a bare identifier expression.
func (p *parser) parseCall(name token) (*astNode, error) {
	open := p.stream.Peek()
	if open.kind != tkLParen {
		return nil, parseErrorAt(open, p.source, "expected '(' after function name %q", name.lexeme)
	}
	p.stream.Next()

	var args []*astNode
	if p.stream.Peek().kind != tkRParen {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.stream.Peek().kind != tkComma {
				break
			}
			p.stream.Next()
		}
	}

	closing := p.stream.Peek()
	if closing.kind != tkRParen {
		return nil, parseErrorAt(closing, p.source, "expected ')' to close call to %q", name.lexeme)
	}
	p.stream.Next()

	return &astNode{shape: shapeCall, span: span{name.span.start, closing.span.end}, call: &callNode{
		name: upper(name.lexeme),
		args: args,
	}}, nil
}

// led parses t as a continuation of the expression already parsed into left.
func (p *parser) led(t token, left *astNode) (*astNode, error) {
	switch t.kind {
	case tkPercent:
		return &astNode{shape: shapeUnary, span: span{left.span.start, t.span.end}, unary: &unaryNode{
			op: unaryPercent, operand: left,
		}}, nil

	case tkCaret:
		// Right-associative: bind the right operand at one less than this
		// token's own precedence so a chain of '^' nests to the right.
		right, err := p.parseExpression(t.kind.lbp - 1)
		if err != nil {
			return nil, err
		}
		return makeBinary(binaryPow, left, right), nil

	case tkColon:
		return p.ledRange(t, left)

	default:
		op, ok := binaryOpFor(t.kind)
		if !ok {
			return nil, parseErrorAt(t, p.source, "unexpected %s in expression", t.kind.Human())
		}
		right, err := p.parseExpression(t.kind.lbp)
		if err != nil {
			return nil, err
		}
		return makeBinary(op, left, right), nil
	}
}

func binaryOpFor(k tokenKind) (binaryOp, bool) {
	switch k {
	case tkPlus:
		return binaryAdd, true
	case tkMinus:
		return binarySub, true
	case tkStar:
		return binaryMul, true
	case tkSlash:
		return binaryDiv, true
	case tkLt:
		return binaryLess, true
	case tkGt:
		return binaryGreater, true
	case tkEq:
		return binaryEq, true
	case tkNeq:
		return binaryNeq, true
	case tkLeq:
		return binaryLeq, true
	case tkGeq:
		return binaryGeq, true
	case tkAmp:
		return binaryConcat, true
	default:
		return 0, false
	}
}

func makeBinary(op binaryOp, left, right *astNode) *astNode {
	return &astNode{shape: shapeBinary, span: span{left.span.start, right.span.end}, binary: &binaryNode{
		op: op, left: left, right: right,
	}}
}

// ledRange builds a Range reference from two cell-reference operands. Both
// sides must be bare cell references; a side that is already a Range is
// rejected rather than folded in, since union of already-rectangular ranges
// is not legal (":" only ever wires two cell refs together into one
// rectangle, never a range and a further operand).
func (p *parser) ledRange(t token, left *astNode) (*astNode, error) {
	right, err := p.parseExpression(t.kind.lbp)
	if err != nil {
		return nil, err
	}

	leftCell, ok := asCellRef(left)
	if !ok {
		return nil, parseErrorAt(t, p.source, "':' must follow a cell reference, not a range")
	}
	rightCell, ok := asCellRef(right)
	if !ok {
		return nil, parseErrorAt(t, p.source, "':' must be followed by a cell reference, not a range")
	}

	return &astNode{shape: shapeReference, span: span{left.span.start, right.span.end}, reference: &referenceNode{
		kind: referenceRange,
		rng:  normalizeRange(cellAsRange(leftCell), cellAsRange(rightCell)),
	}}, nil
}

// asCellRef reports whether n is a single-cell reference node (not a range),
// returning its CellRef if so.
func asCellRef(n *astNode) (CellRef, bool) {
	if n.shape != shapeReference || n.reference.kind != referenceCell {
		return CellRef{}, false
	}
	return n.reference.cell, true
}
