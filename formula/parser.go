package formula

import "fmt"

// file parser.go drives the Pratt (precedence-climbing) parse loop over a
// token stream. The loop itself is a handful of lines; operators.go carries
// the per-token nud/led dispatch that gives it meaning.

// maxRecursionDepth bounds how deeply nested an expression may be, guarding
// the parser (and, via the same constant, the evaluator) against stack
// exhaustion on pathological or malicious input.
const maxRecursionDepth = 256

type parser struct {
	stream *tokenStream
	source string
	depth  int
}

// Parse turns a token stream produced by Tokenize into a single AST rooted
// expression. It returns a ParseError if the tokens do not form a complete,
// valid expression.
func Parse(tokens []token, source string) (*astNode, error) {
	p := &parser{stream: &tokenStream{tokens: tokens}, source: source}
	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if trailing := p.stream.Peek(); trailing.kind != tkEOF {
		return nil, parseErrorAt(trailing, source, "unexpected trailing %s after expression", trailing.kind.Human())
	}
	return root, nil
}

// parseExpression is the canonical Pratt loop: parse a leading term with
// nud, then keep extending it leftward with led as long as the next token
// binds tighter than minBp.
func (p *parser) parseExpression(minBp int) (*astNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxRecursionDepth {
		return nil, parseErrorAt(p.stream.Peek(), p.source, "expression nested too deeply (limit %d)", maxRecursionDepth)
	}

	t := p.stream.Next()
	if t.kind == tkEOF {
		return nil, parseErrorAt(t, p.source, "unexpected end of formula")
	}
	left, err := p.nud(t)
	if err != nil {
		return nil, err
	}

	for minBp < p.stream.Peek().kind.lbp {
		t = p.stream.Next()
		left, err = p.led(t, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseCellRef splits a REFERENCE lexeme such as "A1" or "aa27" into its
// column-letter and row-digit parts and validates that the row is >=1 (row 0
// is not addressable).
func parseCellRef(lexeme string) (CellRef, error) {
	i := 0
	for i < len(lexeme) && isAlpha(rune(lexeme[i])) {
		i++
	}
	letters, digits := lexeme[:i], lexeme[i:]

	row := 0
	for _, d := range digits {
		row = row*10 + int(d-'0')
	}
	if row < 1 {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: row must be 1 or greater", lexeme)
	}

	return CellRef{Row: row, Col: columnToIndex(letters)}, nil
}
