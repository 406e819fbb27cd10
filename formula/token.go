package formula

import "strings"

// tokenKind is the kind of a single lexical token. Kinds are comparable with
// ==; lbp (left binding power) drives the Pratt parser's precedence climbing
// and is carried on the kind rather than threaded through the parser
// separately, so the lexer and parser always agree on precedence.
type tokenKind struct {
	id    string
	human string
	lbp   int
}

func (k tokenKind) String() string { return k.id }

// Human returns a human-readable description of the token kind, suitable for
// use in syntax error messages.
func (k tokenKind) Human() string { return k.human }

var (
	tkEOF       = tokenKind{"EOF", "end of formula", 0}
	tkNumber    = tokenKind{"NUMBER", "number", 0}
	tkString    = tokenKind{"STRING", "string literal", 0}
	tkReference = tokenKind{"REFERENCE", "cell reference", 0}
	tkIdent     = tokenKind{"IDENT", "function name", 0}
	tkComma     = tokenKind{"COMMA", "','", 0}
	tkLParen    = tokenKind{"LPAREN", "'('", 0}
	tkRParen    = tokenKind{"RPAREN", "')'", 0}

	tkPlus    = tokenKind{"PLUS", "'+'", 60}
	tkMinus   = tokenKind{"MINUS", "'-'", 60}
	tkStar    = tokenKind{"STAR", "'*'", 70}
	tkSlash   = tokenKind{"SLASH", "'/'", 70}
	tkCaret   = tokenKind{"CARET", "'^'", 90}
	tkPercent = tokenKind{"PERCENT", "'%'", 100}
	tkAmp     = tokenKind{"AMP", "'&'", 50}
	tkColon   = tokenKind{"COLON", "':'", 30}
	tkEq      = tokenKind{"EQ", "'='", 40}
	tkNeq     = tokenKind{"NEQ", "'<>'", 40}
	tkLt      = tokenKind{"LT", "'<'", 40}
	tkGt      = tokenKind{"GT", "'>'", 40}
	tkLeq     = tokenKind{"LEQ", "'<='", 40}
	tkGeq     = tokenKind{"GEQ", "'>='", 40}
)

// prefixBindingPower is the binding power used when parsing the operand of a
// unary prefix +/- (tier 80 in the precedence table; higher than the
// additive infix tier so that "-a+b" parses as "(-a)+b").
const prefixBindingPower = 80

// span is an inclusive-inclusive rune offset range (start, end) identifying
// where a token's lexeme was found in the source formula.
type span struct {
	start int
	end   int
}

// token is a single lexical token produced by the lexer.
type token struct {
	kind   tokenKind
	lexeme string
	span   span
}

func (t token) String() string {
	if t.kind == tkEOF {
		return "<eof>"
	}
	return t.lexeme
}

// Kind returns the token's kind identifier (e.g. "NUMBER", "PLUS"), for
// callers outside this package that want to display a token stream without
// needing to name the unexported token type itself.
func (t token) Kind() string { return t.kind.id }

// Lexeme returns the token's raw source text ("" for EOF).
func (t token) Lexeme() string { return t.lexeme }

// tokenStream is a cursor over a fixed slice of tokens, used by both the
// parser and, internally, by nud/led implementations that need to look ahead.
type tokenStream struct {
	tokens []token
	cur    int
}

// Next consumes and returns the current token, advancing the cursor.
func (ts *tokenStream) Next() token {
	t := ts.tokens[ts.cur]
	if ts.cur < len(ts.tokens)-1 {
		ts.cur++
	}
	return t
}

// Peek returns the current token without consuming it.
func (ts *tokenStream) Peek() token {
	return ts.tokens[ts.cur]
}

// Remaining returns the number of tokens, including EOF, left to consume.
func (ts *tokenStream) Remaining() int {
	return len(ts.tokens) - ts.cur
}

func upper(s string) string {
	return strings.ToUpper(s)
}
