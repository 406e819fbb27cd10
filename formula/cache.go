package formula

import (
	"fmt"
	"sync"

	"github.com/dekarrin/rezi"
)

// file cache.go implements FormulaCache, a memoization layer in front of
// Tokenize+Parse keyed by formula source text. A long-lived host (the REPL,
// the HTTP server) re-parses the same handful of formulas on every
// recalculation; caching the AST turns that into a map lookup.
//
// The cache can be exported to and re-imported from a single binary blob via
// github.com/dekarrin/rezi, so a host can warm-start a cache across
// restarts instead of re-parsing everything on first use.

// FormulaCache memoizes parsed ASTs by source text. It is safe for
// concurrent use.
type FormulaCache struct {
	mu      sync.RWMutex
	entries map[string]*astNode
}

// NewFormulaCache returns an empty cache.
func NewFormulaCache() *FormulaCache {
	return &FormulaCache{entries: make(map[string]*astNode)}
}

// Parse returns the cached AST for source if present, otherwise tokenizes
// and parses it, caches the result on success, and returns it. A parse
// failure is never cached.
func (c *FormulaCache) Parse(source string) (*astNode, error) {
	c.mu.RLock()
	if n, ok := c.entries[source]; ok {
		c.mu.RUnlock()
		return n, nil
	}
	c.mu.RUnlock()

	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	root, err := Parse(tokens, source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[source] = root
	c.mu.Unlock()
	return root, nil
}

// Len reports the number of distinct formulas currently cached.
func (c *FormulaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cachedNode is an exported, rezi-serializable mirror of astNode. astNode
// itself keeps unexported fields (the sum-type discriminant pattern used
// throughout this package), so Export/Import translate through this type
// rather than encoding astNode directly.
type cachedNode struct {
	Shape        int
	SpanStart    int
	SpanEnd      int
	InferredType int

	LiteralKind int
	LiteralNum  float64
	LiteralText string

	RefKind                              int
	RefRow, RefCol                       int
	RefTop, RefBottom, RefLeft, RefRight int

	UnaryOp      int
	UnaryOperand *cachedNode

	BinaryOp    int
	BinaryLeft  *cachedNode
	BinaryRight *cachedNode

	CallName string
	CallArgs []*cachedNode
}

// Export serializes the entire cache to a single binary blob.
func (c *FormulaCache) Export() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]*cachedNode, len(c.entries))
	for src, n := range c.entries {
		snapshot[src] = toCached(n)
	}
	return rezi.EncBinary(snapshot), nil
}

// Import replaces the cache's contents with the entries encoded in data (as
// produced by Export).
func (c *FormulaCache) Import(data []byte) error {
	var snapshot map[string]*cachedNode
	n, err := rezi.DecBinary(data, &snapshot)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("formula: rezi decoded %d/%d bytes of cache blob", n, len(data))
	}

	entries := make(map[string]*astNode, len(snapshot))
	for src, cn := range snapshot {
		entries[src] = fromCached(cn)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

func toCached(n *astNode) *cachedNode {
	if n == nil {
		return nil
	}
	cn := &cachedNode{
		Shape:        int(n.shape),
		SpanStart:    n.span.start,
		SpanEnd:      n.span.end,
		InferredType: int(n.inferredType),
	}
	switch n.shape {
	case shapeLiteral:
		cn.LiteralKind = int(n.literal.kind)
		cn.LiteralNum = n.literal.num
		cn.LiteralText = n.literal.text
	case shapeReference:
		cn.RefKind = int(n.reference.kind)
		cn.RefRow = n.reference.cell.Row
		cn.RefCol = n.reference.cell.Col
		cn.RefTop = n.reference.rng.Top
		cn.RefBottom = n.reference.rng.Bottom
		cn.RefLeft = n.reference.rng.Left
		cn.RefRight = n.reference.rng.Right
	case shapeUnary:
		cn.UnaryOp = int(n.unary.op)
		cn.UnaryOperand = toCached(n.unary.operand)
	case shapeBinary:
		cn.BinaryOp = int(n.binary.op)
		cn.BinaryLeft = toCached(n.binary.left)
		cn.BinaryRight = toCached(n.binary.right)
	case shapeCall:
		cn.CallName = n.call.name
		cn.CallArgs = make([]*cachedNode, len(n.call.args))
		for i, a := range n.call.args {
			cn.CallArgs[i] = toCached(a)
		}
	}
	return cn
}

func fromCached(cn *cachedNode) *astNode {
	if cn == nil {
		return nil
	}
	n := &astNode{
		shape:        nodeShape(cn.Shape),
		span:         span{cn.SpanStart, cn.SpanEnd},
		inferredType: BaseType(cn.InferredType),
	}
	switch n.shape {
	case shapeLiteral:
		n.literal = &literalNode{kind: literalKind(cn.LiteralKind), num: cn.LiteralNum, text: cn.LiteralText}
	case shapeReference:
		n.reference = &referenceNode{
			kind: referenceKind(cn.RefKind),
			cell: CellRef{Row: cn.RefRow, Col: cn.RefCol},
			rng:  RangeRef{Top: cn.RefTop, Bottom: cn.RefBottom, Left: cn.RefLeft, Right: cn.RefRight},
		}
	case shapeUnary:
		n.unary = &unaryNode{op: unaryOp(cn.UnaryOp), operand: fromCached(cn.UnaryOperand)}
	case shapeBinary:
		n.binary = &binaryNode{op: binaryOp(cn.BinaryOp), left: fromCached(cn.BinaryLeft), right: fromCached(cn.BinaryRight)}
	case shapeCall:
		args := make([]*astNode, len(cn.CallArgs))
		for i, a := range cn.CallArgs {
			args[i] = fromCached(a)
		}
		n.call = &callNode{name: cn.CallName, args: args}
	}
	return n
}
