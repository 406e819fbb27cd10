package formula

import "fmt"

// file debug.go provides a human-readable tree dump of a parsed AST, used by
// cmd/formulai's ":ast" REPL command. Grounded on
// internal/tunascript/parser.go's leveledStr debug pretty-printer, adapted
// to this package's node shapes.

// DebugString renders root as an indented tree, one node per line,
// annotated with each node's inferred type (meaningful only once InferTypes
// has been run; before that every node shows the zero value, Number).
func DebugString(root *astNode) string {
	var sb []byte
	sb = appendNode(sb, root, 0)
	return string(sb)
}

func appendNode(sb []byte, n *astNode, depth int) []byte {
	if n == nil {
		return sb
	}
	for i := 0; i < depth; i++ {
		sb = append(sb, "  "...)
	}
	sb = append(sb, nodeLabel(n)...)
	sb = append(sb, '\n')

	switch n.shape {
	case shapeUnary:
		sb = appendNode(sb, n.unary.operand, depth+1)
	case shapeBinary:
		sb = appendNode(sb, n.binary.left, depth+1)
		sb = appendNode(sb, n.binary.right, depth+1)
	case shapeCall:
		for _, a := range n.call.args {
			sb = appendNode(sb, a, depth+1)
		}
	}
	return sb
}

func nodeLabel(n *astNode) string {
	switch n.shape {
	case shapeLiteral:
		if n.literal.kind == literalNumeric {
			return fmt.Sprintf("Literal(%v) : %s", n.literal.num, n.inferredType)
		}
		return fmt.Sprintf("Literal(%q) : %s", n.literal.text, n.inferredType)
	case shapeReference:
		if n.reference.kind == referenceCell {
			return fmt.Sprintf("Reference(%s%d) : %s", indexToColumn(n.reference.cell.Col), n.reference.cell.Row, n.inferredType)
		}
		r := n.reference.rng
		return fmt.Sprintf("Reference(%s%d:%s%d) : %s", indexToColumn(r.Left), r.Top, indexToColumn(r.Right), r.Bottom, n.inferredType)
	case shapeUnary:
		return fmt.Sprintf("Unary(%s) : %s", unaryOpName(n.unary.op), n.inferredType)
	case shapeBinary:
		return fmt.Sprintf("Binary(%s) : %s", binaryOpName(n.binary.op), n.inferredType)
	case shapeCall:
		return fmt.Sprintf("Call(%s) : %s", n.call.name, n.inferredType)
	default:
		return "?"
	}
}

func unaryOpName(op unaryOp) string {
	switch op {
	case unaryPlus:
		return "+"
	case unaryMinus:
		return "-"
	case unaryPercent:
		return "%"
	default:
		return "?"
	}
}

func binaryOpName(op binaryOp) string {
	switch op {
	case binaryAdd:
		return "+"
	case binarySub:
		return "-"
	case binaryMul:
		return "*"
	case binaryDiv:
		return "/"
	case binaryPow:
		return "^"
	case binaryLess:
		return "<"
	case binaryGreater:
		return ">"
	case binaryEq:
		return "="
	case binaryNeq:
		return "<>"
	case binaryLeq:
		return "<="
	case binaryGeq:
		return ">="
	case binaryRange:
		return ":"
	case binaryConcat:
		return "&"
	default:
		return "?"
	}
}
