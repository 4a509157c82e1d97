package ast

// VisitDirection indicates whether Visitor.Visit is called before or after
// a node's children are walked.
type VisitDirection bool

const (
	VisitEnter VisitDirection = false
	VisitExit  VisitDirection = true
)

// Visitor is implemented by callers of Walk. If Visit returns nil on enter,
// the node's children are not walked and Exit is not called for it either.
type Visitor interface {
	Visit(n Node, dir VisitDirection) Visitor
}

// VisitorFunc adapts a plain function to the Visitor interface, always
// returning itself so traversal continues into children.
type VisitorFunc func(n Node, dir VisitDirection)

func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor {
	f(n, dir)
	return f
}

// Walk traverses node's subtree in depth-first order, calling v.Visit on
// enter and on exit for every node, including node itself.
func Walk(v Visitor, node Node) {
	if node == nil || v == nil {
		return
	}
	if v2 := v.Visit(node, VisitEnter); v2 != nil {
		node.Walk(v2)
		v2.Visit(node, VisitExit)
	}
}
