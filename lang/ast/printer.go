package ast

import (
	"fmt"
	"io"
)

// Printer renders a tree of Nodes as indented, one-line-per-node text,
// using each node's own Format method for its label.
type Printer struct {
	Output io.Writer
	// Pos, when true, includes each node's start position in the output.
	Pos bool
}

// Print writes chunk's tree to p.Output.
func (p *Printer) Print(chunk *Chunk) {
	depth := 0
	Walk(VisitorFunc(func(n Node, dir VisitDirection) {
		if dir == VisitExit {
			depth--
			return
		}
		for i := 0; i < depth; i++ {
			fmt.Fprint(p.Output, "  ")
		}
		if p.Pos {
			start, _ := n.Span()
			fmt.Fprintf(p.Output, "%s: %v\n", start, n)
		} else {
			fmt.Fprintf(p.Output, "%v\n", n)
		}
		depth++
	}), chunk)
}
