package token

import "fmt"

// Pos identifies a byte offset and the source line it falls on. Lines are
// 1-based; offset is 0-based from the start of the file.
type Pos struct {
	Line   int
	Offset int
}

// NoPos is the zero value of Pos, used where no position is known.
var NoPos = Pos{}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Offset)
}
