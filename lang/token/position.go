package token

import "fmt"

// Position identifies a single byte offset in a named source file by its
// 1-based line and column. It is attached to every token produced by the
// scanner and is carried through the AST so the compiler can stamp each
// instruction with its source line and diagnostics can print FILE:LINE:COL
// spans.
type Position struct {
	Filename string
	Line     int
	Col      int
}

// String formats the position as FILE:LINE:COL, the prefix of every
// diagnostic the language emits.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// IsValid reports whether the position names an actual line/column.
func (p Position) IsValid() bool { return p.Line > 0 }
