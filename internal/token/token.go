package token

import "fmt"

// Token carries the source position of an elaborated node. The bridge
// checker consumes trees that were lexed and parsed upstream, so only the
// position and the original lexeme survive into this stage.
type Token struct {
	Lexeme string
	File   string
	Line   int
	Column int
}

// Pos formats the position as "file:line:column" for diagnostics.
// A zero token (synthetic nodes) formats as "<synthetic>".
func (t Token) Pos() string {
	if t.Line == 0 && t.Column == 0 && t.File == "" {
		return "<synthetic>"
	}
	if t.File == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}
