package sexpr

import "fmt"

// ParseError reports a position in the source where parsing failed, in the
// same near-token-plus-position spirit as the teacher's ParserError, pared
// down for this peripheral reader: there is no error-recovery/accumulation
// here, since a malformed kernel term is a hard read failure rather than
// something a REPL should try to partially salvage.
type ParseError struct {
	Line, Column int
	NearToken    Token
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s (near %s)", e.Line, e.Column, e.Message, e.NearToken)
}
