package qent

import "fmt"

// Location identifies a byte position in the parsed input.
// Line and Column are 1-based, Offset is 0-based.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", l.Line, l.Column, l.Offset)
}

// tracker follows the scanner cursor. Errors never read it directly; tokens take a
// snapshot with here() before consuming their first byte.
type tracker struct {
	loc Location
	// pendingCR is set when the last byte was a CR, so a following LF does not
	// count a second line.
	pendingCR bool
}

func newTracker() tracker {
	return tracker{loc: Location{Line: 1, Column: 1}}
}

func (t *tracker) here() Location {
	return t.loc
}

// advance records the consumption of b.
func (t *tracker) advance(b byte) {
	t.loc.Offset++
	switch b {
	case '\n':
		if t.pendingCR {
			t.pendingCR = false
			return
		}
		t.loc.Line++
		t.loc.Column = 1
	case '\r':
		t.pendingCR = true
		t.loc.Line++
		t.loc.Column = 1
	default:
		t.pendingCR = false
		t.loc.Column++
	}
}
