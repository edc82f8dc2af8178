package location

import "fmt"

// Document identifies the originating SDL document a span belongs to.
// It is an opaque label supplied by the caller (typically the module
// name the document was compiled under); the core never resolves it to
// a file.
type Document string

// Span is a half-open source range [Start, End) borrowed from the AST
// node that produced a diagnostic.
//
// Span is a plain value type; always pass it by value. The zero value
// means "no location" — use [Span.IsZero] to check before rendering.
type Span struct {
	Doc   Document
	Start Position
	End   Position
}

// Point builds a single-point span where Start == End.
func Point(doc Document, line, col int) Span {
	p := Position{Line: line, Column: col}
	return Span{Doc: doc, Start: p, End: p}
}

// Range builds a span from start to end. Panics if end precedes start;
// this is a construction-time sanity check, not something callers should
// ever need to recover from.
func Range(doc Document, startLine, startCol, endLine, endCol int) Span {
	start := Position{Line: startLine, Column: startCol}
	end := Position{Line: endLine, Column: endCol}
	if positionBefore(end, start) {
		panic(fmt.Sprintf("location.Range: end %v before start %v", end, start))
	}
	return Span{Doc: doc, Start: start, End: end}
}

// IsZero reports whether s is the unset span.
func (s Span) IsZero() bool {
	return s.Doc == "" && s.Start.IsZero() && s.End.IsZero()
}

// String renders "doc:startLine:startCol".
func (s Span) String() string {
	if s.IsZero() {
		return "<no location>"
	}
	return fmt.Sprintf("%s:%s", s.Doc, s.Start)
}
