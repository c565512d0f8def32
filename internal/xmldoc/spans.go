package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Span is the line range of one member entry in a documentation file.
type Span struct {
	CodeRef string
	Start   int
	End     int
}

func (s Span) Contains(line int) bool { return line >= s.Start && line <= s.End }

// MemberSpans lists the line range of every named member entry in r.
func MemberSpans(r io.Reader) ([]Span, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var spans []Span
	var open []int // indexes into spans, one per open member element
	depth := 0
	var memberDepth []int

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan xml: %w", err)
		}
		line, _ := dec.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local != TagMember {
				continue
			}
			for _, a := range t.Attr {
				if a.Name.Local == "name" && a.Value != "" {
					spans = append(spans, Span{CodeRef: a.Value, Start: line, End: line})
					open = append(open, len(spans)-1)
					memberDepth = append(memberDepth, depth)
				}
			}
		case xml.EndElement:
			if n := len(memberDepth); n > 0 && memberDepth[n-1] == depth {
				spans[open[n-1]].End = line
				open = open[:n-1]
				memberDepth = memberDepth[:n-1]
			}
			depth--
		}
	}
	return spans, nil
}
