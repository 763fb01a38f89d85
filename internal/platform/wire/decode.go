package wire

import (
	"fmt"
	"strings"
)

// minHeaderLen is the shortest possible MSH prefix: "MSH" plus the field
// separator and the four encoding characters.
const minHeaderLen = 8

// ParseError reports malformed input, naming the offending segment.
type ParseError struct {
	SegmentIndex int
	Excerpt      string
	Reason       string
}

func (e *ParseError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("wire: segment %d: %s", e.SegmentIndex, e.Reason)
	}
	return fmt.Sprintf("wire: segment %d: %s (%q)", e.SegmentIndex, e.Reason, e.Excerpt)
}

// Decode parses wire text into a Message. The delimiter set is read from the
// MSH segment itself, so messages using non-standard delimiters decode
// correctly. \r, \n and \r\n are all accepted as segment terminators.
func Decode(text string) (*Message, error) {
	lines := splitSegments(text)
	if len(lines) == 0 {
		return nil, &ParseError{Reason: "message is empty"}
	}

	head := lines[0]
	if len(head) < minHeaderLen || head[:3] != HeaderCode {
		return nil, &ParseError{
			SegmentIndex: 0,
			Excerpt:      excerpt(head),
			Reason:       "first segment must be " + HeaderCode,
		}
	}

	enc := head[4:8]
	d := Delimiters{
		Field:        head[3],
		Component:    enc[0],
		Repetition:   enc[1],
		Escape:       enc[2],
		Subcomponent: enc[3],
	}

	m := NewMessage(d)
	for i, line := range lines {
		seg, err := decodeSegment(line, i, d)
		if err != nil {
			return nil, err
		}
		m.Append(seg)
	}
	return m, nil
}

// splitSegments normalizes terminators to \r and drops blank lines.
func splitSegments(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\r")
	text = strings.ReplaceAll(text, "\n", "\r")
	var out []string
	for _, line := range strings.Split(text, "\r") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func decodeSegment(line string, index int, d Delimiters) (*Segment, error) {
	if len(line) < 3 {
		return nil, &ParseError{SegmentIndex: index, Excerpt: excerpt(line), Reason: "segment too short"}
	}
	code := line[:3]
	seg := NewSegment(code)
	sep := string(d.Field)

	if code == HeaderCode {
		// MSH-1 is the separator character and MSH-2 the encoding
		// characters; the split applies from MSH-3 on.
		seg.SetField(1, sep)
		if len(line) < minHeaderLen {
			return nil, &ParseError{SegmentIndex: index, Excerpt: excerpt(line), Reason: "header segment too short"}
		}
		seg.SetField(2, line[4:8])
		rest := line[8:]
		if rest == "" {
			return seg, nil
		}
		if rest[0] == d.Field {
			rest = rest[1:]
		}
		for i, f := range strings.Split(rest, sep) {
			seg.SetField(3+i, f)
		}
		return seg, nil
	}

	if len(line) > 3 && line[3] != d.Field {
		return nil, &ParseError{SegmentIndex: index, Excerpt: excerpt(line), Reason: "segment code not followed by field separator"}
	}
	if len(line) > 4 {
		for i, f := range strings.Split(line[4:], sep) {
			seg.SetField(1+i, f)
		}
	}
	return seg, nil
}

func excerpt(line string) string {
	const max = 24
	if len(line) > max {
		return line[:max] + "..."
	}
	return line
}
