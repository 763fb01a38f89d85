// Package wire implements the HL7 v2 wire representation: the
// segment/field/component message model and the bidirectional text codec,
// including delimiter escaping. Both directions are pure functions over
// their input plus the message's delimiter set.
package wire

import (
	"fmt"
	"strings"
	"time"
)

// HeaderCode is the segment code every message must start with.
const HeaderCode = "MSH"

// Message is an ordered sequence of segments. The first segment of a
// well-formed message is always MSH.
type Message struct {
	Delims   Delimiters
	Segments []*Segment
}

// NewMessage returns an empty message using the given delimiter set.
func NewMessage(d Delimiters) *Message {
	return &Message{Delims: d}
}

// Append adds a segment to the end of the message.
func (m *Message) Append(seg *Segment) {
	m.Segments = append(m.Segments, seg)
}

// Segment returns the first segment with the given code, or nil.
func (m *Message) Segment(code string) *Segment {
	for _, s := range m.Segments {
		if s.Code == code {
			return s
		}
	}
	return nil
}

// SegmentsByCode returns all segments with the given code, in order.
func (m *Message) SegmentsByCode(code string) []*Segment {
	var out []*Segment
	for _, s := range m.Segments {
		if s.Code == code {
			out = append(out, s)
		}
	}
	return out
}

// Segment is a named, ordered group of fields. Fields are addressed with
// HL7's 1-based numbering; position 0 is the segment code itself and is not
// settable. Field values are stored in wire form: components, repetitions and
// escape sequences appear exactly as they do on the wire.
type Segment struct {
	Code   string
	fields []string // fields[i] holds field i+1
}

// NewSegment returns an empty segment with the given 3-character code.
func NewSegment(code string) *Segment {
	return &Segment{Code: code}
}

// SetField sets the wire-form value of the field at the given 1-based
// position, growing the field list as needed. Position 0 is reserved for the
// segment code.
func (s *Segment) SetField(pos int, value string) error {
	if pos < 1 {
		return fmt.Errorf("wire: %s field position %d is reserved", s.Code, pos)
	}
	for len(s.fields) < pos {
		s.fields = append(s.fields, "")
	}
	s.fields[pos-1] = value
	return nil
}

// Field returns the wire-form value of the field at the given 1-based
// position, or "" if it was never set.
func (s *Segment) Field(pos int) string {
	if pos < 1 || pos > len(s.fields) {
		return ""
	}
	return s.fields[pos-1]
}

// FieldCount returns the highest field position that has been set.
func (s *Segment) FieldCount() int {
	return len(s.fields)
}

// IsEmpty reports whether every field beyond the segment code is empty.
// For MSH the delimiter fields (MSH-1, MSH-2) do not count as content.
func (s *Segment) IsEmpty() bool {
	start := 0
	if s.Code == HeaderCode {
		start = 2
	}
	for i := start; i < len(s.fields); i++ {
		if s.fields[i] != "" {
			return false
		}
	}
	return true
}

// FieldParts is a field broken into its repetitions and components.
// Leaf values are unescaped.
type FieldParts struct {
	Value      string     // unescaped whole-field value
	Components []string   // components of the first repetition
	Repeats    [][]string // every repetition, each split into components
}

// Parts parses the field at the given 1-based position into repetitions,
// components and subcomponent-carrying leaves, unescaping each leaf.
func (s *Segment) Parts(pos int, d Delimiters) FieldParts {
	raw := s.Field(pos)
	p := FieldParts{Value: d.UnescapeText(raw)}
	for _, rep := range strings.Split(raw, string(d.Repetition)) {
		comps := strings.Split(rep, string(d.Component))
		for i, c := range comps {
			comps[i] = d.UnescapeText(c)
		}
		p.Repeats = append(p.Repeats, comps)
	}
	if len(p.Repeats) > 0 {
		p.Components = p.Repeats[0]
	}
	return p
}

// Component returns the unescaped component at the given 1-based field and
// component positions, or "" when out of range.
func (s *Segment) Component(fieldPos, compPos int, d Delimiters) string {
	p := s.Parts(fieldPos, d)
	if compPos < 1 || compPos > len(p.Components) {
		return ""
	}
	return p.Components[compPos-1]
}

// Header holds the commonly used MSH fields of a message.
type Header struct {
	SendingApp   string // MSH-3
	SendingFac   string // MSH-4
	ReceivingApp string // MSH-5
	ReceivingFac string // MSH-6
	Timestamp    time.Time
	Type         string // MSH-9, e.g. "ADT^A01"
	ControlID    string // MSH-10
	Version      string // MSH-12
}

// Header extracts the MSH fields. It fails when the message has no MSH
// segment.
func (m *Message) Header() (Header, error) {
	msh := m.Segment(HeaderCode)
	if msh == nil {
		return Header{}, fmt.Errorf("wire: %s segment not found", HeaderCode)
	}
	h := Header{
		SendingApp:   msh.Field(3),
		SendingFac:   msh.Field(4),
		ReceivingApp: msh.Field(5),
		ReceivingFac: msh.Field(6),
		Type:         msh.Field(9),
		ControlID:    msh.Field(10),
		Version:      msh.Field(12),
	}
	if ts := msh.Field(7); ts != "" {
		if t, err := ParseTimestamp(ts); err == nil {
			h.Timestamp = t
		}
	}
	return h, nil
}

// MessageType returns the MSH-9 message code and trigger event, e.g.
// ("ADT", "A01"). Missing parts come back empty.
func (m *Message) MessageType() (code, trigger string) {
	msh := m.Segment(HeaderCode)
	if msh == nil {
		return "", ""
	}
	code = msh.Component(9, 1, m.Delims)
	trigger = msh.Component(9, 2, m.Delims)
	return code, trigger
}

// PatientID returns PID-3.1, the first component of the patient identifier.
func (m *Message) PatientID() string {
	pid := m.Segment("PID")
	if pid == nil {
		return ""
	}
	return pid.Component(3, 1, m.Delims)
}

// PatientName returns the family and given name components of PID-5.
func (m *Message) PatientName() (family, given string) {
	pid := m.Segment("PID")
	if pid == nil {
		return "", ""
	}
	return pid.Component(5, 1, m.Delims), pid.Component(5, 2, m.Delims)
}
