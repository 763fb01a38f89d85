package wire

import "strings"

// Delimiters holds the five encoding characters of a message. HL7 allows a
// sender to pick its own characters in MSH-1 and MSH-2, so these are carried
// as a value on every Message rather than as package constants.
type Delimiters struct {
	Field        byte
	Component    byte
	Repetition   byte
	Escape       byte
	Subcomponent byte
}

// DefaultDelimiters returns the conventional HL7 delimiter set: |^~\&.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Field:        '|',
		Component:    '^',
		Repetition:   '~',
		Escape:       '\\',
		Subcomponent: '&',
	}
}

// Encoding returns the MSH-2 encoding characters (component, repetition,
// escape, subcomponent), e.g. "^~\&".
func (d Delimiters) Encoding() string {
	return string([]byte{d.Component, d.Repetition, d.Escape, d.Subcomponent})
}

// escape codes defined by the standard; the surrounding introducer is the
// configured escape character.
//
//	F = field separator
//	S = component separator
//	R = repetition separator
//	E = escape character
//	T = subcomponent separator
//	X = hexadecimal data
const (
	escField        = 'F'
	escComponent    = 'S'
	escRepetition   = 'R'
	escEscape       = 'E'
	escSubcomponent = 'T'
	escHex          = 'X'
)

// EscapeText replaces every delimiter character occurring literally in s with
// its escape sequence, so the result can be embedded in a field without
// shifting positions. The escape character itself is replaced first to avoid
// double-escaping.
func (d Delimiters) EscapeText(s string) string {
	if !strings.ContainsAny(s, string([]byte{d.Field, d.Component, d.Repetition, d.Escape, d.Subcomponent})) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case d.Escape:
			b.WriteByte(d.Escape)
			b.WriteByte(escEscape)
			b.WriteByte(d.Escape)
		case d.Field:
			b.WriteByte(d.Escape)
			b.WriteByte(escField)
			b.WriteByte(d.Escape)
		case d.Component:
			b.WriteByte(d.Escape)
			b.WriteByte(escComponent)
			b.WriteByte(d.Escape)
		case d.Repetition:
			b.WriteByte(d.Escape)
			b.WriteByte(escRepetition)
			b.WriteByte(d.Escape)
		case d.Subcomponent:
			b.WriteByte(d.Escape)
			b.WriteByte(escSubcomponent)
			b.WriteByte(d.Escape)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// UnescapeText reverses EscapeText. It also decodes \Xdd..\ hexadecimal
// escapes produced by other systems. Sequences it does not recognize are kept
// verbatim so that lossy input is never silently dropped.
func (d Delimiters) UnescapeText(s string) string {
	if strings.IndexByte(s, d.Escape) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != d.Escape {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i+1:], d.Escape)
		if end < 0 {
			// Dangling introducer; keep the rest as-is.
			b.WriteString(s[i:])
			break
		}
		body := s[i+1 : i+1+end]
		if decoded, ok := d.decodeEscape(body); ok {
			b.WriteString(decoded)
		} else {
			b.WriteString(s[i : i+1+end+1])
		}
		i += end + 2
	}
	return b.String()
}

func (d Delimiters) decodeEscape(body string) (string, bool) {
	if len(body) == 1 {
		switch body[0] {
		case escField:
			return string(d.Field), true
		case escComponent:
			return string(d.Component), true
		case escRepetition:
			return string(d.Repetition), true
		case escEscape:
			return string(d.Escape), true
		case escSubcomponent:
			return string(d.Subcomponent), true
		}
		return "", false
	}
	if len(body) >= 3 && body[0] == escHex && len(body)%2 == 1 {
		raw := make([]byte, 0, (len(body)-1)/2)
		for i := 1; i < len(body); i += 2 {
			hi, ok1 := hexVal(body[i])
			lo, ok2 := hexVal(body[i+1])
			if !ok1 || !ok2 {
				return "", false
			}
			raw = append(raw, hi<<4|lo)
		}
		return string(raw), true
	}
	return "", false
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
