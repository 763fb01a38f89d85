package wire

import "strings"

// segmentTerminator is the output terminator. Decode also tolerates \n and
// \r\n, which some systems emit.
const segmentTerminator = "\r"

// EncodeOptions controls serialization.
type EncodeOptions struct {
	// KeepEmptySegments emits segments whose every field is empty instead of
	// eliding them.
	KeepEmptySegments bool
}

// Encode serializes the message to wire text. Segments are joined with the
// carriage-return terminator; fields with the message's field delimiter.
// Trailing unset fields are dropped from each segment while interior empty
// fields keep their slots, so field positions never shift.
func Encode(m *Message, opts EncodeOptions) string {
	var lines []string
	for _, seg := range m.Segments {
		if seg.IsEmpty() && seg.Code != HeaderCode && !opts.KeepEmptySegments {
			continue
		}
		lines = append(lines, encodeSegment(seg, m.Delims))
	}
	return strings.Join(lines, segmentTerminator)
}

func encodeSegment(seg *Segment, d Delimiters) string {
	sep := string(d.Field)
	fields := trimTrailingEmpty(seg.fields)

	if seg.Code == HeaderCode {
		// MSH-1 is the field separator itself and MSH-2 the encoding
		// characters; both are emitted from the delimiter set, and the
		// remaining fields follow from position 3.
		var b strings.Builder
		b.WriteString(seg.Code)
		b.WriteString(sep)
		b.WriteString(d.Encoding())
		for i := 2; i < len(fields); i++ {
			b.WriteString(sep)
			b.WriteString(fields[i])
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString(seg.Code)
	for _, f := range fields {
		b.WriteString(sep)
		b.WriteString(f)
	}
	return b.String()
}

func trimTrailingEmpty(fields []string) []string {
	end := len(fields)
	for end > 0 && fields[end-1] == "" {
		end--
	}
	return fields[:end]
}
