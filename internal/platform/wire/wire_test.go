package wire

import (
	"strings"
	"testing"
)

// =========== Sample Messages ===========

const sampleADT = "MSH|^~\\&|SendingApp|SendingFac|ReceivingApp|ReceivingFac|20240115143025||ADT^A01|MSG00001|P|2.5.1\rEVN|A01|20240115143025\rPID|1||MRN12345^^^MRNAuth||Doe^John^A||19800515|M|||123 Main St^^Springfield^IL^62701||555-555-1234\rPV1|1|I|ICU^101^A||||1234^Smith^Robert|||MED"

const sampleORU = "MSH|^~\\&|LabSystem|LabFac|EHR|EHRFac|20240115150000||ORU^R01|MSG00002|P|2.5.1\rPID|1||MRN12345^^^MRNAuth||Doe^John||19800515|M\rOBR|1|ORD001|LAB001|85025^CBC^LN|||20240115140000\rOBX|1|NM|718-7^Hemoglobin^LN||13.5|g/dL|12.0-17.5|N|||F\rOBX|2|NM|4544-3^Hematocrit^LN||40.1|%|36.0-53.0|N|||F"

// =========== Decode ===========

func TestDecode_Header(t *testing.T) {
	msg, err := Decode(sampleADT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := msg.Header()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Type != "ADT^A01" {
		t.Errorf("expected Type 'ADT^A01', got %q", h.Type)
	}
	if h.ControlID != "MSG00001" {
		t.Errorf("expected ControlID 'MSG00001', got %q", h.ControlID)
	}
	if h.Version != "2.5.1" {
		t.Errorf("expected Version '2.5.1', got %q", h.Version)
	}
	if h.SendingApp != "SendingApp" {
		t.Errorf("expected SendingApp 'SendingApp', got %q", h.SendingApp)
	}
	if h.SendingFac != "SendingFac" {
		t.Errorf("expected SendingFac 'SendingFac', got %q", h.SendingFac)
	}
	if h.Timestamp.Year() != 2024 || int(h.Timestamp.Month()) != 1 || h.Timestamp.Day() != 15 {
		t.Errorf("unexpected timestamp: %v", h.Timestamp)
	}
}

func TestDecode_SegmentOrder(t *testing.T) {
	msg, err := Decode(sampleADT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := []string{"MSH", "EVN", "PID", "PV1"}
	if len(msg.Segments) != len(names) {
		t.Fatalf("expected %d segments, got %d", len(names), len(msg.Segments))
	}
	for i, name := range names {
		if msg.Segments[i].Code != name {
			t.Errorf("expected segment %d to be %q, got %q", i, name, msg.Segments[i].Code)
		}
	}
}

func TestDecode_PatientFields(t *testing.T) {
	msg, err := Decode(sampleADT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := msg.PatientID(); got != "MRN12345" {
		t.Errorf("expected PatientID 'MRN12345', got %q", got)
	}
	family, given := msg.PatientName()
	if family != "Doe" || given != "John" {
		t.Errorf("expected Doe/John, got %q/%q", family, given)
	}
}

func TestDecode_RepeatingSegments(t *testing.T) {
	msg, err := Decode(sampleORU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obx := msg.SegmentsByCode("OBX")
	if len(obx) != 2 {
		t.Fatalf("expected 2 OBX segments, got %d", len(obx))
	}
	if got := obx[1].Field(5); got != "40.1" {
		t.Errorf("expected OBX-5 '40.1', got %q", got)
	}
}

func TestDecode_LineEndings(t *testing.T) {
	for _, tt := range []struct {
		name string
		sep  string
	}{
		{"carriage return", "\r"},
		{"newline", "\n"},
		{"crlf", "\r\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.ReplaceAll(sampleADT, "\r", tt.sep)
			msg, err := Decode(text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(msg.Segments) != 4 {
				t.Errorf("expected 4 segments, got %d", len(msg.Segments))
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"whitespace only", "  \r\n  "},
		{"no MSH", "PID|1||MRN12345\rPV1|1|I"},
		{"short header", "MSH|^~"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestDecode_AlternateDelimiters(t *testing.T) {
	msg, err := Decode("MSH#$~\\&#App#Fac#RApp#RFac#20240101000000##ADT$A01#C1#P#2.4\rPID#1##ID1##Doe$Jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Delims.Field != '#' || msg.Delims.Component != '$' {
		t.Fatalf("unexpected delimiters: %+v", msg.Delims)
	}
	family, given := msg.PatientName()
	if family != "Doe" || given != "Jane" {
		t.Errorf("expected Doe/Jane, got %q/%q", family, given)
	}
}

// =========== Encode ===========

func TestEncode_RoundTrip(t *testing.T) {
	msg, err := Decode(sampleORU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := Encode(msg, EncodeOptions{})
	if out != sampleORU {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", out, sampleORU)
	}

	again, err := Decode(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again.Segments) != len(msg.Segments) {
		t.Fatalf("segment count changed: %d vs %d", len(again.Segments), len(msg.Segments))
	}
	for i := range msg.Segments {
		a, b := msg.Segments[i], again.Segments[i]
		if a.Code != b.Code || a.FieldCount() != b.FieldCount() {
			t.Fatalf("segment %d differs", i)
		}
		for p := 1; p <= a.FieldCount(); p++ {
			if a.Field(p) != b.Field(p) {
				t.Errorf("segment %d field %d: %q vs %q", i, p, a.Field(p), b.Field(p))
			}
		}
	}
}

func TestEncode_ElidesEmptySegments(t *testing.T) {
	msg, err := Decode(sampleADT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg.Append(NewSegment("NTE"))

	out := Encode(msg, EncodeOptions{})
	if strings.Contains(out, "NTE") {
		t.Error("empty segment should be elided")
	}

	out = Encode(msg, EncodeOptions{KeepEmptySegments: true})
	if !strings.Contains(out, "NTE") {
		t.Error("empty segment should be kept when requested")
	}
}

func TestEncode_InteriorEmptyFieldsKeepSlots(t *testing.T) {
	seg := NewSegment("PID")
	seg.SetField(3, "ID9")
	seg.SetField(8, "F")

	msg := NewMessage(DefaultDelimiters())
	msh := NewSegment("MSH")
	msh.SetField(9, "ADT^A01")
	msg.Append(msh)
	msg.Append(seg)

	out := Encode(msg, EncodeOptions{})
	lines := strings.Split(out, "\r")
	if lines[1] != "PID|||ID9|||||F" {
		t.Errorf("unexpected PID line: %q", lines[1])
	}
}

func TestSetField_ReservedPosition(t *testing.T) {
	seg := NewSegment("PID")
	if err := seg.SetField(0, "x"); err == nil {
		t.Error("expected error for position 0")
	}
}

// =========== Escaping ===========

func TestEscapeText_Closure(t *testing.T) {
	d := DefaultDelimiters()
	in := `value|with^every~special\char&inside`
	esc := d.EscapeText(in)
	if strings.ContainsAny(esc, "|^~&") {
		t.Errorf("escaped text still contains delimiters: %q", esc)
	}
	if got := d.UnescapeText(esc); got != in {
		t.Errorf("unescape(escape(s)) != s: got %q", got)
	}
}

func TestEscapeText_Sequences(t *testing.T) {
	d := DefaultDelimiters()
	for _, tt := range []struct {
		in, want string
	}{
		{"a|b", `a\F\b`},
		{"a^b", `a\S\b`},
		{"a~b", `a\R\b`},
		{"a&b", `a\T\b`},
		{`a\b`, `a\E\b`},
		{"plain", "plain"},
	} {
		if got := d.EscapeText(tt.in); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnescapeText_Hex(t *testing.T) {
	d := DefaultDelimiters()
	if got := d.UnescapeText(`a\X0D\b`); got != "a\rb" {
		t.Errorf("expected hex escape decoded, got %q", got)
	}
}

func TestUnescapeText_UnknownSequenceKept(t *testing.T) {
	d := DefaultDelimiters()
	if got := d.UnescapeText(`a\Z\b`); got != `a\Z\b` {
		t.Errorf("unknown sequence should be kept verbatim, got %q", got)
	}
}

// =========== Timestamps ===========

func TestParseTimestamp(t *testing.T) {
	for _, tt := range []struct {
		in      string
		wantDay int
		wantErr bool
	}{
		{"20240115143025", 15, false},
		{"202401151430", 15, false},
		{"20240115", 15, false},
		{"20240115143025.123-0500", 15, false},
		{"2024", 0, true},
	} {
		got, err := ParseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.Day() != tt.wantDay {
			t.Errorf("ParseTimestamp(%q): day = %d, want %d", tt.in, got.Day(), tt.wantDay)
		}
	}
}
