package validate

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hl7kit/hl7kit/internal/domain/compose"
	"github.com/hl7kit/hl7kit/internal/platform/defs"
	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

const cleanADT = "MSH|^~\\&|APP|FAC|RAPP|RFAC|20240601120000||ADT^A01|MSG001|P|2.5.1\r" +
	"EVN|A01|20240601120000\r" +
	"PID|1||MRN1^^^HOSP^MR||Smith^John||19800101|M\r" +
	"PV1|1|I\r"

var allModes = []Mode{Strict, Compatibility, Lenient}

func testValidator(t *testing.T) *Validator {
	t.Helper()
	return NewValidator(defs.Builtin(), zerolog.Nop())
}

func decode(t *testing.T, raw string) *wire.Message {
	t.Helper()
	msg, err := wire.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return msg
}

func findIssue(res Result, code, path string) *Issue {
	for i := range res.Issues {
		if res.Issues[i].Code == code && res.Issues[i].FieldPath == path {
			return &res.Issues[i]
		}
	}
	return nil
}

func TestValidateCleanMessage(t *testing.T) {
	v := testValidator(t)
	msg := decode(t, cleanADT)
	for _, mode := range allModes {
		res, err := v.Validate(msg, mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", mode, err)
		}
		if len(res.Issues) != 0 {
			t.Errorf("%s: got %d issues, want 0: %+v", mode, len(res.Issues), res.Issues)
		}
		if !res.IsValid() {
			t.Errorf("%s: IsValid = false", mode)
		}
	}
}

func TestValidateRequiredEmptyIsErrorInAllModes(t *testing.T) {
	v := testValidator(t)
	// PID-5 (the patient name) is required and left empty.
	raw := strings.Replace(cleanADT, "|Smith^John|", "||", 1)
	msg := decode(t, raw)
	for _, mode := range allModes {
		res, err := v.Validate(msg, mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", mode, err)
		}
		issue := findIssue(res, CodeRequiredEmpty, "PID-5")
		if issue == nil {
			t.Fatalf("%s: no required-empty issue for PID-5: %+v", mode, res.Issues)
		}
		if issue.Severity != SeverityError {
			t.Errorf("%s: severity = %s, want error", mode, issue.Severity)
		}
		if res.IsValid() {
			t.Errorf("%s: IsValid = true despite empty required field", mode)
		}
	}
}

func TestValidateExtraFieldsByMode(t *testing.T) {
	v := testValidator(t)
	// PV1 declares 7 positions; this segment carries 8.
	raw := strings.Replace(cleanADT, "PV1|1|I\r", "PV1|1|I||||||EXTRA\r", 1)
	msg := decode(t, raw)

	tests := []struct {
		mode Mode
		want Severity
		none bool
	}{
		{mode: Strict, want: SeverityError},
		{mode: Compatibility, want: SeverityWarning},
		{mode: Lenient, none: true},
	}
	for _, tt := range tests {
		res, err := v.Validate(msg, tt.mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", tt.mode, err)
		}
		issue := findIssue(res, CodeExtraFields, "PV1")
		if tt.none {
			if issue != nil {
				t.Errorf("%s: unexpected extra-fields issue: %+v", tt.mode, issue)
			}
			continue
		}
		if issue == nil {
			t.Fatalf("%s: no extra-fields issue: %+v", tt.mode, res.Issues)
		}
		if issue.Severity != tt.want {
			t.Errorf("%s: severity = %s, want %s", tt.mode, issue.Severity, tt.want)
		}
	}
}

func TestValidateLengthOverflowByMode(t *testing.T) {
	v := testValidator(t)
	// MSH-11 allows 3 characters.
	raw := strings.Replace(cleanADT, "|P|2.5.1", "|PRODUCTION|2.5.1", 1)
	msg := decode(t, raw)

	tests := []struct {
		mode Mode
		want Severity
		none bool
	}{
		{mode: Strict, want: SeverityError},
		{mode: Compatibility, want: SeverityWarning},
		{mode: Lenient, none: true},
	}
	for _, tt := range tests {
		res, err := v.Validate(msg, tt.mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", tt.mode, err)
		}
		issue := findIssue(res, CodeTooLong, "MSH-11")
		if tt.none {
			if issue != nil {
				t.Errorf("%s: unexpected too-long issue: %+v", tt.mode, issue)
			}
			continue
		}
		if issue == nil {
			t.Fatalf("%s: no too-long issue: %+v", tt.mode, res.Issues)
		}
		if issue.Severity != tt.want {
			t.Errorf("%s: severity = %s, want %s", tt.mode, issue.Severity, tt.want)
		}
	}
}

func TestValidateTableValues(t *testing.T) {
	v := testValidator(t)
	// PV1-2 references the standard-defined patient class table, PV1-4 the
	// user-definable admission type table; neither value is listed.
	raw := strings.Replace(cleanADT, "PV1|1|I\r", "PV1|1|Z||Q\r", 1)
	msg := decode(t, raw)

	tests := []struct {
		mode       Mode
		closedWant Severity
		openWant   Severity
		none       bool
	}{
		{mode: Strict, closedWant: SeverityError, openWant: SeverityWarning},
		{mode: Compatibility, closedWant: SeverityWarning, openWant: SeverityInfo},
		{mode: Lenient, none: true},
	}
	for _, tt := range tests {
		res, err := v.Validate(msg, tt.mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", tt.mode, err)
		}
		closed := findIssue(res, CodeInvalid, "PV1-2")
		open := findIssue(res, CodeInvalid, "PV1-4")
		if tt.none {
			if closed != nil || open != nil {
				t.Errorf("%s: unexpected table issues: %+v", tt.mode, res.Issues)
			}
			continue
		}
		if closed == nil || open == nil {
			t.Fatalf("%s: missing table issues: %+v", tt.mode, res.Issues)
		}
		if closed.Severity != tt.closedWant {
			t.Errorf("%s: closed-table severity = %s, want %s", tt.mode, closed.Severity, tt.closedWant)
		}
		if open.Severity != tt.openWant {
			t.Errorf("%s: open-table severity = %s, want %s", tt.mode, open.Severity, tt.openWant)
		}
	}
}

func TestValidateTableChecksCodedComponent(t *testing.T) {
	v := testValidator(t)
	// PID-10 is a coded entry against the race table; only the first
	// component is the code.
	raw := strings.Replace(cleanADT,
		"PID|1||MRN1^^^HOSP^MR||Smith^John||19800101|M\r",
		"PID|1||MRN1^^^HOSP^MR||Smith^John||19800101|M||2106-3^White^CDCREC\r", 1)
	msg := decode(t, raw)

	res, err := v.Validate(msg, Strict)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if issue := findIssue(res, CodeInvalid, "PID-10"); issue != nil {
		t.Errorf("valid coded component flagged: %+v", issue)
	}
}

func TestValidateUnknownSegmentByMode(t *testing.T) {
	v := testValidator(t)
	msg := decode(t, cleanADT+"ZZZ|1|custom\r")

	for _, tt := range []struct {
		mode Mode
		want Severity
		none bool
	}{
		{mode: Strict, want: SeverityError},
		{mode: Compatibility, want: SeverityWarning},
		{mode: Lenient, none: true},
	} {
		res, err := v.Validate(msg, tt.mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", tt.mode, err)
		}
		issue := findIssue(res, CodeUnknownSegment, "ZZZ")
		if tt.none {
			if issue != nil {
				t.Errorf("%s: unexpected unknown-segment issue", tt.mode)
			}
			if !res.IsValid() {
				t.Errorf("%s: IsValid = false", tt.mode)
			}
			continue
		}
		if issue == nil {
			t.Fatalf("%s: no unknown-segment issue: %+v", tt.mode, res.Issues)
		}
		if issue.Severity != tt.want {
			t.Errorf("%s: severity = %s, want %s", tt.mode, issue.Severity, tt.want)
		}
	}
}

func TestValidateHeaderNotFirst(t *testing.T) {
	v := testValidator(t)

	msg := wire.NewMessage(wire.DefaultDelimiters())
	pid := wire.NewSegment("PID")
	pid.SetField(1, "1")
	pid.SetField(3, "MRN1")
	pid.SetField(5, "Smith^John")
	msg.Append(pid)

	msh := wire.NewSegment("MSH")
	msh.SetField(1, "|")
	msh.SetField(2, `^~\&`)
	msh.SetField(7, "20240601120000")
	msh.SetField(9, "ADT^A01")
	msh.SetField(10, "MSG001")
	msh.SetField(11, "P")
	msh.SetField(12, "2.5.1")
	msg.Append(msh)

	res, err := v.Validate(msg, Lenient)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	issue := findIssue(res, CodeMissingHeader, "")
	if issue == nil {
		t.Fatalf("no missing-header issue: %+v", res.Issues)
	}
	if issue.Severity != SeverityError {
		t.Errorf("severity = %s, want error", issue.Severity)
	}
	if res.IsValid() {
		t.Error("IsValid = true with displaced header")
	}
}

func TestValidateFailsWithoutAnyHeader(t *testing.T) {
	v := testValidator(t)

	msg := wire.NewMessage(wire.DefaultDelimiters())
	pid := wire.NewSegment("PID")
	pid.SetField(1, "1")
	msg.Append(pid)

	if _, err := v.Validate(msg, Lenient); err == nil {
		t.Error("expected error for message with no MSH")
	}
	if _, err := v.Validate(nil, Lenient); err == nil {
		t.Error("expected error for nil message")
	}
	if _, err := v.Validate(wire.NewMessage(wire.DefaultDelimiters()), Lenient); err == nil {
		t.Error("expected error for empty message")
	}
}

// Modes must be monotone: loosening the mode never surfaces new issues.
func TestValidateModeMonotonicity(t *testing.T) {
	v := testValidator(t)
	raw := strings.Replace(cleanADT, "PV1|1|I\r", "PV1|1|Z||Q|||||EXTRA\r", 1)
	raw = strings.Replace(raw, "|P|2.5.1", "|PRODUCTION|2.5.1", 1)
	msg := decode(t, raw)

	counts := make(map[Mode]int)
	errCounts := make(map[Mode]int)
	for _, mode := range allModes {
		res, err := v.Validate(msg, mode)
		if err != nil {
			t.Fatalf("%s: Validate: %v", mode, err)
		}
		counts[mode] = len(res.Issues)
		errCounts[mode] = res.CountBySeverity(SeverityError)
	}
	if counts[Lenient] > counts[Compatibility] || counts[Compatibility] > counts[Strict] {
		t.Errorf("issue counts not monotone: lenient=%d compatibility=%d strict=%d",
			counts[Lenient], counts[Compatibility], counts[Strict])
	}
	if errCounts[Lenient] > errCounts[Compatibility] || errCounts[Compatibility] > errCounts[Strict] {
		t.Errorf("error counts not monotone: lenient=%d compatibility=%d strict=%d",
			errCounts[Lenient], errCounts[Compatibility], errCounts[Strict])
	}
}

func TestParseMode(t *testing.T) {
	for _, tt := range []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "strict", want: Strict},
		{in: "Compatibility", want: Compatibility},
		{in: "LENIENT", want: Lenient},
		{in: "loose", wantErr: true},
	} {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// Composed messages must validate cleanly under the strictest mode.
func TestValidateComposedMessageStrict(t *testing.T) {
	store := defs.Builtin()
	composer := compose.NewComposer(store, nil, zerolog.Nop())
	v := NewValidator(store, zerolog.Nop())

	msg, err := composer.Compose("ADT_A01", compose.Inputs{
		Patient: &compose.Patient{
			MRN: "MRN001", FamilyName: "Smith", GivenName: "John",
			BirthDate: "19800115", Sex: "M",
		},
		Encounter: &compose.Encounter{Class: "I", Location: "ICU^101^A"},
	}, compose.Options{Seed: 42, Seeded: true})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	decoded := decode(t, wire.Encode(msg, wire.EncodeOptions{}))
	res, err := v.Validate(decoded, Strict)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(res.Issues) != 0 {
		t.Errorf("composed message has %d issues in strict mode: %+v", len(res.Issues), res.Issues)
	}
}
