// Package validate checks messages against the structural definitions in
// the definition store and reports typed issues. Content problems never
// fail the call; they come back as issues with a severity. Validation is a
// pure read over the message.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hl7kit/hl7kit/internal/platform/defs"
	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

// Mode selects how tolerant validation is.
type Mode string

const (
	// Strict flags every deviation from the definitions as an error.
	Strict Mode = "strict"
	// Compatibility downgrades tolerable deviations to warnings.
	Compatibility Mode = "compatibility"
	// Lenient reports only deviations that break structural integrity.
	Lenient Mode = "lenient"
)

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case Strict:
		return Strict, nil
	case Compatibility:
		return Compatibility, nil
	case Lenient:
		return Lenient, nil
	}
	return "", fmt.Errorf("validate: unknown mode %q", s)
}

// Severity of an issue. Error outranks Warning outranks Info.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank returns the ordering weight of the severity.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Issue codes.
const (
	CodeMissingHeader  = "missing-header"
	CodeUnknownSegment = "unknown-segment"
	CodeExtraFields    = "extra-fields"
	CodeRequiredEmpty  = "required-empty"
	CodeTooLong        = "too-long"
	CodeInvalid        = "code-invalid"
)

// Issue is one validation finding.
type Issue struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	FieldPath string   `json:"field_path,omitempty"`
	Severity  Severity `json:"severity"`
}

// Result is the outcome of one validation run.
type Result struct {
	Mode   Mode    `json:"mode"`
	Issues []Issue `json:"issues"`
}

// IsValid reports whether the message passed: no Error-severity issues.
// Warnings do not invalidate a message.
func (r Result) IsValid() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// CountBySeverity returns how many issues carry the given severity.
func (r Result) CountBySeverity(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// Validator checks messages against the definition store.
type Validator struct {
	store  defs.Store
	logger zerolog.Logger
}

// NewValidator returns a Validator over the given definition store.
func NewValidator(store defs.Store, logger zerolog.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// Validate runs the structural and field-level checks for the given mode.
// It returns an error only when the input is so corrupt that no message can
// be identified at all (nil, no segments, or no header segment anywhere);
// every content problem becomes an issue in the result.
func (v *Validator) Validate(msg *wire.Message, mode Mode) (Result, error) {
	if msg == nil || len(msg.Segments) == 0 {
		return Result{}, fmt.Errorf("validate: message is empty")
	}
	if msg.Segment(wire.HeaderCode) == nil {
		return Result{}, fmt.Errorf("validate: no %s segment found", wire.HeaderCode)
	}

	res := Result{Mode: mode}
	if msg.Segments[0].Code != wire.HeaderCode {
		res.Issues = append(res.Issues, Issue{
			Code:     CodeMissingHeader,
			Message:  fmt.Sprintf("first segment is %s, expected %s", msg.Segments[0].Code, wire.HeaderCode),
			Severity: SeverityError,
		})
	}

	for _, seg := range msg.Segments {
		v.checkSegment(msg, seg, mode, &res)
	}

	v.logger.Debug().
		Str("mode", string(mode)).
		Int("issues", len(res.Issues)).
		Bool("valid", res.IsValid()).
		Msg("validated message")

	return res, nil
}

func (v *Validator) checkSegment(msg *wire.Message, seg *wire.Segment, mode Mode, res *Result) {
	schema, err := v.store.Segment(seg.Code)
	if err != nil {
		if errors.Is(err, defs.ErrNotFound) {
			if sev, ok := severityFor(mode, SeverityError, SeverityWarning); ok {
				res.Issues = append(res.Issues, Issue{
					Code:      CodeUnknownSegment,
					Message:   fmt.Sprintf("no schema for segment %s", seg.Code),
					FieldPath: seg.Code,
					Severity:  sev,
				})
			}
			return
		}
		// A failing store is not a property of the message; report it as
		// an unknown segment at warning level and keep going.
		res.Issues = append(res.Issues, Issue{
			Code:      CodeUnknownSegment,
			Message:   fmt.Sprintf("segment %s: definition lookup failed: %v", seg.Code, err),
			FieldPath: seg.Code,
			Severity:  SeverityWarning,
		})
		return
	}

	if max := schema.MaxPosition(); seg.FieldCount() > max {
		if sev, ok := severityFor(mode, SeverityError, SeverityWarning); ok {
			res.Issues = append(res.Issues, Issue{
				Code:      CodeExtraFields,
				Message:   fmt.Sprintf("segment %s has %d fields, schema declares %d", seg.Code, seg.FieldCount(), max),
				FieldPath: seg.Code,
				Severity:  sev,
			})
		}
	}

	for _, f := range schema.Fields {
		if seg.Code == wire.HeaderCode && f.Position <= 2 {
			// MSH-1 and MSH-2 are the delimiters themselves.
			continue
		}
		v.checkField(msg, seg, f, mode, res)
	}
}

func (v *Validator) checkField(msg *wire.Message, seg *wire.Segment, f defs.SegmentField, mode Mode, res *Result) {
	path := seg.Code + "-" + strconv.Itoa(f.Position)
	value := seg.Field(f.Position)

	if value == "" {
		if f.Required() {
			res.Issues = append(res.Issues, Issue{
				Code:      CodeRequiredEmpty,
				Message:   fmt.Sprintf("required field %s (%s) is empty", path, f.Name),
				FieldPath: path,
				Severity:  SeverityError,
			})
		}
		return
	}

	if f.MaxLength > 0 && len(value) > f.MaxLength {
		if sev, ok := severityFor(mode, SeverityError, SeverityWarning); ok {
			res.Issues = append(res.Issues, Issue{
				Code:      CodeTooLong,
				Message:   fmt.Sprintf("field %s is %d characters, maximum is %d", path, len(value), f.MaxLength),
				FieldPath: path,
				Severity:  sev,
			})
		}
	}

	if f.TableID != 0 && mode != Lenient {
		v.checkTableValue(msg, seg, f, path, mode, res)
	}
}

// checkTableValue verifies the coded value (the first component of the
// first repetition) against the referenced table. Closed tables flag
// stronger than user-definable ones, and Compatibility downgrades both.
func (v *Validator) checkTableValue(msg *wire.Message, seg *wire.Segment, f defs.SegmentField, path string, mode Mode, res *Result) {
	table, err := v.store.Table(f.TableID)
	if err != nil {
		return
	}
	code := seg.Component(f.Position, 1, msg.Delims)
	if code == "" || table.Contains(code) {
		return
	}

	var sev Severity
	switch {
	case mode == Strict && table.Closed():
		sev = SeverityError
	case mode == Strict:
		sev = SeverityWarning
	case table.Closed():
		sev = SeverityWarning
	default:
		sev = SeverityInfo
	}
	res.Issues = append(res.Issues, Issue{
		Code:      CodeInvalid,
		Message:   fmt.Sprintf("value %q of %s not in table %04d (%s)", code, path, table.ID, table.Name),
		FieldPath: path,
		Severity:  sev,
	})
}

// severityFor picks the severity of a mode-dependent check: strict and
// compatibility levels are given, Lenient drops the issue.
func severityFor(mode Mode, strict, compat Severity) (Severity, bool) {
	switch mode {
	case Strict:
		return strict, true
	case Compatibility:
		return compat, true
	default:
		return "", false
	}
}
