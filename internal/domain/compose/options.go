package compose

import "github.com/hl7kit/hl7kit/internal/platform/wire"

// Options controls one composition.
type Options struct {
	// Seed makes every value drawn from the value source reproducible:
	// two compositions with the same seed and inputs encode to identical
	// text. Seeded is the explicit opt-in flag so a zero seed stays usable.
	Seed   int64
	Seeded bool

	// UseCurrentTime stamps MSH-7 and other timestamps with the wall clock
	// instead of the reproducible reference time.
	UseCurrentTime bool

	// IncludeOptional also fills optional fields from the value source
	// instead of leaving them empty.
	IncludeOptional bool

	// Repetitions requests a repetition count per repeatable segment code
	// or group name. Unlisted repeatable entries default to one occurrence
	// (or to the length of the matching input list, e.g. observations).
	Repetitions map[string]int

	// Pins supply explicit values for exact field paths, e.g.
	// "PID-18" or "PV1-2". A pin wins over every other resolution source.
	Pins map[string]string

	// Header identity; empty values fall back to engine defaults.
	SendingApp        string
	SendingFacility   string
	ReceivingApp      string
	ReceivingFacility string
	ProcessingID      string
	Version           string

	// Delimiters overrides the conventional delimiter set.
	Delimiters *wire.Delimiters
}

// Engine defaults for header identity fields.
const (
	defaultSendingApp   = "HL7KIT"
	defaultSendingFac   = "HL7KITFAC"
	defaultReceivingApp = "RECEIVER"
	defaultReceivingFac = "RECFAC"
	defaultProcessingID = "P"
	defaultVersion      = "2.5.1"
)

func (o Options) sendingApp() string {
	if o.SendingApp != "" {
		return o.SendingApp
	}
	return defaultSendingApp
}

func (o Options) sendingFacility() string {
	if o.SendingFacility != "" {
		return o.SendingFacility
	}
	return defaultSendingFac
}

func (o Options) receivingApp() string {
	if o.ReceivingApp != "" {
		return o.ReceivingApp
	}
	return defaultReceivingApp
}

func (o Options) receivingFacility() string {
	if o.ReceivingFacility != "" {
		return o.ReceivingFacility
	}
	return defaultReceivingFac
}

func (o Options) processingID() string {
	if o.ProcessingID != "" {
		return o.ProcessingID
	}
	return defaultProcessingID
}

func (o Options) version(eventVersion string) string {
	if o.Version != "" {
		return o.Version
	}
	if eventVersion != "" {
		return eventVersion
	}
	return defaultVersion
}

func (o Options) delimiters() wire.Delimiters {
	if o.Delimiters != nil {
		return *o.Delimiters
	}
	return wire.DefaultDelimiters()
}
