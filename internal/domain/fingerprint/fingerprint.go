// Package fingerprint identifies the originating system of a message from
// its header. It extracts a vendor signature from raw message text, scores
// it against known vendor configurations, and can learn a new configuration
// from a batch of sample messages. Every call is a single-shot computation;
// the engine holds no state between calls.
package fingerprint

// StandardHL7v2 is the standard label carried by configurations this
// engine can score against.
const StandardHL7v2 = "HL7v2"

// VendorSignature is the distinguishing header content of one message.
type VendorSignature struct {
	Name            string  `json:"name,omitempty"`
	SendingApp      string  `json:"sending_app,omitempty"`
	SendingFacility string  `json:"sending_facility,omitempty"`
	Version         string  `json:"version,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// VendorAddress locates a configuration: which vendor, which messaging
// standard, and the message type it is most representative of.
type VendorAddress struct {
	Vendor      string `json:"vendor"`
	Standard    string `json:"standard"`
	MessageType string `json:"message_type,omitempty"`
}

// VendorConfiguration is a learned or pre-built profile of one vendor's
// messaging habits. The engine consumes a list of these when scoring and
// produces one when learning; both directions share this shape, and the
// whole value serializes to JSON for external storage.
type VendorConfiguration struct {
	Address   VendorAddress   `json:"address"`
	Signature VendorSignature `json:"signature"`

	// FieldOccupancy maps segment code to the fraction of observed
	// occurrences carrying a value at each field position.
	FieldOccupancy map[string]map[int]float64 `json:"field_occupancy,omitempty"`

	// MessageTypes maps an observed message type ("ADT^A01") to its
	// fraction of the learned samples.
	MessageTypes map[string]float64 `json:"message_types,omitempty"`

	Confidence  float64 `json:"confidence"`
	SampleCount int     `json:"sample_count"`
}

// Candidate pairs a configuration with its score for one message.
type Candidate struct {
	Config *VendorConfiguration `json:"config"`
	Score  float64              `json:"score"`
}
