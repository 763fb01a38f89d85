package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

// Score weights. A perfect match on all four signals sums to 1.0; signals
// combine additively so one strong match is never erased by weak absences.
const (
	weightName     = 0.40
	weightApp      = 0.30
	weightFacility = 0.20
	weightType     = 0.10
)

// defaultMinScore is the ranking cutoff below which a candidate is not
// worth reporting.
const defaultMinScore = 0.25

// Engine extracts signatures and scores them against known vendor
// configurations.
type Engine struct {
	rules    Rules
	minScore float64
	logger   zerolog.Logger
}

// NewEngine returns an Engine using the given name-inference rules; nil
// falls back to the built-in rule table.
func NewEngine(rules Rules, logger zerolog.Logger) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules, minScore: defaultMinScore, logger: logger}
}

// CanFingerprint is the fast-reject gate: true only when the text starts
// with a header segment of plausible shape, a non-alphanumeric field
// delimiter at the fixed position followed by four distinct encoding
// characters.
func (e *Engine) CanFingerprint(text string) bool {
	if len(text) < 8 || !strings.HasPrefix(text, wire.HeaderCode) {
		return false
	}
	sep := text[3]
	if isAlnum(sep) || sep == '\r' || sep == '\n' {
		return false
	}
	for i := 4; i < 8; i++ {
		c := text[i]
		if isAlnum(c) || c == sep || c == '\r' || c == '\n' {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// genericIdentity holds header values too generic to count toward
// signature confidence.
var genericIdentity = map[string]bool{
	"":         true,
	"UNKNOWN":  true,
	"SENDER":   true,
	"SENDING":  true,
	"APP":      true,
	"FACILITY": true,
	"HL7":      true,
}

// ExtractSignature reads the sending application, facility and version from
// the header, infers the vendor name via the rule table, and grades its own
// confidence by how much distinguishing identity the header carries.
func (e *Engine) ExtractSignature(text string) (VendorSignature, error) {
	if !e.CanFingerprint(text) {
		return VendorSignature{}, fmt.Errorf("fingerprint: text has no recognizable header")
	}
	msg, err := wire.Decode(text)
	if err != nil {
		return VendorSignature{}, err
	}
	h, err := msg.Header()
	if err != nil {
		return VendorSignature{}, err
	}

	return e.signatureOf(h), nil
}

func (e *Engine) signatureOf(h wire.Header) VendorSignature {
	sig := VendorSignature{
		SendingApp:      h.SendingApp,
		SendingFacility: h.SendingFac,
		Version:         h.Version,
		Name:            e.rules.Infer(h.SendingApp, h.SendingFac),
	}
	sig.Confidence = 0.3
	if !genericIdentity[strings.ToUpper(sig.SendingApp)] {
		sig.Confidence += 0.3
	}
	if !genericIdentity[strings.ToUpper(sig.SendingFacility)] {
		sig.Confidence += 0.3
	}
	return sig
}

// messageTypeOf returns the "code^trigger" form of the message type.
func messageTypeOf(msg *wire.Message) string {
	code, trigger := msg.MessageType()
	if trigger == "" {
		return code
	}
	return code + "^" + trigger
}

// ScoreAgainst scores the message text against one known configuration.
// The result is always in [0,1].
func (e *Engine) ScoreAgainst(text string, cfg *VendorConfiguration) (float64, error) {
	sig, err := e.ExtractSignature(text)
	if err != nil {
		return 0, err
	}
	msg, err := wire.Decode(text)
	if err != nil {
		return 0, err
	}
	return e.score(sig, messageTypeOf(msg), cfg), nil
}

func (e *Engine) score(sig VendorSignature, msgType string, cfg *VendorConfiguration) float64 {
	score := 0.0
	if sig.Name != "" && strings.EqualFold(sig.Name, cfg.Address.Vendor) {
		score += weightName
	}
	if sig.SendingApp != "" && strings.EqualFold(sig.SendingApp, cfg.Signature.SendingApp) {
		score += weightApp
	}
	if facilityMatches(sig.SendingFacility, cfg.Signature.SendingFacility) {
		score += weightFacility
	}
	if _, ok := cfg.MessageTypes[msgType]; ok && msgType != "" {
		score += weightType
	}
	return score
}

// facilityMatches allows substring containment in either direction, since
// facilities often carry site suffixes ("MERCY" vs "MERCY-EAST").
func facilityMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// RankCandidates scores the text against every configuration whose standard
// matches, drops scores below the minimum threshold, and returns the rest
// descending by score, ties broken by higher sample count. An empty list is
// a valid outcome, not an error.
func (e *Engine) RankCandidates(text string, configs []*VendorConfiguration) ([]Candidate, error) {
	sig, err := e.ExtractSignature(text)
	if err != nil {
		return nil, err
	}
	msg, err := wire.Decode(text)
	if err != nil {
		return nil, err
	}
	msgType := messageTypeOf(msg)

	var out []Candidate
	for _, cfg := range configs {
		if cfg == nil || !strings.EqualFold(cfg.Address.Standard, StandardHL7v2) {
			continue
		}
		s := e.score(sig, msgType, cfg)
		if s < e.minScore {
			continue
		}
		out = append(out, Candidate{Config: cfg, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Config.SampleCount > out[j].Config.SampleCount
	})

	e.logger.Debug().
		Str("vendor", sig.Name).
		Int("candidates", len(out)).
		Msg("ranked vendor candidates")

	return out, nil
}

// LoadConfigurations reads a configuration registry from a JSON file.
func LoadConfigurations(path string) ([]*VendorConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: read configurations: %w", err)
	}
	var configs []*VendorConfiguration
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("fingerprint: parse configurations %s: %w", path, err)
	}
	return configs, nil
}

// SaveConfigurations writes a configuration registry to a JSON file.
func SaveConfigurations(path string, configs []*VendorConfiguration) error {
	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return fmt.Errorf("fingerprint: encode configurations: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fingerprint: write configurations: %w", err)
	}
	return nil
}
