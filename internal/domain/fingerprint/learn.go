package fingerprint

import (
	"errors"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

// ErrNoValidMessages is returned when no input sample passes the
// fingerprint gate.
var ErrNoValidMessages = errors.New("fingerprint: no valid messages in sample set")

// LearnOptions tunes a learning run.
type LearnOptions struct {
	// Workers bounds the parallel extraction phase; zero uses one worker
	// per CPU.
	Workers int
}

// Confidence bounds for learned configurations: the consistency ratio of
// the winning vendor group is scaled into [learnedConfFloor,
// learnedConfFloor+learnedConfSpan] so confidence never claims certainty.
const (
	learnedConfFloor = 0.2
	learnedConfSpan  = 0.7
)

// sampleProfile is one sample's contribution to the learned configuration.
type sampleProfile struct {
	sig       VendorSignature
	msgType   string
	occupancy map[string]*segmentStats
}

// segmentStats counts occurrences of one segment code and how often each
// field position carried a value.
type segmentStats struct {
	occurrences int
	filled      map[int]int
}

// LearnFromSamples aggregates signatures and field occupancy across the
// fingerprint-able samples, groups them by inferred vendor, and returns a
// configuration derived from the largest group. Extraction runs as a
// parallel map over the samples followed by a sequential reduce; input
// order never affects the result.
func (e *Engine) LearnFromSamples(samples []string, opts LearnOptions) (*VendorConfiguration, error) {
	profiles := e.profileAll(samples, opts.Workers)

	var valid []*sampleProfile
	for _, p := range profiles {
		if p != nil {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidMessages
	}

	groups := make(map[string][]*sampleProfile)
	for _, p := range valid {
		groups[groupKey(p.sig)] = append(groups[groupKey(p.sig)], p)
	}
	winner := largestGroup(groups)
	group := groups[winner]

	cfg := reduceGroup(group)
	cfg.SampleCount = len(valid)
	ratio := float64(len(group)) / float64(len(valid))
	cfg.Confidence = learnedConfFloor + learnedConfSpan*ratio

	e.logger.Info().
		Str("vendor", cfg.Address.Vendor).
		Int("samples", len(valid)).
		Int("group", len(group)).
		Float64("confidence", cfg.Confidence).
		Msg("learned vendor configuration")

	return cfg, nil
}

// profileAll extracts a profile per sample on a bounded worker pool.
// Unusable samples leave a nil slot.
func (e *Engine) profileAll(samples []string, workers int) []*sampleProfile {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(samples) {
		workers = len(samples)
	}

	profiles := make([]*sampleProfile, len(samples))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				profiles[i] = e.profile(samples[i])
			}
		}()
	}
	for i := range samples {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return profiles
}

// profile extracts one sample's profile, or nil when the sample does not
// pass the fingerprint gate or cannot be decoded.
func (e *Engine) profile(text string) *sampleProfile {
	if !e.CanFingerprint(text) {
		return nil
	}
	msg, err := wire.Decode(text)
	if err != nil {
		return nil
	}
	h, err := msg.Header()
	if err != nil {
		return nil
	}

	p := &sampleProfile{
		sig:       e.signatureOf(h),
		msgType:   messageTypeOf(msg),
		occupancy: make(map[string]*segmentStats),
	}
	for _, seg := range msg.Segments {
		st := p.occupancy[seg.Code]
		if st == nil {
			st = &segmentStats{filled: make(map[int]int)}
			p.occupancy[seg.Code] = st
		}
		st.occurrences++
		for pos := 1; pos <= seg.FieldCount(); pos++ {
			if seg.Field(pos) != "" {
				st.filled[pos]++
			}
		}
	}
	return p
}

// groupKey groups signatures by inferred vendor name, falling back to the
// sending application when no rule matched.
func groupKey(sig VendorSignature) string {
	if sig.Name != "" {
		return strings.ToUpper(sig.Name)
	}
	return strings.ToUpper(sig.SendingApp)
}

// largestGroup picks the biggest group, with a lexicographic tie-break so
// the result does not depend on map iteration order.
func largestGroup(groups map[string][]*sampleProfile) string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if len(groups[k]) > len(groups[best]) {
			best = k
		}
	}
	return best
}

// reduceGroup folds one vendor group into a configuration: the most common
// value wins for each signature field, and occupancy counts become
// frequencies.
func reduceGroup(group []*sampleProfile) *VendorConfiguration {
	apps := make(map[string]int)
	facilities := make(map[string]int)
	versions := make(map[string]int)
	names := make(map[string]int)
	types := make(map[string]int)
	confSum := 0.0
	occ := make(map[string]*segmentStats)

	for _, p := range group {
		apps[p.sig.SendingApp]++
		facilities[p.sig.SendingFacility]++
		versions[p.sig.Version]++
		if p.sig.Name != "" {
			names[p.sig.Name]++
		}
		if p.msgType != "" {
			types[p.msgType]++
		}
		confSum += p.sig.Confidence

		for code, st := range p.occupancy {
			agg := occ[code]
			if agg == nil {
				agg = &segmentStats{filled: make(map[int]int)}
				occ[code] = agg
			}
			agg.occurrences += st.occurrences
			for pos, n := range st.filled {
				agg.filled[pos] += n
			}
		}
	}

	sig := VendorSignature{
		Name:            mostCommon(names),
		SendingApp:      mostCommon(apps),
		SendingFacility: mostCommon(facilities),
		Version:         mostCommon(versions),
		Confidence:      confSum / float64(len(group)),
	}
	vendor := sig.Name
	if vendor == "" {
		vendor = sig.SendingApp
	}

	typeFreq := make(map[string]float64, len(types))
	for t, n := range types {
		typeFreq[t] = float64(n) / float64(len(group))
	}

	occupancy := make(map[string]map[int]float64, len(occ))
	for code, st := range occ {
		freq := make(map[int]float64, len(st.filled))
		for pos, n := range st.filled {
			freq[pos] = float64(n) / float64(st.occurrences)
		}
		occupancy[code] = freq
	}

	return &VendorConfiguration{
		Address: VendorAddress{
			Vendor:      vendor,
			Standard:    StandardHL7v2,
			MessageType: mostCommon(types),
		},
		Signature:      sig,
		FieldOccupancy: occupancy,
		MessageTypes:   typeFreq,
	}
}

// mostCommon returns the highest-count key, ties broken lexicographically.
func mostCommon(counts map[string]int) string {
	best, bestN := "", -1
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}
