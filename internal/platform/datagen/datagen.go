// Package datagen produces realistic field content for message composition.
// The composer treats a Source as a black box: it hands over the field's
// data-type code, the referenced code table when there is one, and a
// deterministic random source, and receives opaque text back.
package datagen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hl7kit/hl7kit/internal/platform/defs"
)

// Request describes the field a value is needed for.
type Request struct {
	DataType    string
	Table       *defs.TableDefinition // nil when the field has no table reference
	SegmentCode string
	Position    int
	FieldName   string
	MaxLength   int

	// Rand is the caller's random source. Compositions with a fixed seed
	// pass a source derived from that seed, which makes every drawn value
	// reproducible.
	Rand *rand.Rand
}

// Source generates field content on demand.
type Source interface {
	ValueFor(req Request) (string, error)
}

// Generator is the default Source. It draws demographic values from a
// Datasets provider and synthesizes the rest per data type.
type Generator struct {
	data Datasets
}

// NewGenerator returns a Generator over the given datasets; nil falls back
// to the embedded datasets.
func NewGenerator(data Datasets) *Generator {
	if data == nil {
		data = Embedded()
	}
	return &Generator{data: data}
}

// referenceTime anchors generated timestamps so seeded compositions never
// depend on the wall clock.
var referenceTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// ValueFor implements Source.
func (g *Generator) ValueFor(req Request) (string, error) {
	if req.Rand == nil {
		return "", fmt.Errorf("datagen: request for %s-%d has no random source", req.SegmentCode, req.Position)
	}

	v := g.generate(req)
	if req.MaxLength > 0 && len(v) > req.MaxLength {
		v = v[:req.MaxLength]
	}
	return v, nil
}

func (g *Generator) generate(req Request) string {
	r := req.Rand

	// A table reference wins regardless of data type: the legal values are
	// exactly the table's codes.
	if req.Table != nil && len(req.Table.Entries) > 0 {
		entry := req.Table.Entries[r.Intn(len(req.Table.Entries))]
		if req.DataType == "CE" {
			return fmt.Sprintf("%s^%s^L", entry.Code, entry.Description)
		}
		return entry.Code
	}

	switch req.DataType {
	case "SI":
		return "1"
	case "NM":
		return fmt.Sprintf("%d.%d", r.Intn(200), r.Intn(10))
	case "DTM", "TS", "DT":
		t := referenceTime.Add(-time.Duration(r.Intn(365*24)) * time.Hour)
		if req.DataType == "DT" {
			return t.Format("20060102")
		}
		return t.Format("20060102150405")
	case "CX":
		return fmt.Sprintf("MRN%06d^^^HOSP^MR", r.Intn(1000000))
	case "XPN":
		return pick(r, g.data.FamilyNames()) + "^" + pick(r, g.data.GivenNames())
	case "XAD":
		city := pick(r, g.data.Cities())
		state := pick(r, g.data.States())
		return fmt.Sprintf("%d %s^^%s^%s^%05d", 100+r.Intn(9900), pick(r, g.data.Streets()), city, state, 10000+r.Intn(89999))
	case "XTN":
		return fmt.Sprintf("555-%03d-%04d", r.Intn(1000), r.Intn(10000))
	case "XCN":
		return fmt.Sprintf("%d^%s^%s", 1000+r.Intn(9000), pick(r, g.data.FamilyNames()), pick(r, g.data.GivenNames()))
	case "HD":
		return "HL7KIT"
	case "EI":
		return fmt.Sprintf("ORD%06d", r.Intn(1000000))
	case "CE":
		return fmt.Sprintf("%04d-%d^Generated Concept^L", r.Intn(10000), r.Intn(10))
	case "PT":
		return "P"
	case "VID":
		return "2.5.1"
	case "PL":
		return fmt.Sprintf("%s^%d^%c", pick(r, wards), 100+r.Intn(400), 'A'+rune(r.Intn(4)))
	case "ID", "IS":
		// Coded field without a table reference; nothing sensible to draw.
		return ""
	case "ST", "TX", "FT":
		return pick(r, sampleText)
	default:
		return ""
	}
}

func pick(r *rand.Rand, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[r.Intn(len(values))]
}

var wards = []string{"ICU", "MED", "SURG", "ER", "PEDS"}

var sampleText = []string{
	"ROUTINE", "FOLLOW UP", "SEE NOTES", "NO KNOWN ALLERGIES", "STABLE",
}
