// Package compose builds populated messages from trigger-event definitions.
// Any message type is composed by interpreting its trigger event's
// segment/group tree against externally supplied schemas; there are no
// per-message-type builders.
package compose

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hl7kit/hl7kit/internal/platform/datagen"
	"github.com/hl7kit/hl7kit/internal/platform/defs"
	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

// referenceTime stamps messages composed without UseCurrentTime, so seeded
// compositions are reproducible byte for byte.
var referenceTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Composer builds messages from trigger-event definitions. It is stateless;
// concurrent Compose calls share nothing but the definition store.
type Composer struct {
	store  defs.Store
	values datagen.Source
	logger zerolog.Logger
}

// NewComposer returns a Composer over the given definition store and value
// source. A nil source falls back to the default generator with embedded
// datasets.
func NewComposer(store defs.Store, values datagen.Source, logger zerolog.Logger) *Composer {
	if values == nil {
		values = datagen.NewGenerator(nil)
	}
	return &Composer{store: store, values: values, logger: logger}
}

// Compose builds a message for the given trigger-event code ("ADT_A01" or
// "ADT^A01") from the supplied clinical inputs. A required field that no
// resolution source can fill aborts the whole composition with a
// *ComposeError naming the field path.
func (c *Composer) Compose(eventCode string, in Inputs, opts Options) (*wire.Message, error) {
	ev, err := c.store.TriggerEvent(eventCode)
	if err != nil {
		return nil, err
	}
	roots, err := defs.BuildTree(ev)
	if err != nil {
		return nil, err
	}

	st := newComposition(c, ev, in, opts)
	if err := st.walk(roots); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("event", ev.Code).
		Int("segments", len(st.msg.Segments)).
		Bool("seeded", opts.Seeded).
		Msg("composed message")

	return st.msg, nil
}

// composition is the per-call state of one Compose invocation.
type composition struct {
	c      *Composer
	in     Inputs
	opts   Options
	delims wire.Delimiters

	rng       *rand.Rand
	now       time.Time
	controlID string
	msgCode   string
	trigger   string
	version   string

	msg    *wire.Message
	setIDs map[string]int
	obxIdx int
}

func newComposition(c *Composer, ev *defs.TriggerEvent, in Inputs, opts Options) *composition {
	st := &composition{
		c:      c,
		in:     in,
		opts:   opts,
		delims: opts.delimiters(),
		setIDs: make(map[string]int),
	}

	if opts.Seeded {
		st.rng = rand.New(rand.NewSource(opts.Seed))
		st.controlID = fmt.Sprintf("MSG%08d", st.rng.Int63n(100000000))
	} else {
		st.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		id := uuid.New()
		st.controlID = fmt.Sprintf("MSG%X", id[:8])
	}

	if opts.UseCurrentTime {
		st.now = time.Now().UTC()
	} else {
		st.now = referenceTime
	}

	parts := strings.SplitN(defs.NormalizeEventCode(ev.Code), "_", 2)
	st.msgCode = parts[0]
	if len(parts) > 1 {
		st.trigger = parts[1]
	}
	st.version = opts.version(ev.Version)

	st.msg = wire.NewMessage(st.delims)
	return st
}

func (st *composition) walk(nodes []*defs.Node) error {
	for _, n := range nodes {
		reps := st.repetitions(n)
		for i := 0; i < reps; i++ {
			if n.IsGroup() {
				if err := st.walk(n.Children); err != nil {
					return err
				}
				continue
			}
			if err := st.emitSegment(n.SegmentCode); err != nil {
				return err
			}
		}
	}
	return nil
}

// repetitions decides how many times a node is emitted: an explicit request
// wins, then the matching input list's length, then one occurrence for
// required nodes. Optional nodes with no applicable input data are skipped
// entirely rather than emitted as empty placeholders.
func (st *composition) repetitions(n *defs.Node) int {
	if r, ok := st.opts.Repetitions[n.Name()]; ok {
		if r < 0 {
			r = 0
		}
		if r > 1 && !n.Repeats() {
			r = 1
		}
		return r
	}
	if n.Repeats() {
		if count := st.dataCount(n.SegmentCode); count > 1 {
			return count
		}
	}
	if n.Required() {
		return 1
	}
	if st.hasData(n) || st.opts.IncludeOptional {
		return 1
	}
	return 0
}

// dataCount returns the repetition count implied by the inputs, or -1.
func (st *composition) dataCount(segmentCode string) int {
	if segmentCode == "OBX" {
		return len(st.in.Observations)
	}
	return -1
}

// hasData reports whether the inputs carry anything for the node; groups
// have data when any descendant segment does.
func (st *composition) hasData(n *defs.Node) bool {
	if n.IsGroup() {
		for _, child := range n.Children {
			if st.hasData(child) {
				return true
			}
		}
		return false
	}
	switch n.SegmentCode {
	case "PID":
		return st.in.Patient != nil
	case "PV1":
		return st.in.Encounter != nil
	case "ORC", "OBR":
		return st.in.Order != nil
	case "OBX":
		return len(st.in.Observations) > 0
	case "RXE":
		return st.in.Prescription != nil
	default:
		return false
	}
}

func (st *composition) emitSegment(code string) error {
	schema, err := st.c.store.Segment(code)
	if err != nil {
		return err
	}

	st.setIDs[schema.Code]++
	ordinal := st.setIDs[schema.Code]

	var obs *Observation
	if schema.Code == "OBX" && st.obxIdx < len(st.in.Observations) {
		obs = &st.in.Observations[st.obxIdx]
		st.obxIdx++
	}

	seg := wire.NewSegment(schema.Code)
	for _, f := range schema.Fields {
		if f.Optionality == defs.Excluded {
			continue
		}
		path := schema.Code + "-" + strconv.Itoa(f.Position)

		value, err := st.resolve(schema.Code, f, ordinal, obs, path)
		if err != nil {
			return err
		}
		if value == "" {
			if f.Required() {
				return &ComposeError{FieldPath: path, Reason: "required field could not be resolved"}
			}
			continue
		}
		if err := seg.SetField(f.Position, value); err != nil {
			return err
		}
	}

	st.msg.Append(seg)
	return nil
}

// resolve works through the resolution priority: pinned value, input
// binding, value source, empty.
func (st *composition) resolve(code string, f defs.SegmentField, ordinal int, obs *Observation, path string) (string, error) {
	if pinned, ok := st.opts.Pins[path]; ok {
		return pinned, nil
	}

	if v := st.binding(code, f, ordinal, obs); v != "" {
		return v, nil
	}

	if !f.Required() && !st.opts.IncludeOptional {
		return "", nil
	}

	table, err := st.lookupTable(f.TableID)
	if err != nil {
		return "", err
	}
	v, err := st.c.values.ValueFor(datagen.Request{
		DataType:    f.DataType,
		Table:       table,
		SegmentCode: code,
		Position:    f.Position,
		FieldName:   f.Name,
		MaxLength:   f.MaxLength,
		Rand:        st.rng,
	})
	if err != nil {
		return "", fmt.Errorf("compose: field %s: %w", path, err)
	}
	return v, nil
}

func (st *composition) lookupTable(id int) (*defs.TableDefinition, error) {
	if id == 0 {
		return nil, nil
	}
	table, err := st.c.store.Table(id)
	if err != nil {
		if errors.Is(err, defs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return table, nil
}
