package defs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a definition lookup has no match. Callers can
// always recover, e.g. by treating the message type as unsupported.
var ErrNotFound = errors.New("definition not found")

// Store is the read-only lookup contract the engine consumes.
type Store interface {
	// Segment returns the schema for a 3-character segment code.
	Segment(code string) (*SegmentSchema, error)
	// Table returns the code table with the given numeric id.
	Table(id int) (*TableDefinition, error)
	// TriggerEvent returns the trigger event definition for a code such as
	// "ADT_A01" ("ADT^A01" is accepted as an alias).
	TriggerEvent(code string) (*TriggerEvent, error)
}

// NormalizeEventCode maps the MSH-9 form of a message type ("ADT^A01") to
// the definition key form ("ADT_A01").
func NormalizeEventCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(code, "^", "_"))
}

// Definition file names expected inside a definitions directory.
const (
	segmentsFile      = "segments.json"
	tablesFile        = "tables.json"
	triggerEventsFile = "trigger_events.json"
	dataTypesFile     = "data_types.json"
)

// FileStore serves definitions from the scraped JSON record files in a
// directory. Records are indexed once at load time but decoded per lookup;
// wrap a FileStore in a CachedStore to avoid repeated decoding on hot codes.
type FileStore struct {
	segments  map[string]json.RawMessage
	tables    map[int]json.RawMessage
	events    map[string]json.RawMessage
	dataTypes map[string]DataType
}

// NewFileStore loads the definition files from dir. The data-types file is
// optional; the other three must be present.
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{
		segments:  make(map[string]json.RawMessage),
		tables:    make(map[int]json.RawMessage),
		events:    make(map[string]json.RawMessage),
		dataTypes: make(map[string]DataType),
	}

	if err := indexByCode(filepath.Join(dir, segmentsFile), s.segments); err != nil {
		return nil, err
	}
	if err := indexByCode(filepath.Join(dir, triggerEventsFile), s.events); err != nil {
		return nil, err
	}
	if err := s.indexTables(filepath.Join(dir, tablesFile)); err != nil {
		return nil, err
	}

	if raw, err := os.ReadFile(filepath.Join(dir, dataTypesFile)); err == nil {
		var types []DataType
		if err := json.Unmarshal(raw, &types); err != nil {
			return nil, fmt.Errorf("defs: parse %s: %w", dataTypesFile, err)
		}
		for _, dt := range types {
			s.dataTypes[dt.Code] = dt
		}
	}

	return s, nil
}

func indexByCode(path string, index map[string]json.RawMessage) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("defs: read %s: %w", filepath.Base(path), err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("defs: parse %s: %w", filepath.Base(path), err)
	}
	for _, rec := range records {
		var envelope struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(rec, &envelope); err != nil || envelope.Code == "" {
			return fmt.Errorf("defs: %s: record missing code", filepath.Base(path))
		}
		index[strings.ToUpper(envelope.Code)] = rec
	}
	return nil
}

func (s *FileStore) indexTables(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("defs: read %s: %w", tablesFile, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("defs: parse %s: %w", tablesFile, err)
	}
	for _, rec := range records {
		var envelope struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(rec, &envelope); err != nil || envelope.ID == 0 {
			return fmt.Errorf("defs: %s: record missing id", tablesFile)
		}
		s.tables[envelope.ID] = rec
	}
	return nil
}

// Segment implements Store.
func (s *FileStore) Segment(code string) (*SegmentSchema, error) {
	rec, ok := s.segments[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("defs: segment %q: %w", code, ErrNotFound)
	}
	var schema SegmentSchema
	if err := json.Unmarshal(rec, &schema); err != nil {
		return nil, fmt.Errorf("defs: segment %q: %w", code, err)
	}
	return &schema, nil
}

// Table implements Store.
func (s *FileStore) Table(id int) (*TableDefinition, error) {
	rec, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("defs: table %d: %w", id, ErrNotFound)
	}
	var table TableDefinition
	if err := json.Unmarshal(rec, &table); err != nil {
		return nil, fmt.Errorf("defs: table %d: %w", id, err)
	}
	return &table, nil
}

// TriggerEvent implements Store.
func (s *FileStore) TriggerEvent(code string) (*TriggerEvent, error) {
	rec, ok := s.events[NormalizeEventCode(code)]
	if !ok {
		return nil, fmt.Errorf("defs: trigger event %q: %w", code, ErrNotFound)
	}
	var ev TriggerEvent
	if err := json.Unmarshal(rec, &ev); err != nil {
		return nil, fmt.Errorf("defs: trigger event %q: %w", code, err)
	}
	return &ev, nil
}

// DataTypeName returns the display name for a data-type code when the
// optional data-types file was loaded.
func (s *FileStore) DataTypeName(code string) (string, bool) {
	dt, ok := s.dataTypes[code]
	return dt.Name, ok
}

// StaticStore serves definitions from in-memory maps. It backs the built-in
// starter definitions and test fixtures.
type StaticStore struct {
	segments map[string]*SegmentSchema
	tables   map[int]*TableDefinition
	events   map[string]*TriggerEvent
}

// NewStaticStore builds a store over the given definitions.
func NewStaticStore(segments []*SegmentSchema, tables []*TableDefinition, events []*TriggerEvent) *StaticStore {
	s := &StaticStore{
		segments: make(map[string]*SegmentSchema, len(segments)),
		tables:   make(map[int]*TableDefinition, len(tables)),
		events:   make(map[string]*TriggerEvent, len(events)),
	}
	for _, seg := range segments {
		s.segments[strings.ToUpper(seg.Code)] = seg
	}
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	for _, ev := range events {
		s.events[NormalizeEventCode(ev.Code)] = ev
	}
	return s
}

// Segment implements Store.
func (s *StaticStore) Segment(code string) (*SegmentSchema, error) {
	if seg, ok := s.segments[strings.ToUpper(code)]; ok {
		return seg, nil
	}
	return nil, fmt.Errorf("defs: segment %q: %w", code, ErrNotFound)
}

// Table implements Store.
func (s *StaticStore) Table(id int) (*TableDefinition, error) {
	if t, ok := s.tables[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("defs: table %s: %w", strconv.Itoa(id), ErrNotFound)
}

// TriggerEvent implements Store.
func (s *StaticStore) TriggerEvent(code string) (*TriggerEvent, error) {
	if ev, ok := s.events[NormalizeEventCode(code)]; ok {
		return ev, nil
	}
	return nil, fmt.Errorf("defs: trigger event %q: %w", code, ErrNotFound)
}
