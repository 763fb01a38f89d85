// Package defs supplies the structural definitions the engine is driven by:
// segment schemas, code tables, data types and trigger events. Definitions
// are external data loaded from scraped JSON records; once loaded they are
// immutable, so lookups are safe to share across concurrent callers.
package defs

import "strconv"

// Optionality is the one-letter usage tag on a structural element.
type Optionality string

const (
	Required    Optionality = "R"
	Optional    Optionality = "O"
	Conditional Optionality = "C"
	Excluded    Optionality = "B"
)

// SegmentField describes one field position of a segment schema.
type SegmentField struct {
	Position      int         `json:"position"`
	Name          string      `json:"name"`
	DataType      string      `json:"data_type"`
	Optionality   Optionality `json:"optionality"`
	Repeatability string      `json:"repeatability"` // literal count, "*" for unbounded, "1" for single
	MaxLength     int         `json:"max_length"`
	TableID       int         `json:"table,omitempty"`
}

// Required reports whether the field must carry a value.
func (f SegmentField) Required() bool {
	return f.Optionality == Required
}

// Repeats reports whether more than one occurrence is allowed.
func (f SegmentField) Repeats() bool {
	return repeats(f.Repeatability)
}

// SegmentSchema is the external definition of one segment type.
type SegmentSchema struct {
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Fields      []SegmentField `json:"fields"`
}

// FieldAt returns the field definition at the given 1-based position, or nil.
func (s *SegmentSchema) FieldAt(pos int) *SegmentField {
	for i := range s.Fields {
		if s.Fields[i].Position == pos {
			return &s.Fields[i]
		}
	}
	return nil
}

// MaxPosition returns the highest declared field position.
func (s *SegmentSchema) MaxPosition() int {
	max := 0
	for _, f := range s.Fields {
		if f.Position > max {
			max = f.Position
		}
	}
	return max
}

// TableType distinguishes standard-defined (closed) tables from
// user-definable (open) ones.
type TableType string

const (
	TableHL7  TableType = "HL7"
	TableUser TableType = "User"
)

// TableEntry is one coded value of a table.
type TableEntry struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// TableDefinition is the external definition of one code table.
type TableDefinition struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Type    TableType    `json:"type"`
	Entries []TableEntry `json:"entries"`
}

// Closed reports whether the table's value set is fixed by the standard.
func (t *TableDefinition) Closed() bool {
	return t.Type == TableHL7
}

// Contains reports whether code is among the table's entries.
func (t *TableDefinition) Contains(code string) bool {
	for _, e := range t.Entries {
		if e.Code == code {
			return true
		}
	}
	return false
}

// DataType is the external definition of one HL7 data type.
type DataType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TriggerEventSegment is one entry in a trigger event's segment list. An
// entry with an empty SegmentCode is a group: a named, possibly repeating
// cluster whose members follow at Level+1.
type TriggerEventSegment struct {
	SegmentCode   string      `json:"segment,omitempty"`
	GroupName     string      `json:"group,omitempty"`
	Optionality   Optionality `json:"optionality"`
	Repeatability string      `json:"repeatability"`
	Level         int         `json:"level"`
	GroupPath     []string    `json:"group_path,omitempty"`
}

// IsGroup reports whether the entry names a group rather than a segment.
func (e TriggerEventSegment) IsGroup() bool {
	return e.SegmentCode == ""
}

// TriggerEvent is the external definition of one message type: which
// segments and groups, in what order and nesting, constitute it.
type TriggerEvent struct {
	Code     string                `json:"code"`
	Name     string                `json:"name"`
	Chapter  string                `json:"chapter,omitempty"`
	Version  string                `json:"version,omitempty"`
	Segments []TriggerEventSegment `json:"segments"`
}

func repeats(r string) bool {
	switch r {
	case "", "1":
		return false
	case "*":
		return true
	}
	n, err := strconv.Atoi(r)
	return err == nil && n > 1
}
