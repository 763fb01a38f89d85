package compose

import (
	"strconv"
	"strings"

	"github.com/hl7kit/hl7kit/internal/platform/defs"
	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

// binding maps a schema field to a value derived from the clinical inputs.
// The mapping is a fixed structural convention per segment and position,
// so the same input always lands in the same field. An
// empty return means the field has no bound value and resolution moves on
// to the value source.
func (st *composition) binding(code string, f defs.SegmentField, ordinal int, obs *Observation) string {
	switch code {
	case wire.HeaderCode:
		return st.headerBinding(f.Position)
	case "EVN":
		switch f.Position {
		case 1:
			return st.trigger
		case 2:
			return wire.FormatTimestamp(st.now)
		}
	case "PID":
		return st.patientBinding(f.Position)
	case "PV1":
		return st.visitBinding(f.Position, ordinal)
	case "ORC":
		return st.orderControlBinding(f.Position)
	case "OBR":
		return st.orderBinding(f.Position, ordinal)
	case "OBX":
		return st.observationBinding(f.Position, ordinal, obs)
	case "RXE":
		return st.prescriptionBinding(f.Position)
	}
	return st.conventionBinding(f, ordinal)
}

func (st *composition) headerBinding(pos int) string {
	switch pos {
	case 1:
		return string(st.delims.Field)
	case 2:
		return st.delims.Encoding()
	case 3:
		return st.esc(st.opts.sendingApp())
	case 4:
		return st.esc(st.opts.sendingFacility())
	case 5:
		return st.esc(st.opts.receivingApp())
	case 6:
		return st.esc(st.opts.receivingFacility())
	case 7:
		return wire.FormatTimestamp(st.now)
	case 9:
		if st.trigger == "" {
			return st.msgCode
		}
		return st.msgCode + st.comp() + st.trigger
	case 10:
		return st.controlID
	case 11:
		return st.opts.processingID()
	case 12:
		return st.version
	}
	return ""
}

func (st *composition) patientBinding(pos int) string {
	p := st.in.Patient
	switch pos {
	case 1:
		return "1"
	case 3:
		if p == nil || p.MRN == "" {
			return ""
		}
		return st.esc(p.MRN) + st.comp() + st.comp() + st.comp() + "HOSP" + st.comp() + "MR"
	case 5:
		if p == nil || (p.FamilyName == "" && p.GivenName == "") {
			return ""
		}
		name := st.esc(p.FamilyName) + st.comp() + st.esc(p.GivenName)
		if p.MiddleName != "" {
			name += st.comp() + st.esc(p.MiddleName)
		}
		return name
	case 7:
		if p == nil {
			return ""
		}
		return p.BirthDate
	case 8:
		if p == nil {
			return ""
		}
		return p.Sex
	case 11:
		if p == nil || p.Address == nil {
			return ""
		}
		a := p.Address
		return st.esc(a.Street) + st.comp() + st.comp() + st.esc(a.City) + st.comp() + st.esc(a.State) + st.comp() + st.esc(a.Zip)
	case 13:
		if p == nil {
			return ""
		}
		return st.esc(p.Phone)
	}
	return ""
}

func (st *composition) visitBinding(pos, ordinal int) string {
	e := st.in.Encounter
	switch pos {
	case 1:
		return strconv.Itoa(ordinal)
	case 2:
		if e == nil {
			return ""
		}
		return e.Class
	case 3:
		if e == nil {
			return ""
		}
		return st.esc(e.Location)
	case 7:
		if e == nil || (e.AttendingID == "" && e.AttendingFamily == "") {
			return ""
		}
		return st.esc(e.AttendingID) + st.comp() + st.esc(e.AttendingFamily) + st.comp() + st.esc(e.AttendingGiven)
	}
	return ""
}

func (st *composition) orderControlBinding(pos int) string {
	o := st.in.Order
	switch pos {
	case 1:
		if o == nil {
			return ""
		}
		if o.Control != "" {
			return o.Control
		}
		return "NW"
	case 2:
		if o == nil {
			return ""
		}
		return st.esc(o.PlacerID)
	case 3:
		if o == nil {
			return ""
		}
		return st.esc(o.FillerID)
	case 9:
		return wire.FormatTimestamp(st.now)
	}
	return ""
}

func (st *composition) orderBinding(pos, ordinal int) string {
	o := st.in.Order
	switch pos {
	case 1:
		return strconv.Itoa(ordinal)
	case 2:
		if o == nil {
			return ""
		}
		return st.esc(o.PlacerID)
	case 3:
		if o == nil {
			return ""
		}
		return st.esc(o.FillerID)
	case 4:
		if o == nil {
			return ""
		}
		return st.codedEntry(o.ServiceCode, o.ServiceName, o.CodingSystem)
	case 7:
		return wire.FormatTimestamp(st.now)
	}
	return ""
}

func (st *composition) observationBinding(pos, ordinal int, obs *Observation) string {
	switch pos {
	case 1:
		return strconv.Itoa(ordinal)
	case 2:
		if obs == nil {
			return ""
		}
		if obs.ValueType != "" {
			return obs.ValueType
		}
		return "NM"
	case 3:
		if obs == nil {
			return ""
		}
		return st.codedEntry(obs.Code, obs.Name, obs.CodingSystem)
	case 5:
		if obs == nil {
			return ""
		}
		return st.esc(obs.Value)
	case 6:
		if obs == nil {
			return ""
		}
		return st.esc(obs.Units)
	case 7:
		if obs == nil {
			return ""
		}
		return st.esc(obs.Range)
	case 11:
		if obs == nil {
			return ""
		}
		if obs.Status != "" {
			return obs.Status
		}
		return "F"
	}
	return ""
}

func (st *composition) prescriptionBinding(pos int) string {
	rx := st.in.Prescription
	if rx == nil {
		return ""
	}
	switch pos {
	case 2:
		return st.codedEntry(rx.DrugCode, rx.DrugName, rx.CodingSystem)
	case 3:
		return st.esc(rx.Dose)
	case 5:
		if rx.DoseUnits == "" {
			return ""
		}
		return st.esc(rx.DoseUnits) + st.comp() + st.comp() + "L"
	case 6:
		return st.esc(rx.Form)
	}
	return ""
}

// conventionBinding covers segments with no positional table: set-id fields
// take the occurrence ordinal, and name fields bind to patient name parts.
func (st *composition) conventionBinding(f defs.SegmentField, ordinal int) string {
	if f.DataType == "SI" && strings.HasPrefix(f.Name, "Set ID") {
		return strconv.Itoa(ordinal)
	}
	if p := st.in.Patient; p != nil {
		switch {
		case strings.Contains(f.Name, "Family Name"):
			return st.esc(p.FamilyName)
		case strings.Contains(f.Name, "Given Name"):
			return st.esc(p.GivenName)
		case f.DataType == "XPN" && p.FamilyName != "":
			return st.esc(p.FamilyName) + st.comp() + st.esc(p.GivenName)
		}
	}
	return ""
}

func (st *composition) codedEntry(code, text, system string) string {
	if code == "" {
		return ""
	}
	return st.esc(code) + st.comp() + st.esc(text) + st.comp() + st.esc(system)
}

func (st *composition) esc(s string) string {
	return st.delims.EscapeText(s)
}

func (st *composition) comp() string {
	return string(st.delims.Component)
}
