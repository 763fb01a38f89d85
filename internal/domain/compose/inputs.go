package compose

// Inputs bundles the clinical value objects a composition draws from. Every
// part is optional; segments whose inputs are absent fall back to the value
// source for required fields.
type Inputs struct {
	Patient      *Patient
	Encounter    *Encounter
	Order        *Order
	Observations []Observation
	Prescription *Prescription
}

// Patient carries patient demographics. Dates use HL7 form (YYYYMMDD).
type Patient struct {
	MRN        string
	FamilyName string
	GivenName  string
	MiddleName string
	BirthDate  string
	Sex        string
	Address    *Address
	Phone      string
}

// Address is mapped to the XAD wire shape street^^city^state^zip.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Encounter carries visit data for the PV1 segment.
type Encounter struct {
	Class           string // patient class code, e.g. "I"
	Location        string
	AttendingID     string
	AttendingFamily string
	AttendingGiven  string
}

// Order carries order data for the ORC and OBR segments.
type Order struct {
	Control      string // order control code; defaults to "NW"
	PlacerID     string
	FillerID     string
	ServiceCode  string
	ServiceName  string
	CodingSystem string
}

// Observation carries one result for an OBX segment.
type Observation struct {
	ValueType    string // OBX-2, defaults to "NM"
	Code         string
	Name         string
	CodingSystem string
	Value        string
	Units        string
	Range        string
	Status       string // OBX-11, defaults to "F"
}

// Prescription carries medication data for the RXE segment.
type Prescription struct {
	DrugCode     string
	DrugName     string
	CodingSystem string
	Dose         string
	DoseUnits    string
	Form         string
}
