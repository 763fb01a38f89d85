package defs

// Builtin returns a store over the starter definition set shipped with the
// engine: the common segments, tables and trigger events needed to work
// offline before a full definitions directory has been downloaded. The set
// follows version 2.5.1 numbering.
func Builtin() *StaticStore {
	return NewStaticStore(builtinSegments(), builtinTables(), builtinTriggerEvents())
}

func builtinSegments() []*SegmentSchema {
	return []*SegmentSchema{
		{
			Code: "MSH", Name: "Message Header",
			Fields: []SegmentField{
				{Position: 1, Name: "Field Separator", DataType: "ST", Optionality: Required, Repeatability: "1", MaxLength: 1},
				{Position: 2, Name: "Encoding Characters", DataType: "ST", Optionality: Required, Repeatability: "1", MaxLength: 4},
				{Position: 3, Name: "Sending Application", DataType: "HD", Optionality: Optional, Repeatability: "1", MaxLength: 227},
				{Position: 4, Name: "Sending Facility", DataType: "HD", Optionality: Optional, Repeatability: "1", MaxLength: 227},
				{Position: 5, Name: "Receiving Application", DataType: "HD", Optionality: Optional, Repeatability: "1", MaxLength: 227},
				{Position: 6, Name: "Receiving Facility", DataType: "HD", Optionality: Optional, Repeatability: "1", MaxLength: 227},
				{Position: 7, Name: "Date/Time of Message", DataType: "DTM", Optionality: Required, Repeatability: "1", MaxLength: 24},
				{Position: 8, Name: "Security", DataType: "ST", Optionality: Optional, Repeatability: "1", MaxLength: 40},
				{Position: 9, Name: "Message Type", DataType: "MSG", Optionality: Required, Repeatability: "1", MaxLength: 15},
				{Position: 10, Name: "Message Control ID", DataType: "ST", Optionality: Required, Repeatability: "1", MaxLength: 20},
				{Position: 11, Name: "Processing ID", DataType: "PT", Optionality: Required, Repeatability: "1", MaxLength: 3},
				{Position: 12, Name: "Version ID", DataType: "VID", Optionality: Required, Repeatability: "1", MaxLength: 60},
			},
		},
		{
			Code: "EVN", Name: "Event Type",
			Fields: []SegmentField{
				{Position: 1, Name: "Event Type Code", DataType: "ID", Optionality: Optional, Repeatability: "1", MaxLength: 3, TableID: 3},
				{Position: 2, Name: "Recorded Date/Time", DataType: "DTM", Optionality: Required, Repeatability: "1", MaxLength: 24},
			},
		},
		{
			Code: "PID", Name: "Patient Identification",
			Fields: []SegmentField{
				{Position: 1, Name: "Set ID - PID", DataType: "SI", Optionality: Optional, Repeatability: "1", MaxLength: 4},
				{Position: 2, Name: "Patient ID", DataType: "CX", Optionality: Excluded, Repeatability: "1", MaxLength: 20},
				{Position: 3, Name: "Patient Identifier List", DataType: "CX", Optionality: Required, Repeatability: "*", MaxLength: 250},
				{Position: 4, Name: "Alternate Patient ID - PID", DataType: "CX", Optionality: Excluded, Repeatability: "*", MaxLength: 20},
				{Position: 5, Name: "Patient Name", DataType: "XPN", Optionality: Required, Repeatability: "*", MaxLength: 250},
				{Position: 6, Name: "Mother's Maiden Name", DataType: "XPN", Optionality: Optional, Repeatability: "*", MaxLength: 250},
				{Position: 7, Name: "Date/Time of Birth", DataType: "DTM", Optionality: Optional, Repeatability: "1", MaxLength: 24},
				{Position: 8, Name: "Administrative Sex", DataType: "IS", Optionality: Optional, Repeatability: "1", MaxLength: 1, TableID: 1},
				{Position: 9, Name: "Patient Alias", DataType: "XPN", Optionality: Excluded, Repeatability: "*", MaxLength: 250},
				{Position: 10, Name: "Race", DataType: "CE", Optionality: Optional, Repeatability: "*", MaxLength: 250, TableID: 5},
				{Position: 11, Name: "Patient Address", DataType: "XAD", Optionality: Optional, Repeatability: "*", MaxLength: 250},
				{Position: 12, Name: "County Code", DataType: "IS", Optionality: Excluded, Repeatability: "1", MaxLength: 4},
				{Position: 13, Name: "Phone Number - Home", DataType: "XTN", Optionality: Optional, Repeatability: "*", MaxLength: 250},
			},
		},
		{
			Code: "PV1", Name: "Patient Visit",
			Fields: []SegmentField{
				{Position: 1, Name: "Set ID - PV1", DataType: "SI", Optionality: Optional, Repeatability: "1", MaxLength: 4},
				{Position: 2, Name: "Patient Class", DataType: "IS", Optionality: Required, Repeatability: "1", MaxLength: 1, TableID: 4},
				{Position: 3, Name: "Assigned Patient Location", DataType: "PL", Optionality: Optional, Repeatability: "1", MaxLength: 80},
				{Position: 4, Name: "Admission Type", DataType: "IS", Optionality: Optional, Repeatability: "1", MaxLength: 2, TableID: 7},
				{Position: 5, Name: "Preadmit Number", DataType: "CX", Optionality: Optional, Repeatability: "1", MaxLength: 250},
				{Position: 6, Name: "Prior Patient Location", DataType: "PL", Optionality: Optional, Repeatability: "1", MaxLength: 80},
				{Position: 7, Name: "Attending Doctor", DataType: "XCN", Optionality: Optional, Repeatability: "*", MaxLength: 250},
			},
		},
		{
			Code: "ORC", Name: "Common Order",
			Fields: []SegmentField{
				{Position: 1, Name: "Order Control", DataType: "ID", Optionality: Required, Repeatability: "1", MaxLength: 2, TableID: 119},
				{Position: 2, Name: "Placer Order Number", DataType: "EI", Optionality: Optional, Repeatability: "1", MaxLength: 22},
				{Position: 3, Name: "Filler Order Number", DataType: "EI", Optionality: Optional, Repeatability: "1", MaxLength: 22},
				{Position: 4, Name: "Placer Group Number", DataType: "EI", Optionality: Optional, Repeatability: "1", MaxLength: 22},
				{Position: 5, Name: "Order Status", DataType: "ID", Optionality: Optional, Repeatability: "1", MaxLength: 2, TableID: 38},
				{Position: 9, Name: "Date/Time of Transaction", DataType: "DTM", Optionality: Optional, Repeatability: "1", MaxLength: 24},
			},
		},
		{
			Code: "OBR", Name: "Observation Request",
			Fields: []SegmentField{
				{Position: 1, Name: "Set ID - OBR", DataType: "SI", Optionality: Optional, Repeatability: "1", MaxLength: 4},
				{Position: 2, Name: "Placer Order Number", DataType: "EI", Optionality: Optional, Repeatability: "1", MaxLength: 22},
				{Position: 3, Name: "Filler Order Number", DataType: "EI", Optionality: Optional, Repeatability: "1", MaxLength: 22},
				{Position: 4, Name: "Universal Service Identifier", DataType: "CE", Optionality: Required, Repeatability: "1", MaxLength: 250},
				{Position: 7, Name: "Observation Date/Time", DataType: "DTM", Optionality: Optional, Repeatability: "1", MaxLength: 24},
			},
		},
		{
			Code: "OBX", Name: "Observation/Result",
			Fields: []SegmentField{
				{Position: 1, Name: "Set ID - OBX", DataType: "SI", Optionality: Optional, Repeatability: "1", MaxLength: 4},
				{Position: 2, Name: "Value Type", DataType: "ID", Optionality: Optional, Repeatability: "1", MaxLength: 2, TableID: 125},
				{Position: 3, Name: "Observation Identifier", DataType: "CE", Optionality: Required, Repeatability: "1", MaxLength: 250},
				{Position: 4, Name: "Observation Sub-ID", DataType: "ST", Optionality: Optional, Repeatability: "1", MaxLength: 20},
				{Position: 5, Name: "Observation Value", DataType: "ST", Optionality: Optional, Repeatability: "*", MaxLength: 99999},
				{Position: 6, Name: "Units", DataType: "CE", Optionality: Optional, Repeatability: "1", MaxLength: 250},
				{Position: 7, Name: "References Range", DataType: "ST", Optionality: Optional, Repeatability: "1", MaxLength: 60},
				{Position: 8, Name: "Abnormal Flags", DataType: "IS", Optionality: Optional, Repeatability: "*", MaxLength: 5, TableID: 78},
				{Position: 11, Name: "Observation Result Status", DataType: "ID", Optionality: Required, Repeatability: "1", MaxLength: 1, TableID: 85},
			},
		},
		{
			Code: "DG1", Name: "Diagnosis",
			Fields: []SegmentField{
				{Position: 1, Name: "Set ID - DG1", DataType: "SI", Optionality: Required, Repeatability: "1", MaxLength: 4},
				{Position: 2, Name: "Diagnosis Coding Method", DataType: "ID", Optionality: Excluded, Repeatability: "1", MaxLength: 2},
				{Position: 3, Name: "Diagnosis Code - DG1", DataType: "CE", Optionality: Required, Repeatability: "1", MaxLength: 250},
				{Position: 4, Name: "Diagnosis Description", DataType: "ST", Optionality: Excluded, Repeatability: "1", MaxLength: 40},
				{Position: 5, Name: "Diagnosis Date/Time", DataType: "DTM", Optionality: Optional, Repeatability: "1", MaxLength: 24},
				{Position: 6, Name: "Diagnosis Type", DataType: "IS", Optionality: Required, Repeatability: "1", MaxLength: 2, TableID: 52},
			},
		},
		{
			Code: "RXE", Name: "Pharmacy/Treatment Encoded Order",
			Fields: []SegmentField{
				{Position: 1, Name: "Quantity/Timing", DataType: "TQ", Optionality: Optional, Repeatability: "1", MaxLength: 200},
				{Position: 2, Name: "Give Code", DataType: "CE", Optionality: Required, Repeatability: "1", MaxLength: 250},
				{Position: 3, Name: "Give Amount - Minimum", DataType: "NM", Optionality: Required, Repeatability: "1", MaxLength: 20},
				{Position: 4, Name: "Give Amount - Maximum", DataType: "NM", Optionality: Optional, Repeatability: "1", MaxLength: 20},
				{Position: 5, Name: "Give Units", DataType: "CE", Optionality: Required, Repeatability: "1", MaxLength: 250},
				{Position: 6, Name: "Give Dosage Form", DataType: "CE", Optionality: Optional, Repeatability: "1", MaxLength: 250},
			},
		},
	}
}

func builtinTables() []*TableDefinition {
	return []*TableDefinition{
		{ID: 1, Name: "Administrative Sex", Type: TableHL7, Entries: []TableEntry{
			{Code: "A", Description: "Ambiguous"},
			{Code: "F", Description: "Female"},
			{Code: "M", Description: "Male"},
			{Code: "N", Description: "Not applicable"},
			{Code: "O", Description: "Other"},
			{Code: "U", Description: "Unknown"},
		}},
		{ID: 3, Name: "Event Type Code", Type: TableHL7, Entries: []TableEntry{
			{Code: "A01", Description: "ADT/ACK - Admit/visit notification"},
			{Code: "A02", Description: "ADT/ACK - Transfer a patient"},
			{Code: "A03", Description: "ADT/ACK - Discharge/end visit"},
			{Code: "A04", Description: "ADT/ACK - Register a patient"},
			{Code: "A08", Description: "ADT/ACK - Update patient information"},
			{Code: "O01", Description: "ORM - Order message"},
			{Code: "R01", Description: "ORU/ACK - Unsolicited transmission of an observation message"},
		}},
		{ID: 4, Name: "Patient Class", Type: TableHL7, Entries: []TableEntry{
			{Code: "B", Description: "Obstetrics"},
			{Code: "C", Description: "Commercial account"},
			{Code: "E", Description: "Emergency"},
			{Code: "I", Description: "Inpatient"},
			{Code: "N", Description: "Not applicable"},
			{Code: "O", Description: "Outpatient"},
			{Code: "P", Description: "Preadmit"},
			{Code: "R", Description: "Recurring patient"},
			{Code: "U", Description: "Unknown"},
		}},
		{ID: 5, Name: "Race", Type: TableUser, Entries: []TableEntry{
			{Code: "1002-5", Description: "American Indian or Alaska Native"},
			{Code: "2028-9", Description: "Asian"},
			{Code: "2054-5", Description: "Black or African American"},
			{Code: "2076-8", Description: "Native Hawaiian or Other Pacific Islander"},
			{Code: "2106-3", Description: "White"},
			{Code: "2131-1", Description: "Other Race"},
		}},
		{ID: 7, Name: "Admission Type", Type: TableUser, Entries: []TableEntry{
			{Code: "A", Description: "Accident"},
			{Code: "E", Description: "Emergency"},
			{Code: "L", Description: "Labor and Delivery"},
			{Code: "R", Description: "Routine"},
		}},
		{ID: 38, Name: "Order Status", Type: TableHL7, Entries: []TableEntry{
			{Code: "A", Description: "Some, but not all, results available"},
			{Code: "CA", Description: "Order was canceled"},
			{Code: "CM", Description: "Order is completed"},
			{Code: "IP", Description: "In process, unspecified"},
			{Code: "SC", Description: "In process, scheduled"},
		}},
		{ID: 52, Name: "Diagnosis Type", Type: TableHL7, Entries: []TableEntry{
			{Code: "A", Description: "Admitting"},
			{Code: "F", Description: "Final"},
			{Code: "W", Description: "Working"},
		}},
		{ID: 78, Name: "Abnormal Flags", Type: TableHL7, Entries: []TableEntry{
			{Code: "A", Description: "Abnormal"},
			{Code: "H", Description: "Above high normal"},
			{Code: "HH", Description: "Above upper panic limits"},
			{Code: "L", Description: "Below low normal"},
			{Code: "LL", Description: "Below lower panic limits"},
			{Code: "N", Description: "Normal"},
		}},
		{ID: 85, Name: "Observation Result Status", Type: TableHL7, Entries: []TableEntry{
			{Code: "C", Description: "Record coming over is a correction"},
			{Code: "D", Description: "Deletes the OBX record"},
			{Code: "F", Description: "Final results"},
			{Code: "I", Description: "Specimen in lab; results pending"},
			{Code: "P", Description: "Preliminary results"},
			{Code: "R", Description: "Results entered -- not verified"},
			{Code: "X", Description: "Results cannot be obtained"},
		}},
		{ID: 119, Name: "Order Control Codes", Type: TableHL7, Entries: []TableEntry{
			{Code: "CA", Description: "Cancel order/service request"},
			{Code: "DC", Description: "Discontinue order/service request"},
			{Code: "NW", Description: "New order/service"},
			{Code: "OK", Description: "Order/service accepted & OK"},
			{Code: "RE", Description: "Observations/performed service to follow"},
		}},
		{ID: 125, Name: "Value Type", Type: TableHL7, Entries: []TableEntry{
			{Code: "CE", Description: "Coded Entry"},
			{Code: "DT", Description: "Date"},
			{Code: "NM", Description: "Numeric"},
			{Code: "ST", Description: "String Data"},
			{Code: "TX", Description: "Text Data"},
		}},
	}
}

func builtinTriggerEvents() []*TriggerEvent {
	return []*TriggerEvent{
		{
			Code: "ADT_A01", Name: "Admit/Visit Notification", Chapter: "3", Version: "2.5.1",
			Segments: []TriggerEventSegment{
				{SegmentCode: "MSH", Optionality: Required, Repeatability: "1", Level: 0},
				{SegmentCode: "EVN", Optionality: Required, Repeatability: "1", Level: 0},
				{SegmentCode: "PID", Optionality: Required, Repeatability: "1", Level: 0},
				{SegmentCode: "PV1", Optionality: Required, Repeatability: "1", Level: 0},
				{SegmentCode: "DG1", Optionality: Optional, Repeatability: "*", Level: 0},
				{SegmentCode: "OBX", Optionality: Optional, Repeatability: "*", Level: 0},
			},
		},
		{
			Code: "ORU_R01", Name: "Unsolicited Observation Message", Chapter: "7", Version: "2.5.1",
			Segments: []TriggerEventSegment{
				{SegmentCode: "MSH", Optionality: Required, Repeatability: "1", Level: 0},
				{GroupName: "PATIENT_RESULT", Optionality: Required, Repeatability: "*", Level: 0},
				{SegmentCode: "PID", Optionality: Required, Repeatability: "1", Level: 1, GroupPath: []string{"PATIENT_RESULT"}},
				{GroupName: "ORDER_OBSERVATION", Optionality: Required, Repeatability: "*", Level: 1, GroupPath: []string{"PATIENT_RESULT"}},
				{SegmentCode: "ORC", Optionality: Optional, Repeatability: "1", Level: 2, GroupPath: []string{"PATIENT_RESULT", "ORDER_OBSERVATION"}},
				{SegmentCode: "OBR", Optionality: Required, Repeatability: "1", Level: 2, GroupPath: []string{"PATIENT_RESULT", "ORDER_OBSERVATION"}},
				{SegmentCode: "OBX", Optionality: Optional, Repeatability: "*", Level: 2, GroupPath: []string{"PATIENT_RESULT", "ORDER_OBSERVATION"}},
			},
		},
		{
			Code: "ORM_O01", Name: "Order Message", Chapter: "4", Version: "2.5.1",
			Segments: []TriggerEventSegment{
				{SegmentCode: "MSH", Optionality: Required, Repeatability: "1", Level: 0},
				{SegmentCode: "PID", Optionality: Required, Repeatability: "1", Level: 0},
				{GroupName: "ORDER", Optionality: Required, Repeatability: "*", Level: 0},
				{SegmentCode: "ORC", Optionality: Required, Repeatability: "1", Level: 1, GroupPath: []string{"ORDER"}},
				{SegmentCode: "OBR", Optionality: Required, Repeatability: "1", Level: 1, GroupPath: []string{"ORDER"}},
			},
		},
	}
}
