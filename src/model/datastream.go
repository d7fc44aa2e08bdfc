package model

import "time"

// Row is one point of a canonical datastream table: a UTC epoch second,
// a value, and a single-character quality flag. Null marks a point whose
// source value was missing entirely (SQL NULL in the feeder column).
type Row struct {
	UTCTime   int64
	DataValue float64
	Null      bool
	QAFlag    string
}

// QAWindow is a manual quality override for a time span. A nil Start or
// End leaves that side unbounded. The window's flag is applied last,
// after all computed checks.
type QAWindow struct {
	Start *time.Time `json:"datetime_start"`
	End   *time.Time `json:"datetime_end"`
	Flag  string     `json:"qa_flag"`
	Note  string     `json:"note,omitempty"`
}

// Contains reports whether the given UTC epoch second falls inside the
// window. Bounds are inclusive.
func (w QAWindow) Contains(utcTime int64) bool {
	if w.Start != nil && utcTime < w.Start.Unix() {
		return false
	}
	if w.End != nil && utcTime > w.End.Unix() {
		return false
	}
	return true
}

// Mapping describes how one feeder-table column becomes a datastream:
// which variable and units it carries, whether the stored values need
// unit conversion, and which instrument acquired it.
type Mapping struct {
	ColumnName              string     `json:"column_name"`
	VariableTerm            string     `json:"variable_term"`
	UnitsTerm               string     `json:"units_term"`
	UnitConversion          bool       `json:"unit_conversion"`
	AcquiringInstrumentUUID string     `json:"acquiring_instrument_uuid"`
	ExposeAsDatastream      bool       `json:"expose_as_datastream"`
	SensorType              string     `json:"sensor_type"`
	ManualQA                []QAWindow `json:"datastream_manual_qa_list,omitempty"`
}

// TableSuffix returns the canonical table suffix for the mapping's
// sensor type, empty when the type is unrecognized.
func (m Mapping) TableSuffix() string {
	switch m.SensorType {
	case "measured":
		return "_meas"
	case "calculated":
		return "_calc"
	}
	return ""
}
