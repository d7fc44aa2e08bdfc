package storage

import "time"

const (
	VariableTable            = "variables"
	UnitTable                = "cv_units"
	QuantityKindTable        = "cv_quantity_kind"
	VariableRangeTable       = "variable_qa_min_max"
	EquipmentTable           = "equipment"
	EquipmentPositionTable   = "equipment_position"
	EquipmentAttachmentTable = "related_equipment"
	DatastreamTable          = "sampling_feature_timeseries_datastreams"

	// Canonical datastream tables are cloned from this template:
	// utc_time BIGINT, data_value DOUBLE PRECISION, qa_flag CHAR(1).
	datastreamTemplateTable = "timeseries_datastream_template"
)

// Variable is a controlled-vocabulary measured quantity.
type Variable struct {
	VariableID     int64  `gorm:"primaryKey;autoIncrement"`
	VariableTerm   string `gorm:"uniqueIndex;size:255"`
	QuantityKindCV string `gorm:"size:255"`
}

func (Variable) TableName() string { return VariableTable }

// Unit is a controlled-vocabulary unit with the linear conversion to its
// quantity kind's default unit: default = multiplier * (offset + value).
type Unit struct {
	UnitsID              int64  `gorm:"primaryKey;autoIncrement"`
	Term                 string `gorm:"uniqueIndex;size:255"`
	QuantityKindCV       string `gorm:"size:255"`
	ConversionMultiplier float64
	ConversionOffset     float64
}

func (Unit) TableName() string { return UnitTable }

// QuantityKind names the default unit for a family of units.
type QuantityKind struct {
	QuantityKindID int64  `gorm:"primaryKey;autoIncrement"`
	Term           string `gorm:"uniqueIndex;size:255"`
	DefaultUnit    string `gorm:"size:255"`
}

func (QuantityKind) TableName() string { return QuantityKindTable }

// VariableRange holds the valid measurement bounds for a variable,
// expressed in the variable's default units.
type VariableRange struct {
	VariableRangeID int64 `gorm:"primaryKey;autoIncrement"`
	VariableID      int64 `gorm:"uniqueIndex"`
	MinValidRange   float64
	MaxValidRange   float64
}

func (VariableRange) TableName() string { return VariableRangeTable }

// Equipment is an instrument or mount point in the attachment graph.
type Equipment struct {
	EquipmentID   int64  `gorm:"primaryKey;autoIncrement"`
	EquipmentUUID string `gorm:"uniqueIndex;size:36"`
	EquipmentCode string `gorm:"size:255"`
	EquipmentName string `gorm:"size:255"`
}

func (Equipment) TableName() string { return EquipmentTable }

// EquipmentPosition is a positional record for a piece of equipment over
// a validity interval. ZOffsetM is the signed vertical offset in meters;
// nil means the offset was never surveyed.
type EquipmentPosition struct {
	EquipmentPositionID  int64 `gorm:"primaryKey;autoIncrement"`
	EquipmentID          int64 `gorm:"index"`
	PositionStartDateUTC *time.Time
	PositionEndDateUTC   *time.Time
	ZOffsetM             *float64
}

func (EquipmentPosition) TableName() string { return EquipmentPositionTable }

// EquipmentAttachment is an isAttachedTo edge from EquipmentID to
// RelatedEquipmentID, valid over the given interval.
type EquipmentAttachment struct {
	RelationID           int64 `gorm:"primaryKey;autoIncrement"`
	EquipmentID          int64 `gorm:"index"`
	RelatedEquipmentID   int64
	RelationshipStartUTC *time.Time
	RelationshipEndUTC   *time.Time
}

func (EquipmentAttachment) TableName() string { return EquipmentAttachmentTable }

// Datastream is the catalog entry for one canonical datastream table.
// First/last dates and the total count cover only best-quality ('z')
// rows and are maintained incrementally by the pipeline; the reconciler
// is the source of truth when they drift.
type Datastream struct {
	DatastreamID            int64  `gorm:"primaryKey;autoIncrement"`
	DatastreamUUID          string `gorm:"uniqueIndex;size:36"`
	EquipmentID             int64
	SamplingFeatureID       int64
	DatastreamType          string `gorm:"size:64"`
	VariableID              int64
	UnitsID                 int64
	DatastreamDatabase      string `gorm:"size:64"`
	DatastreamTablename     string `gorm:"uniqueIndex;size:63"`
	FirstMeasurementDate    *time.Time
	LastMeasurementDate     *time.Time
	TotalMeasurementNumbers int64
	DatastreamAttribute     string `gorm:"type:text"`
}

func (Datastream) TableName() string { return DatastreamTable }
