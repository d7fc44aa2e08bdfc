package pipeline

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"observatory-datastreams/src/model"
	"observatory-datastreams/src/qaqc"
	"observatory-datastreams/src/storage"
)

// upsertCatalog creates or advances the catalog entry for a canonical
// table after a non-empty batch was appended. The first-measurement
// date is set once and never overwritten; the last date and total count
// advance using only the passed rows of the new batch, retaining prior
// values when the batch has none. The count is an incremental running
// sum; the reconciler repairs any drift.
func (p *Pipeline) upsertCatalog(table string, written []model.Row,
	equipmentUUID string, variableID, unitsID int64) error {

	var passed []int64
	for _, r := range written {
		if r.QAFlag == qaqc.FlagPassed {
			passed = append(passed, r.UTCTime)
		}
	}

	equipment, err := p.store.EquipmentByUUID(equipmentUUID)
	if err != nil {
		return err
	}
	if equipment == nil {
		return errors.Wrapf(ErrConfigurationMismatch,
			"acquiring instrument %s not found", equipmentUUID)
	}

	ds, err := p.store.DatastreamByTableName(table)
	if err != nil {
		return err
	}
	if ds == nil {
		ds = &storage.Datastream{
			DatastreamUUID:      uuid.NewString(),
			DatastreamType:      "physicalsensor",
			DatastreamDatabase:  "datastreams",
			DatastreamTablename: table,
		}
	}

	ds.EquipmentID = equipment.EquipmentID
	ds.SamplingFeatureID = p.samplingFeatureID
	ds.VariableID = variableID
	ds.UnitsID = unitsID

	if len(passed) > 0 {
		first := time.Unix(passed[0], 0).UTC()
		last := time.Unix(passed[0], 0).UTC()
		for _, ts := range passed[1:] {
			t := time.Unix(ts, 0).UTC()
			if t.Before(first) {
				first = t
			}
			if t.After(last) {
				last = t
			}
		}
		if ds.FirstMeasurementDate == nil {
			ds.FirstMeasurementDate = &first
		}
		ds.LastMeasurementDate = &last
		ds.TotalMeasurementNumbers += int64(len(passed))
	}

	attribute, err := p.offsetAttribute(equipment)
	if err != nil {
		return err
	}
	ds.DatastreamAttribute = attribute

	return p.store.SaveDatastream(ds)
}

// offsetAttribute resolves the instrument's vertical offset and encodes
// it for display: negative totals become a positive sensor depth,
// non-negative totals a sensor elevation.
func (p *Pipeline) offsetAttribute(equipment *storage.Equipment) (string, error) {
	offset, err := ResolveVerticalOffset(p.store, equipment.EquipmentID)
	if err != nil {
		return "", err
	}

	attrs := map[string]interface{}{
		"instrument": equipment.EquipmentCode,
	}
	if offset < 0 {
		attrs["sensor_depth"] = -offset
		attrs["sensor_depth_units"] = "meter"
	} else {
		attrs["sensor_elevation"] = offset
		attrs["sensor_elevation_units"] = "meter"
	}

	blob, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}
