package storage

import (
	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// Reference lookups used by the pipeline. All ByX helpers return
// (nil, nil) when no record matches so callers can distinguish a missing
// reference from a store failure.

func (s *Storage) VariableByTerm(term string) (*Variable, error) {
	var v Variable
	err := s.db.Where("variable_term = ?", term).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Storage) UnitByTerm(term string) (*Unit, error) {
	var u Unit
	err := s.db.Where("term = ?", term).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) UnitByID(id int64) (*Unit, error) {
	var u Unit
	err := s.db.Where("units_id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) QuantityKindByTerm(term string) (*QuantityKind, error) {
	var qk QuantityKind
	err := s.db.Where("term = ?", term).First(&qk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qk, nil
}

func (s *Storage) VariableRangeByID(variableID int64) (*VariableRange, error) {
	var r VariableRange
	err := s.db.Where("variable_id = ?", variableID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Storage) EquipmentByUUID(uuid string) (*Equipment, error) {
	var e Equipment
	err := s.db.Where("equipment_uuid = ?", uuid).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LatestEquipmentPosition returns the position with the most recent
// start date, skipping records with no start date. Nil when the
// equipment has no dated position at all.
func (s *Storage) LatestEquipmentPosition(equipmentID int64) (*EquipmentPosition, error) {
	var positions []EquipmentPosition
	err := s.db.Where("equipment_id = ?", equipmentID).Find(&positions).Error
	if err != nil {
		return nil, err
	}

	var latest *EquipmentPosition
	for i := range positions {
		p := &positions[i]
		if p.PositionStartDateUTC == nil {
			continue
		}
		if latest == nil || p.PositionStartDateUTC.After(*latest.PositionStartDateUTC) {
			latest = p
		}
	}
	return latest, nil
}

// Attachments returns all isAttachedTo edges leaving the given
// equipment node.
func (s *Storage) Attachments(equipmentID int64) ([]EquipmentAttachment, error) {
	var edges []EquipmentAttachment
	err := s.db.Where("equipment_id = ?", equipmentID).Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}
