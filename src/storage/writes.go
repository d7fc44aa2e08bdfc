package storage

// Reference-data writers. Bulk catalog loading is handled by an outer
// collaborator; these exist for targeted fixes and test seeding.

func (s *Storage) SaveVariable(v *Variable) error {
	return s.db.Save(v).Error
}

func (s *Storage) SaveUnit(u *Unit) error {
	return s.db.Save(u).Error
}

func (s *Storage) SaveQuantityKind(qk *QuantityKind) error {
	return s.db.Save(qk).Error
}

func (s *Storage) SaveVariableRange(r *VariableRange) error {
	return s.db.Save(r).Error
}

func (s *Storage) SaveEquipment(e *Equipment) error {
	return s.db.Save(e).Error
}

func (s *Storage) SaveEquipmentPosition(p *EquipmentPosition) error {
	return s.db.Save(p).Error
}

func (s *Storage) SaveEquipmentAttachment(a *EquipmentAttachment) error {
	return s.db.Save(a).Error
}

func (s *Storage) DropCanonicalTable(table string) error {
	if err := s.db.Exec(`DROP VIEW IF EXISTS ` + quoteIdent(ViewName(table))).Error; err != nil {
		return err
	}
	return s.db.Exec(`DROP TABLE IF EXISTS ` + quoteIdent(table)).Error
}

func (s *Storage) DeleteDatastreamByTableName(table string) error {
	return s.db.Where("datastream_tablename = ?", table).Delete(&Datastream{}).Error
}
