package storage

import (
	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// DatastreamByTableName finds the catalog entry keyed by canonical
// table name, nil when none exists yet.
func (s *Storage) DatastreamByTableName(table string) (*Datastream, error) {
	var ds Datastream
	err := s.db.Where("datastream_tablename = ?", table).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *Storage) DatastreamByID(id int64) (*Datastream, error) {
	var ds Datastream
	err := s.db.Where("datastream_id = ?", id).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *Storage) AllDatastreams() ([]Datastream, error) {
	var all []Datastream
	err := s.db.Order("datastream_id").Find(&all).Error
	return all, err
}

// SaveDatastream inserts or updates a catalog entry. Entries are never
// deleted.
func (s *Storage) SaveDatastream(ds *Datastream) error {
	return s.db.Save(ds).Error
}
