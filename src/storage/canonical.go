package storage

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"observatory-datastreams/src/model"
)

// maxBaseNameBytes leaves room within Postgres' 63-byte identifier limit
// for a sensor-type suffix and the "_view" suffix of the source view.
const maxBaseNameBytes = 53

// DatastreamTableName synthesizes the canonical table name for one
// feeder column. The base name is trimmed byte by byte until it fits and
// neither ends in an underscore nor a space, then the suffix is added.
func DatastreamTableName(feederTable, column, suffix string) string {
	name := feederTable + "_" + column
	for len(name) > maxBaseNameBytes ||
		strings.HasSuffix(name, "_") || strings.HasSuffix(name, " ") {
		name = name[:len(name)-1]
	}
	return name + suffix
}

// ViewName is the name of the unit-converted projection feeding the
// given canonical table.
func ViewName(canonicalTable string) string {
	return canonicalTable + "_view"
}

// EnsureDatastreamTable creates the canonical table from the fixed
// three-column template if it does not exist yet.
func (s *Storage) EnsureDatastreamTable(table string) error {
	exists, err := s.relationExists(table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := fmt.Sprintf(`CREATE TABLE %s (LIKE %s INCLUDING ALL)`,
		quoteIdent(table), quoteIdent(datastreamTemplateTable))
	return s.db.Exec(query).Error
}

// Watermark returns MAX(utc_time) over the canonical table, 0 when the
// table is empty. It is recomputed on every run rather than stored, so
// materialization stays idempotent across restarts.
func (s *Storage) Watermark(table string) (int64, error) {
	var mark int64
	query := fmt.Sprintf(`SELECT COALESCE(MAX(utc_time), 0) FROM %s`,
		quoteIdent(table))
	err := s.db.Raw(query).Scan(&mark).Error
	return mark, err
}

// AppendRows appends the batch to the canonical table in one
// transaction. Rows are never updated or deleted; a partial failure
// rolls the whole batch back so the watermark only ever reflects
// durably committed rows.
func (s *Storage) AppendRows(table string, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	insert := fmt.Sprintf(
		`INSERT INTO %s (utc_time, data_value, qa_flag) VALUES (?, ?, ?)`,
		quoteIdent(table))

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			var value interface{}
			if !r.Null {
				value = r.DataValue
			}
			if err := tx.Exec(insert, r.UTCTime, value, r.QAFlag).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
