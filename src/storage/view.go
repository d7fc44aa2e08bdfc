package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrColumnMissing marks a view definition that references a column the
// feeder table does not have. This is a mapping problem, not a store
// problem, and aborts only the one column.
var ErrColumnMissing = errors.New("column missing in feeder table")

// ErrFeederTableMissing marks a mapping whose feeder table does not
// exist at all.
var ErrFeederTableMissing = errors.New("feeder table does not exist")

// relationExists covers both tables and views.
func (s *Storage) relationExists(name string) (bool, error) {
	var regclass *string
	err := s.db.Raw(`SELECT to_regclass(?)`, name).Scan(&regclass).Error
	if err != nil {
		return false, err
	}
	return regclass != nil, nil
}

// FeederTableExists reports whether the raw source table is present.
func (s *Storage) FeederTableExists(feederTable string) (bool, error) {
	return s.relationExists(feederTable)
}

func (s *Storage) tableColumns(table string) ([]string, error) {
	var cols []string
	err := s.db.Raw(`
		SELECT column_name FROM information_schema.columns
		WHERE table_name = ?
		ORDER BY ordinal_position`, table).Scan(&cols).Error
	return cols, err
}

// EnsureColumnView creates, exactly once, the read-only unit-converted
// projection over one feeder column:
//
//	data_value = multiplier * (offset + column), utc_time = timestamp
//
// An existing view is never redefined. When the column does not exist
// the error names the feeder table, the column, and the columns that do
// exist, so a failed batch is attributable without inspecting SQL.
func (s *Storage) EnsureColumnView(viewName, feederTable, column string, multiplier, offset float64) error {
	exists, err := s.relationExists(viewName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	cols, err := s.tableColumns(feederTable)
	if err != nil {
		return err
	}
	found := false
	for _, c := range cols {
		if c == column {
			found = true
			break
		}
	}
	if !found {
		return errors.Wrapf(ErrColumnMissing,
			"column %q does not exist in feeder table %q; this is typically a "+
				"problem with the sensor map definition; existing columns: %s",
			column, feederTable, strings.Join(cols, ", "))
	}

	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT timestamp AS utc_time,
		       (%g * (%g + %s::double precision)) AS data_value
		FROM %s
		ORDER BY timestamp`,
		quoteIdent(viewName), multiplier, offset, quoteIdent(column),
		quoteIdent(feederTable))
	return s.db.Exec(query).Error
}

// ViewRow is one unconverted point read back from a column view. The
// timestamp is still naive local wall-clock time, exactly as stored in
// the feeder table.
type ViewRow struct {
	LocalTime time.Time
	Value     float64
	Null      bool
}

// ViewRowsAfter selects the view rows strictly after the given local
// wall-clock instant in ascending order. The strict comparison is what
// makes materialization at-most-once per row.
func (s *Storage) ViewRowsAfter(viewName string, localAfter time.Time) ([]ViewRow, error) {
	query := fmt.Sprintf(`
		SELECT utc_time, data_value FROM %s
		WHERE utc_time > ?
		ORDER BY utc_time`, quoteIdent(viewName))

	rows, err := s.db.Raw(query, localAfter.Format("2006-01-02 15:04:05")).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ViewRow
	for rows.Next() {
		var t time.Time
		var v sql.NullFloat64
		if err := rows.Scan(&t, &v); err != nil {
			return nil, err
		}
		out = append(out, ViewRow{LocalTime: t, Value: v.Float64, Null: !v.Valid})
	}
	return out, rows.Err()
}
