package storage

import (
	"database/sql"
	"fmt"
	"time"

	"observatory-datastreams/src/model"
)

// CanonicalSummary is {first, last, count} recomputed directly from a
// canonical table over best-quality rows only.
type CanonicalSummary struct {
	First *time.Time
	Last  *time.Time
	Count int64
}

// RecomputeSummary aggregates the canonical table restricted to 'z'
// rows. This is the ground truth the catalog metadata must eventually
// agree with.
func (s *Storage) RecomputeSummary(table string) (CanonicalSummary, error) {
	var first, last sql.NullInt64
	var count int64
	query := fmt.Sprintf(`
		SELECT MIN(utc_time), MAX(utc_time), COUNT(utc_time)
		FROM %s
		WHERE qa_flag = 'z'`, quoteIdent(table))

	row := s.db.Raw(query).Row()
	if err := row.Scan(&first, &last, &count); err != nil {
		return CanonicalSummary{}, err
	}

	summary := CanonicalSummary{Count: count}
	if first.Valid {
		t := time.Unix(first.Int64, 0).UTC()
		summary.First = &t
	}
	if last.Valid {
		t := time.Unix(last.Int64, 0).UTC()
		summary.Last = &t
	}
	return summary, nil
}

// CanonicalRowCount counts every row regardless of flag.
func (s *Storage) CanonicalRowCount(table string) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(table))
	err := s.db.Raw(query).Scan(&count).Error
	return count, err
}

// RecentNonNullRows returns the latest n rows with a non-null value,
// newest first, for data-quality diagnosis.
func (s *Storage) RecentNonNullRows(table string, n int) ([]model.Row, error) {
	query := fmt.Sprintf(`
		SELECT utc_time, data_value, qa_flag FROM %s
		WHERE data_value IS NOT NULL
		ORDER BY utc_time DESC LIMIT ?`, quoteIdent(table))

	rows, err := s.db.Raw(query, n).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var r model.Row
		if err := rows.Scan(&r.UTCTime, &r.DataValue, &r.QAFlag); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateDatastreamSummary overwrites the catalog metadata with the
// recomputed truth.
func (s *Storage) UpdateDatastreamSummary(datastreamID int64, summary CanonicalSummary) error {
	return s.db.Model(&Datastream{}).
		Where("datastream_id = ?", datastreamID).
		Updates(map[string]interface{}{
			"first_measurement_date":    summary.First,
			"last_measurement_date":     summary.Last,
			"total_measurement_numbers": summary.Count,
		}).Error
}
