package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// FlagMode selects how the quality-flag threshold is compared.
type FlagMode string

const (
	FlagGreaterOrEq FlagMode = "greater_or_eq"
	FlagLessOrEq    FlagMode = "less_or_eq"
	FlagEqual       FlagMode = "equal"
)

// Operator returns the SQL comparison for the mode and whether the mode
// is known.
func (m FlagMode) Operator() (string, bool) {
	switch m {
	case FlagGreaterOrEq:
		return ">=", true
	case FlagLessOrEq:
		return "<=", true
	case FlagEqual:
		return "=", true
	}
	return "", false
}

var downsampleIntervals = map[string]bool{
	"second": true,
	"minute": true,
	"hour":   true,
	"day":    true,
	"week":   true,
	"month":  true,
	"year":   true,
}

// ValidDownsampleInterval reports whether the bucket granularity is part
// of the fixed vocabulary.
func ValidDownsampleInterval(interval string) bool {
	return downsampleIntervals[interval]
}

var aggregateFunctions = map[string]string{
	"mean":     "AVG",
	"sum":      "SUM",
	"count":    "COUNT",
	"stddev":   "STDDEV",
	"variance": "VARIANCE",
}

// ValidDownsampleMethod covers both the simple aggregates and the
// extremum-row methods.
func ValidDownsampleMethod(method string) bool {
	if _, ok := aggregateFunctions[method]; ok {
		return true
	}
	return method == "min" || method == "max" || method == "min_max"
}

// Downsample is a bucket granularity plus an aggregation method, both
// pre-validated against the fixed vocabularies above.
type Downsample struct {
	Interval string
	Method   string
}

// RowQuery selects datastream rows in a display timezone, bounded by
// naive local instants and filtered by a flag threshold.
type RowQuery struct {
	Table    string
	Timezone string

	Start     time.Time
	End       time.Time
	StartOpen bool
	EndOpen   bool

	Flag string
	Mode FlagMode
}

const naiveTimestampLayout = "2006-01-02 15:04:05"

// baseSQL shifts utc_time into the display timezone and applies the
// range and flag predicates. Only the comparison operators are
// interpolated; all values travel as parameters.
func (q RowQuery) baseSQL() (string, []interface{}) {
	startOp := ">="
	if q.StartOpen {
		startOp = ">"
	}
	endOp := "<="
	if q.EndOpen {
		endOp = "<"
	}
	flagOp, _ := q.Mode.Operator()

	clause := fmt.Sprintf(`
		SELECT * FROM (
			SELECT
				(TIMESTAMP 'epoch' + utc_time * INTERVAL '1 second')
					AT TIME ZONE 'UTC'
						AT TIME ZONE ? AS datetime_local,
				data_value,
				qa_flag
			FROM %s
		) AS data
		WHERE
			datetime_local %s ? AND
			datetime_local %s ? AND
			qa_flag %s ?`,
		quoteIdent(q.Table), startOp, endOp, flagOp)

	args := []interface{}{
		q.Timezone,
		q.Start.Format(naiveTimestampLayout),
		q.End.Format(naiveTimestampLayout),
		q.Flag,
	}
	return clause, args
}

// DataRows streams the filtered rows in ascending display-local time.
// The caller owns the cursor and must Close it.
func (s *Storage) DataRows(ctx context.Context, q RowQuery) (*sql.Rows, error) {
	clause, args := q.baseSQL()
	clause += "\n\t\tORDER BY datetime_local"
	return s.db.WithContext(ctx).Raw(clause, args...).Rows()
}

// DownsampledRows streams one row per time bucket. Simple aggregates
// reduce data_value directly; min/max/min_max return the row achieving
// the extremum (ties resolved to the earliest timestamp) because the
// extremum's own timestamp must survive downsampling.
func (s *Storage) DownsampledRows(ctx context.Context, q RowQuery, d Downsample) (*sql.Rows, error) {
	base, args := q.baseSQL()

	var clause string
	if fn, ok := aggregateFunctions[d.Method]; ok {
		clause = fmt.Sprintf(`
			SELECT
				DATE_TRUNC('%s', datetime_local) AS truncated_datetime_local,
				%s(data_value) AS data_value
			FROM ( %s ) AS downsampled
			GROUP BY truncated_datetime_local
			ORDER BY truncated_datetime_local`,
			d.Interval, fn, base)
	} else {
		maxdata := fmt.Sprintf(`
			maxdata AS (
				SELECT
					truncated_datetime_local,
					datetime_local AS max_datetime_local,
					data_value AS max_data_value
				FROM (
					SELECT
						DISTINCT ON (truncated_datetime_local)
						DATE_TRUNC('%s', datetime_local) AS truncated_datetime_local,
						data_value,
						datetime_local
					FROM data2
					ORDER BY
						truncated_datetime_local,
						data_value DESC,
						datetime_local
				) subquery
			)`, d.Interval)
		mindata := fmt.Sprintf(`
			mindata AS (
				SELECT
					truncated_datetime_local,
					datetime_local AS min_datetime_local,
					data_value AS min_data_value
				FROM (
					SELECT
						DISTINCT ON (truncated_datetime_local)
						DATE_TRUNC('%s', datetime_local) AS truncated_datetime_local,
						data_value,
						datetime_local
					FROM data2
					ORDER BY
						truncated_datetime_local,
						data_value ASC,
						datetime_local
				) subquery
			)`, d.Interval)

		switch d.Method {
		case "min":
			clause = fmt.Sprintf(`
				WITH data2 AS ( %s ),
				%s
				SELECT * FROM mindata ORDER BY truncated_datetime_local`,
				base, mindata)
		case "max":
			clause = fmt.Sprintf(`
				WITH data2 AS ( %s ),
				%s
				SELECT * FROM maxdata ORDER BY truncated_datetime_local`,
				base, maxdata)
		case "min_max":
			clause = fmt.Sprintf(`
				WITH data2 AS ( %s ),
				%s,
				%s
				SELECT
					mindata.truncated_datetime_local,
					mindata.min_datetime_local,
					mindata.min_data_value,
					maxdata.max_datetime_local,
					maxdata.max_data_value
				FROM maxdata
				INNER JOIN mindata
				ON maxdata.truncated_datetime_local = mindata.truncated_datetime_local
				ORDER BY maxdata.truncated_datetime_local`,
				base, maxdata, mindata)
		}
	}

	return s.db.WithContext(ctx).Raw(clause, args...).Rows()
}
