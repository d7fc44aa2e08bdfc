package routes

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// flushEvery bounds how many rows may sit in server buffers before
// being pushed to the client. Long ranges stream in constant memory.
const flushEvery = 256

func streamRows(ctx *gin.Context, cursor *sql.Rows, q *dataQuery) error {
	if q.format == formatCSV {
		return streamCSV(ctx, cursor, q.fullPrecision)
	}
	return streamJSON(ctx, cursor, q.fullPrecision)
}

// streamJSON writes rows as a JSON array of value arrays, one element
// per cursor row, flushing incrementally.
func streamJSON(ctx *gin.Context, cursor *sql.Rows, fullPrecision bool) error {
	columns, err := cursor.Columns()
	if err != nil {
		return err
	}

	ctx.Writer.Header().Set("Content-Type", "application/json")
	ctx.Writer.WriteHeader(http.StatusOK)
	if _, err := ctx.Writer.WriteString("["); err != nil {
		return err
	}

	first := true
	written := 0
	for cursor.Next() {
		if ctx.Request.Context().Err() != nil {
			return nil
		}

		cells, err := scanRow(cursor, len(columns))
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(jsonCells(cells, fullPrecision))
		if err != nil {
			return err
		}

		if !first {
			if _, err := ctx.Writer.WriteString(","); err != nil {
				return err
			}
		}
		first = false
		if _, err := ctx.Writer.Write(encoded); err != nil {
			return err
		}

		written++
		if written%flushEvery == 0 {
			ctx.Writer.Flush()
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	if _, err := ctx.Writer.WriteString("]"); err != nil {
		return err
	}
	ctx.Writer.Flush()
	return nil
}

// streamCSV writes a header row naming the cursor columns, then one
// line per row. Null cells become empty fields.
func streamCSV(ctx *gin.Context, cursor *sql.Rows, fullPrecision bool) error {
	columns, err := cursor.Columns()
	if err != nil {
		return err
	}

	ctx.Writer.Header().Set("Content-Type", "text/csv")
	ctx.Writer.WriteHeader(http.StatusOK)

	w := csv.NewWriter(ctx.Writer)
	if err := w.Write(columns); err != nil {
		return err
	}

	written := 0
	record := make([]string, len(columns))
	for cursor.Next() {
		if ctx.Request.Context().Err() != nil {
			return nil
		}

		cells, err := scanRow(cursor, len(columns))
		if err != nil {
			return err
		}
		for i, cell := range cells {
			record[i] = csvCell(cell, fullPrecision)
		}
		if err := w.Write(record); err != nil {
			return err
		}

		written++
		if written%flushEvery == 0 {
			w.Flush()
			ctx.Writer.Flush()
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	w.Flush()
	ctx.Writer.Flush()
	return w.Error()
}

func scanRow(cursor *sql.Rows, n int) ([]interface{}, error) {
	cells := make([]interface{}, n)
	ptrs := make([]interface{}, n)
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	if err := cursor.Scan(ptrs...); err != nil {
		return nil, err
	}
	return cells, nil
}

func jsonCells(cells []interface{}, fullPrecision bool) []interface{} {
	out := make([]interface{}, len(cells))
	for i, cell := range cells {
		switch v := cell.(type) {
		case nil:
			out[i] = nil
		case time.Time:
			out[i] = v.Format(datetimeLayout)
		case float64:
			out[i] = json.Number(formatFloat(v, fullPrecision))
		case []byte:
			out[i] = string(v)
		default:
			out[i] = v
		}
	}
	return out
}

func csvCell(cell interface{}, fullPrecision bool) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(datetimeLayout)
	case float64:
		return formatFloat(v, fullPrecision)
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// formatFloat rounds to a short display precision unless the caller
// asked for the exact float64 text.
func formatFloat(v float64, fullPrecision bool) string {
	if fullPrecision {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', 9, 64)
}
