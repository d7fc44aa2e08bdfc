package routes

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"observatory-datastreams/src/storage"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02T15:04:05"

	formatJSON = "json"
	formatCSV  = "csv"
)

// Unbounded defaults for missing range parameters.
var (
	minDatetime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDatetime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// dataQuery is a fully validated /datastream_data request. Every
// parameter is checked here, before a single response byte is written,
// so a bad request can never produce a half-streamed body.
type dataQuery struct {
	row           storage.RowQuery
	downsample    *storage.Downsample
	format        string
	fullPrecision bool
}

func parseDataQuery(ctx *gin.Context) (*dataQuery, error) {
	start, err := parseBound(ctx, "start_date", "start_datetime", minDatetime, false)
	if err != nil {
		return nil, err
	}
	end, err := parseBound(ctx, "end_date", "end_datetime", maxDatetime, true)
	if err != nil {
		return nil, err
	}

	flag := ctx.DefaultQuery("qa_flag", "z")
	if len(flag) != 1 {
		return nil, errors.New("qa_flag must be a single character")
	}

	mode := storage.FlagMode(ctx.DefaultQuery("qa_flag_mode", string(storage.FlagGreaterOrEq)))
	if _, ok := mode.Operator(); !ok {
		return nil, errors.New("qa_flag_mode must be greater_or_eq, less_or_eq or equal")
	}

	var startOpen, endOpen bool
	switch ctx.DefaultQuery("open_interval", "none") {
	case "none":
	case "start":
		startOpen = true
	case "end":
		endOpen = true
	case "both":
		startOpen = true
		endOpen = true
	default:
		return nil, errors.New("open_interval must be none, start, end or both")
	}

	tz := ctx.DefaultQuery("tz", "UTC")
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, errors.Newf("unknown timezone %q", tz)
	}

	format := ctx.DefaultQuery("format", formatJSON)
	if format != formatJSON && format != formatCSV {
		return nil, errors.Newf("unsupported format %s", format)
	}

	q := &dataQuery{
		row: storage.RowQuery{
			Timezone:  tz,
			Start:     start,
			End:       end,
			StartOpen: startOpen,
			EndOpen:   endOpen,
			Flag:      flag,
			Mode:      mode,
		},
		format: format,
	}

	_, q.fullPrecision = ctx.GetQuery("full_precision")

	if interval, ok := ctx.GetQuery("downsample_interval"); ok {
		if !storage.ValidDownsampleInterval(interval) {
			return nil, errors.Newf("unknown downsample_interval %s", interval)
		}
		method := ctx.DefaultQuery("downsample_method", "mean")
		if !storage.ValidDownsampleMethod(method) {
			return nil, errors.Newf("unsupported downsample method %s", method)
		}
		q.downsample = &storage.Downsample{Interval: interval, Method: method}
	}

	return q, nil
}

// parseBound resolves one range boundary. Date-only and full datetime
// forms are mutually exclusive; a bare date covers its whole day, so
// the end bound snaps to the last second.
func parseBound(ctx *gin.Context, dateParam, datetimeParam string, fallback time.Time, endOfDay bool) (time.Time, error) {
	dateRaw, hasDate := ctx.GetQuery(dateParam)
	datetimeRaw, hasDatetime := ctx.GetQuery(datetimeParam)

	if hasDate && hasDatetime {
		return time.Time{}, errors.Newf("cannot specify both %s and %s", dateParam, datetimeParam)
	}

	if hasDate {
		t, err := time.Parse(dateLayout, dateRaw)
		if err != nil {
			return time.Time{}, errors.Newf("invalid %s %q", dateParam, dateRaw)
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}

	if hasDatetime {
		t, err := time.Parse(datetimeLayout, datetimeRaw)
		if err != nil {
			// ISO 8601 permits a space separator too.
			t, err = time.Parse("2006-01-02 15:04:05", datetimeRaw)
		}
		if err != nil {
			return time.Time{}, errors.Newf("invalid %s %q", datetimeParam, datetimeRaw)
		}
		return t, nil
	}

	return fallback, nil
}
