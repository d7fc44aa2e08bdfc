package pipeline

import (
	"time"

	"github.com/cockroachdb/errors"

	"observatory-datastreams/src/model"
	"observatory-datastreams/src/storage"
)

// LocalizeNaive resolves a naive wall-clock time to an instant in loc.
//
// DST makes two wall clocks special: during a fold the same wall clock
// occurs twice, and during a spring-forward gap it never occurs at all.
// The tie-break here is explicit: an ambiguous wall clock resolves to
// the earlier instant (the pre-transition offset), and a nonexistent
// wall clock is an error.
func LocalizeNaive(naive time.Time, loc *time.Location) (time.Time, error) {
	year, month, day := naive.Date()
	hour, minute, sec := naive.Clock()

	// Candidate offsets: the zone in effect well before and well after
	// the wall clock, which covers both sides of any single transition.
	probe := time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
	offsets := make(map[int]bool)
	for _, d := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		_, off := probe.Add(d).In(loc).Zone()
		offsets[off] = true
	}

	var resolved []time.Time
	for off := range offsets {
		candidate := time.Date(year, month, day, hour, minute, sec,
			naive.Nanosecond(), time.FixedZone("", off))
		local := candidate.In(loc)
		h, m, s := local.Clock()
		ly, lmo, ld := local.Date()
		if ly == year && lmo == month && ld == day &&
			h == hour && m == minute && s == sec {
			resolved = append(resolved, candidate)
		}
	}

	if len(resolved) == 0 {
		return time.Time{}, errors.Newf(
			"wall clock %s does not exist in %s",
			naive.Format("2006-01-02 15:04:05"), loc)
	}

	earliest := resolved[0]
	for _, c := range resolved[1:] {
		if c.Before(earliest) {
			earliest = c
		}
	}
	return earliest, nil
}

// WatermarkLocal converts a UTC epoch watermark into the source's naive
// local wall clock, the form raw timestamps are stored in.
func WatermarkLocal(watermark int64, loc *time.Location) time.Time {
	local := time.Unix(watermark, 0).UTC().In(loc)
	year, month, day := local.Date()
	hour, minute, sec := local.Clock()
	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

// LocalizeBatch converts view rows from naive source-local time to UTC
// epoch seconds. Any unresolvable timestamp fails the whole batch; a
// partial batch must never reach the canonical table.
func LocalizeBatch(viewRows []storage.ViewRow, loc *time.Location) ([]model.Row, error) {
	rows := make([]model.Row, 0, len(viewRows))
	for _, vr := range viewRows {
		instant, err := LocalizeNaive(vr.LocalTime, loc)
		if err != nil {
			return nil, errors.Wrap(ErrTemporalParse, err.Error())
		}
		rows = append(rows, model.Row{
			UTCTime:   instant.Unix(),
			DataValue: vr.Value,
			Null:      vr.Null,
		})
	}
	return rows, nil
}
