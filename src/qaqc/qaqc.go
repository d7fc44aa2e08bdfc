// Package qaqc assigns quality flags to datastream rows. Flags are single
// lowercase letters; 'z' is best quality and is the only flag downstream
// aggregates treat as "passed". Checks run in a fixed order, each later
// check overwriting the flag on the rows it matches, and manual operator
// windows are applied last, unconditionally.
package qaqc

import (
	"math"

	"github.com/cockroachdb/errors"

	"observatory-datastreams/src/model"
)

const (
	FlagUnchecked      = "a"
	FlagBad            = "b"
	FlagMissingNumeric = "c"
	FlagMissingNull    = "d"
	FlagRangeFailed    = "f"
	FlagPassed         = "z"
)

// Range holds the valid bounds for a variable, already converted to the
// units the datastream is stored in.
type Range struct {
	Min float64
	Max float64
}

// ConvertForUnits rescales the range for a datastream stored in
// non-default units, using the default unit's conversion factors.
func (r Range) ConvertForUnits(multiplier, offset float64) Range {
	return Range{
		Min: (r.Min / multiplier) - offset,
		Max: (r.Max / multiplier) - offset,
	}
}

// ValidFlag reports whether f is a usable flag letter.
func ValidFlag(f string) bool {
	return len(f) == 1 && f[0] >= 'a' && f[0] <= 'z'
}

// Apply runs the full check sequence over rows in place. A nil valid
// range skips the range check. Manual windows run last so operator
// intent always wins over computed flags.
func Apply(rows []model.Row, valid *Range, manual []model.QAWindow) error {
	for _, w := range manual {
		if !ValidFlag(w.Flag) {
			return errors.Newf("invalid manual qa_flag %q", w.Flag)
		}
	}

	setUnchecked(rows)
	if valid != nil {
		checkRange(rows, *valid)
	}
	checkInfinity(rows)
	checkNaN(rows)
	checkNull(rows)
	promotePassed(rows)
	applyManual(rows, manual)
	return nil
}

func setUnchecked(rows []model.Row) {
	for i := range rows {
		rows[i].QAFlag = FlagUnchecked
	}
}

func checkRange(rows []model.Row, valid Range) {
	for i := range rows {
		if rows[i].Null || math.IsNaN(rows[i].DataValue) {
			continue
		}
		if rows[i].DataValue < valid.Min || rows[i].DataValue > valid.Max {
			rows[i].QAFlag = FlagRangeFailed
		}
	}
}

func checkInfinity(rows []model.Row) {
	for i := range rows {
		if !rows[i].Null && math.IsInf(rows[i].DataValue, 0) {
			rows[i].QAFlag = FlagBad
		}
	}
}

func checkNaN(rows []model.Row) {
	for i := range rows {
		if !rows[i].Null && math.IsNaN(rows[i].DataValue) {
			rows[i].QAFlag = FlagMissingNumeric
		}
	}
}

func checkNull(rows []model.Row) {
	for i := range rows {
		if rows[i].Null {
			rows[i].QAFlag = FlagMissingNull
		}
	}
}

func promotePassed(rows []model.Row) {
	for i := range rows {
		if rows[i].QAFlag == FlagUnchecked {
			rows[i].QAFlag = FlagPassed
		}
	}
}

func applyManual(rows []model.Row, manual []model.QAWindow) {
	for _, w := range manual {
		for i := range rows {
			if w.Contains(rows[i].UTCTime) {
				rows[i].QAFlag = w.Flag
			}
		}
	}
}
