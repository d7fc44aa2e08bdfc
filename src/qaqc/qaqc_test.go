package qaqc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"observatory-datastreams/src/model"
)

func row(t int64, v float64) model.Row {
	return model.Row{UTCTime: t, DataValue: v}
}

func nullRow(t int64) model.Row {
	return model.Row{UTCTime: t, Null: true}
}

func TestApplyFlagOrder(t *testing.T) {
	rows := []model.Row{
		row(0, 5.0),
		row(10, -40.0),
		row(20, 120.0),
		row(30, math.Inf(1)),
		row(40, math.NaN()),
		nullRow(50),
	}

	err := Apply(rows, &Range{Min: 0, Max: 100}, nil)
	require.NoError(t, err)

	assert.Equal(t, FlagPassed, rows[0].QAFlag)
	assert.Equal(t, FlagRangeFailed, rows[1].QAFlag)
	assert.Equal(t, FlagRangeFailed, rows[2].QAFlag)
	assert.Equal(t, FlagBad, rows[3].QAFlag)
	assert.Equal(t, FlagMissingNumeric, rows[4].QAFlag)
	assert.Equal(t, FlagMissingNull, rows[5].QAFlag)
}

func TestApplyNoRange(t *testing.T) {
	rows := []model.Row{row(0, -1e12), row(10, 1e12)}
	require.NoError(t, Apply(rows, nil, nil))
	assert.Equal(t, FlagPassed, rows[0].QAFlag)
	assert.Equal(t, FlagPassed, rows[1].QAFlag)
}

// NaN is never below the minimum numerically, so the NaN check owns the
// final flag for rows that are both missing-numeric and out of range.
func TestApplyNaNDeterministic(t *testing.T) {
	rows := []model.Row{row(0, math.NaN())}
	require.NoError(t, Apply(rows, &Range{Min: 0, Max: 1}, nil))
	assert.Equal(t, FlagMissingNumeric, rows[0].QAFlag)
}

func TestManualOverrideSupremacy(t *testing.T) {
	start := time.Unix(10, 0).UTC()
	end := time.Unix(30, 0).UTC()
	rows := []model.Row{
		row(0, 5.0),
		row(10, 5.0),
		row(20, -40.0),
		row(30, math.NaN()),
		row(40, 5.0),
	}

	err := Apply(rows, &Range{Min: 0, Max: 100}, []model.QAWindow{
		{Start: &start, End: &end, Flag: "q"},
	})
	require.NoError(t, err)

	assert.Equal(t, FlagPassed, rows[0].QAFlag)
	assert.Equal(t, "q", rows[1].QAFlag)
	assert.Equal(t, "q", rows[2].QAFlag)
	assert.Equal(t, "q", rows[3].QAFlag)
	assert.Equal(t, FlagPassed, rows[4].QAFlag)
}

func TestManualOverrideUnbounded(t *testing.T) {
	rows := []model.Row{row(0, 5.0), row(1000, 5.0)}
	err := Apply(rows, nil, []model.QAWindow{{Flag: "r"}})
	require.NoError(t, err)
	assert.Equal(t, "r", rows[0].QAFlag)
	assert.Equal(t, "r", rows[1].QAFlag)
}

func TestManualOverrideInvalidFlag(t *testing.T) {
	rows := []model.Row{row(0, 5.0)}
	err := Apply(rows, nil, []model.QAWindow{{Flag: "ZZ"}})
	assert.Error(t, err)
}

func TestRangeConvertForUnits(t *testing.T) {
	r := Range{Min: 0, Max: 100}.ConvertForUnits(2.0, 5.0)
	assert.InDelta(t, -5.0, r.Min, 1e-9)
	assert.InDelta(t, 45.0, r.Max, 1e-9)
}
