package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mappingJSON = `[
	{
		"column_name": "wtemp_avg",
		"variable_term": "waterTemperature",
		"units_term": "degreeCelsius",
		"unit_conversion": false,
		"acquiring_instrument_uuid": "c0ffee00-0000-0000-0000-000000000001",
		"expose_as_datastream": true,
		"sensor_type": "measured"
	},
	{
		"column_name": "battery_v",
		"variable_term": "batteryVoltage",
		"units_term": "volt",
		"unit_conversion": false,
		"acquiring_instrument_uuid": "c0ffee00-0000-0000-0000-000000000001",
		"expose_as_datastream": false,
		"sensor_type": "measured"
	},
	{
		"column_name": "depth_ft",
		"variable_term": "waterDepth",
		"units_term": "foot",
		"unit_conversion": true,
		"acquiring_instrument_uuid": "c0ffee00-0000-0000-0000-000000000002",
		"expose_as_datastream": true,
		"sensor_type": "measured",
		"datastream_manual_qa_list": [
			{"datetime_start": "2023-01-01T00:00:00Z", "qa_flag": "q", "note": "sensor drift"}
		]
	}
]`

func TestLoadMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_to_equipment_map.json")
	require.NoError(t, os.WriteFile(path, []byte(mappingJSON), 0o644))

	mappings, err := LoadMappings(path)
	require.NoError(t, err)

	// The unexposed column is dropped.
	require.Len(t, mappings, 2)
	assert.Equal(t, "wtemp_avg", mappings[0].ColumnName)
	assert.Equal(t, "depth_ft", mappings[1].ColumnName)

	assert.True(t, mappings[1].UnitConversion)
	require.Len(t, mappings[1].ManualQA, 1)
	assert.Equal(t, "q", mappings[1].ManualQA[0].Flag)
	assert.NotNil(t, mappings[1].ManualQA[0].Start)
	assert.Nil(t, mappings[1].ManualQA[0].End)
}

func TestLoadMappingsMissingFile(t *testing.T) {
	_, err := LoadMappings(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestTableSuffix(t *testing.T) {
	mappings, err := LoadMappings(writeTemp(t, mappingJSON))
	require.NoError(t, err)
	assert.Equal(t, "_meas", mappings[0].TableSuffix())
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
