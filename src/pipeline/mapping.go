package pipeline

import (
	"encoding/json"
	"os"

	"observatory-datastreams/src/model"
)

// LoadMappings reads a column-to-datastream mapping file and drops the
// entries not marked for exposure. Mappings are immutable for the run.
func LoadMappings(path string) ([]model.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var all []model.Mapping
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	exposed := make([]model.Mapping, 0, len(all))
	for _, m := range all {
		if m.ExposeAsDatastream {
			exposed = append(exposed, m)
		}
	}
	return exposed, nil
}
