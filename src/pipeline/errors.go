package pipeline

import "github.com/cockroachdb/errors"

// Write-side failure classes. A configuration mismatch or temporal
// parse failure aborts only the column it occurred on; the pipeline
// keeps going with the remaining columns.
var (
	// ErrConfigurationMismatch marks a mapping that references a
	// variable, unit, or column the catalog does not know.
	ErrConfigurationMismatch = errors.New("configuration mismatch")

	// ErrTemporalParse marks a batch whose local timestamps could not
	// be resolved to UTC. The whole batch for the column is dropped;
	// nothing is appended.
	ErrTemporalParse = errors.New("temporal parse failure")
)
