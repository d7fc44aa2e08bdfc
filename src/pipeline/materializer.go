// Package pipeline advances canonical datastream tables from their
// feeder views. Each run selects the view rows past the table's
// watermark, localizes them to UTC, flags them, appends them, and
// updates the datastream catalog. Failures are column-scoped: a broken
// mapping never stalls the other columns of the same feeder table.
package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"observatory-datastreams/src/model"
	"observatory-datastreams/src/qaqc"
	"observatory-datastreams/src/storage"
)

type Pipeline struct {
	store *storage.Storage
	log   *logrus.Entry

	feederTable       string
	samplingFeatureID int64
	timezone          *time.Location

	cache *RunCache
	lock  *RunLock
}

func New(store *storage.Storage, feederTable string, samplingFeatureID int64,
	sourceTimezone string, log *logrus.Logger) (*Pipeline, error) {

	loc, err := time.LoadLocation(sourceTimezone)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown source timezone %q", sourceTimezone)
	}

	return &Pipeline{
		store:             store,
		log:               log.WithField("feeder_table", feederTable),
		feederTable:       feederTable,
		samplingFeatureID: samplingFeatureID,
		timezone:          loc,
	}, nil
}

// Run materializes every exposed mapping once. Column failures are
// logged and collected but do not stop the remaining columns; the
// combined error is returned so a scheduler still sees the run as
// degraded.
func (p *Pipeline) Run(ctx context.Context, mappings []model.Mapping) error {
	exists, err := p.store.FeederTableExists(p.feederTable)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(storage.ErrFeederTableMissing, "%s", p.feederTable)
	}

	// Reference lookups and the run lock live exactly as long as this
	// run.
	p.cache = NewRunCache(p.store)
	p.lock = NewRunLock(p.store.Redis())
	defer func() {
		p.cache = nil
		p.lock = nil
	}()

	if len(mappings) == 0 {
		p.log.Warn("no columns are set to be exposed for this feeder table")
		return nil
	}

	var runErr error
	for _, m := range mappings {
		written, err := p.MaterializeColumn(ctx, m)
		if err != nil {
			p.log.WithField("column", m.ColumnName).WithError(err).
				Error("column materialization failed")
			runErr = errors.CombineErrors(runErr, err)
			continue
		}
		p.log.WithFields(logrus.Fields{
			"column": m.ColumnName,
			"rows":   len(written),
		}).Info("column materialized")
	}
	return runErr
}

// MaterializeColumn advances one canonical table and returns the newly
// written rows, empty in the steady state where no raw data arrived
// since the last run. Called outside Run it uses a cache and lock
// scoped to the single call.
func (p *Pipeline) MaterializeColumn(ctx context.Context, m model.Mapping) ([]model.Row, error) {
	if p.cache == nil {
		p.cache = NewRunCache(p.store)
		defer func() { p.cache = nil }()
	}
	if p.lock == nil {
		p.lock = NewRunLock(p.store.Redis())
		defer func() { p.lock = nil }()
	}

	variableTerm := m.VariableTerm
	if variableTerm == "" {
		variableTerm = "unknown"
	}
	variable, err := p.cache.Variable(variableTerm)
	if err != nil {
		return nil, err
	}
	if variable == nil {
		return nil, errors.Wrapf(ErrConfigurationMismatch,
			"variable term %q not found", variableTerm)
	}

	unitsTerm := m.UnitsTerm
	if unitsTerm == "" {
		unitsTerm = "unknown"
	}
	unit, err := p.cache.Unit(unitsTerm)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, errors.Wrapf(ErrConfigurationMismatch,
			"units term %q not found", unitsTerm)
	}

	// With conversion enabled the view rescales values into the
	// quantity kind's default unit, and the datastream is cataloged in
	// that unit.
	multiplier, offset := 1.0, 0.0
	unitsID := unit.UnitsID
	if m.UnitConversion {
		multiplier = unit.ConversionMultiplier
		offset = unit.ConversionOffset

		defaultUnit, err := p.defaultUnitFor(unit.QuantityKindCV)
		if err != nil {
			return nil, err
		}
		unitsID = defaultUnit.UnitsID
	}

	canonical := storage.DatastreamTableName(p.feederTable, m.ColumnName, m.TableSuffix())
	view := storage.ViewName(canonical)

	err = p.store.EnsureColumnView(view, p.feederTable, m.ColumnName, multiplier, offset)
	if errors.Is(err, storage.ErrColumnMissing) {
		return nil, errors.Wrap(ErrConfigurationMismatch, err.Error())
	}
	if err != nil {
		return nil, err
	}

	release, err := p.lock.Acquire(ctx, canonical)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := p.store.EnsureDatastreamTable(canonical); err != nil {
		return nil, err
	}
	watermark, err := p.store.Watermark(canonical)
	if err != nil {
		return nil, err
	}

	viewRows, err := p.store.ViewRowsAfter(view, WatermarkLocal(watermark, p.timezone))
	if err != nil {
		return nil, err
	}
	if len(viewRows) == 0 {
		return nil, nil
	}

	rows, err := LocalizeBatch(viewRows, p.timezone)
	if err != nil {
		return nil, err
	}

	validRange, err := p.validRangeFor(variable, unitsID)
	if err != nil {
		return nil, err
	}
	if err := qaqc.Apply(rows, validRange, m.ManualQA); err != nil {
		return nil, err
	}

	if err := p.store.AppendRows(canonical, rows); err != nil {
		return nil, err
	}

	err = p.upsertCatalog(canonical, rows, m.AcquiringInstrumentUUID,
		variable.VariableID, unitsID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *Pipeline) defaultUnitFor(quantityKindCV string) (*storage.Unit, error) {
	qk, err := p.cache.QuantityKind(quantityKindCV)
	if err != nil {
		return nil, err
	}
	if qk == nil {
		return nil, errors.Wrapf(ErrConfigurationMismatch,
			"quantity kind %q not found", quantityKindCV)
	}
	defaultUnit, err := p.cache.Unit(qk.DefaultUnit)
	if err != nil {
		return nil, err
	}
	if defaultUnit == nil {
		return nil, errors.Wrapf(ErrConfigurationMismatch,
			"default unit %q for quantity kind %q not found",
			qk.DefaultUnit, quantityKindCV)
	}
	return defaultUnit, nil
}

// validRangeFor looks up the variable's valid bounds and, when the
// datastream is stored in intentionally non-standard units, rescales
// the bounds to match. Nil when the variable has no configured range.
func (p *Pipeline) validRangeFor(variable *storage.Variable, unitsID int64) (*qaqc.Range, error) {
	vr, err := p.cache.VariableRange(variable.VariableID)
	if err != nil {
		return nil, err
	}
	if vr == nil {
		return nil, nil
	}

	valid := qaqc.Range{Min: vr.MinValidRange, Max: vr.MaxValidRange}

	defaultUnit, err := p.defaultUnitFor(variable.QuantityKindCV)
	if err != nil {
		return nil, err
	}
	if unitsID != defaultUnit.UnitsID {
		valid = valid.ConvertForUnits(
			defaultUnit.ConversionMultiplier, defaultUnit.ConversionOffset)
	}
	return &valid, nil
}
