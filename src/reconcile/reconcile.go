// Package reconcile audits datastream catalog metadata against the
// canonical tables it describes. The pipeline maintains first/last/count
// incrementally, which is cheap but can drift; this batch job recomputes
// the truth, reports mismatches, and optionally repairs them.
package reconcile

import (
	"time"

	"github.com/sirupsen/logrus"

	"observatory-datastreams/src/storage"
)

// minRawRowsForWarning is the raw row count past which a datastream
// with zero passed rows is treated as a QA misconfiguration rather
// than a short or empty stream.
const minRawRowsForWarning = 10

type Reconciler struct {
	store  *storage.Storage
	log    *logrus.Entry
	repair bool
}

func New(store *storage.Storage, repair bool, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		log:    log.WithField("component", "reconciler"),
		repair: repair,
	}
}

// Run checks every catalog entry. It returns true when all entries
// agree with their tables; drift is never fatal.
func (r *Reconciler) Run() (bool, error) {
	datastreams, err := r.store.AllDatastreams()
	if err != nil {
		return false, err
	}

	passed := true
	for _, ds := range datastreams {
		ok, err := r.checkOne(&ds)
		if err != nil {
			return false, err
		}
		if !ok {
			passed = false
		}
	}
	return passed, nil
}

func (r *Reconciler) checkOne(ds *storage.Datastream) (bool, error) {
	log := r.log.WithFields(logrus.Fields{
		"datastream_id": ds.DatastreamID,
		"table":         ds.DatastreamTablename,
	})

	truth, err := r.store.RecomputeSummary(ds.DatastreamTablename)
	if err != nil {
		return false, err
	}

	ok := true
	if !sameInstant(ds.FirstMeasurementDate, truth.First) ||
		!sameInstant(ds.LastMeasurementDate, truth.Last) ||
		ds.TotalMeasurementNumbers != truth.Count {
		ok = false
		log.WithFields(logrus.Fields{
			"stored_first": formatInstant(ds.FirstMeasurementDate),
			"stored_last":  formatInstant(ds.LastMeasurementDate),
			"stored_count": ds.TotalMeasurementNumbers,
			"actual_first": formatInstant(truth.First),
			"actual_last":  formatInstant(truth.Last),
			"actual_count": truth.Count,
		}).Warn("datastream has inconsistent metadata")

		if r.repair {
			if err := r.store.UpdateDatastreamSummary(ds.DatastreamID, truth); err != nil {
				return false, err
			}
			log.Info("metadata repaired from canonical table")
		}
	}

	if truth.Count == 0 {
		empty, err := r.warnIfAllFiltered(ds, log)
		if err != nil {
			return false, err
		}
		if empty {
			ok = false
		}
	}
	return ok, nil
}

// warnIfAllFiltered surfaces datastreams where every raw row failed
// QA despite a non-trivial amount of data. That pattern usually means a
// misconfigured valid range or unit mismatch, not a bad sensor.
func (r *Reconciler) warnIfAllFiltered(ds *storage.Datastream, log *logrus.Entry) (bool, error) {
	rawTotal, err := r.store.CanonicalRowCount(ds.DatastreamTablename)
	if err != nil {
		return false, err
	}
	if rawTotal < minRawRowsForWarning {
		return false, nil
	}

	log = log.WithField("raw_rows", rawTotal)
	log.Warn("datastream has no measurements that pass qa/qc")

	if vr, rangeErr := r.store.VariableRangeByID(ds.VariableID); rangeErr == nil && vr != nil {
		log.WithFields(logrus.Fields{
			"min_valid_range": vr.MinValidRange,
			"max_valid_range": vr.MaxValidRange,
		}).Warn("configured valid range")
	}

	recent, err := r.store.RecentNonNullRows(ds.DatastreamTablename, 10)
	if err != nil {
		return false, err
	}
	if len(recent) == 0 {
		log.Warn("there are no non-null datapoints")
		return true, nil
	}
	for _, row := range recent {
		log.WithFields(logrus.Fields{
			"utc_time":   time.Unix(row.UTCTime, 0).UTC().Format(time.RFC3339),
			"data_value": row.DataValue,
			"qa_flag":    row.QAFlag,
		}).Warn("recent datapoint")
	}
	return true, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Unix() == b.Unix()
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format(time.RFC3339)
}
