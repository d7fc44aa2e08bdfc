package reconcile

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"observatory-datastreams/src/model"
	"observatory-datastreams/src/storage"
)

const testCanonicalTable = "reconcile_test_wtemp_meas"

func TestReconcilerTestSuite(t *testing.T) {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set")
	}
	suite.Run(t, new(ReconcilerTestSuite))
}

type ReconcilerTestSuite struct {
	suite.Suite
	storage *storage.Storage
	log     *logrus.Logger
}

func (s *ReconcilerTestSuite) SetupSuite() {
	st, err := storage.NewStorage(
		storage.WithDbHost(os.Getenv("POSTGRES_HOST")),
		storage.WithDbPort(os.Getenv("POSTGRES_PORT")),
		storage.WithDbUser(os.Getenv("POSTGRES_USER")),
		storage.WithDbPassword(os.Getenv("POSTGRES_PASSWORD")),
		storage.WithDbName(os.Getenv("POSTGRES_NAME")),
	)
	s.Require().NoError(err, err)
	s.storage = st

	s.log = logrus.New()
	s.log.SetOutput(io.Discard)
}

func (s *ReconcilerTestSuite) TearDownSuite() {
	s.NoError(s.storage.Close())
}

func (s *ReconcilerTestSuite) SetupTest() {
	s.Require().NoError(s.storage.EnsureDatastreamTable(testCanonicalTable))
}

func (s *ReconcilerTestSuite) TearDownTest() {
	s.storage.DropCanonicalTable(testCanonicalTable)
	s.storage.DeleteDatastreamByTableName(testCanonicalTable)
}

func (s *ReconcilerTestSuite) seedDatastream(first, last *time.Time, count int64) *storage.Datastream {
	ds := &storage.Datastream{
		DatastreamUUID:          uuid.NewString(),
		DatastreamType:          "physicalsensor",
		DatastreamDatabase:      "datastreams",
		DatastreamTablename:     testCanonicalTable,
		FirstMeasurementDate:    first,
		LastMeasurementDate:     last,
		TotalMeasurementNumbers: count,
	}
	s.Require().NoError(s.storage.SaveDatastream(ds))
	return ds
}

func (s *ReconcilerTestSuite) TestConsistentMetadataPasses() {
	rows := []model.Row{
		{UTCTime: 1700000000, DataValue: 4.2, QAFlag: "z"},
		{UTCTime: 1700000600, DataValue: 4.4, QAFlag: "z"},
		{UTCTime: 1700001200, DataValue: -40, QAFlag: "f"},
	}
	s.Require().NoError(s.storage.AppendRows(testCanonicalTable, rows))

	first := time.Unix(1700000000, 0).UTC()
	last := time.Unix(1700000600, 0).UTC()
	s.seedDatastream(&first, &last, 2)

	ok, err := New(s.storage, false, s.log).Run()
	s.Require().NoError(err, err)
	s.True(ok)
}

func (s *ReconcilerTestSuite) TestDriftDetectedWithoutRepair() {
	rows := []model.Row{
		{UTCTime: 1700000000, DataValue: 4.2, QAFlag: "z"},
		{UTCTime: 1700000600, DataValue: 4.4, QAFlag: "z"},
	}
	s.Require().NoError(s.storage.AppendRows(testCanonicalTable, rows))

	first := time.Unix(1700000000, 0).UTC()
	seeded := s.seedDatastream(&first, &first, 1)

	ok, err := New(s.storage, false, s.log).Run()
	s.Require().NoError(err, err)
	s.False(ok)

	// Without repair the stored metadata must stay as it was.
	ds, err := s.storage.DatastreamByID(seeded.DatastreamID)
	s.Require().NoError(err, err)
	s.Require().NotNil(ds)
	s.EqualValues(1, ds.TotalMeasurementNumbers)
}

func (s *ReconcilerTestSuite) TestDriftRepaired() {
	rows := []model.Row{
		{UTCTime: 1700000000, DataValue: 4.2, QAFlag: "z"},
		{UTCTime: 1700000600, DataValue: 4.4, QAFlag: "z"},
	}
	s.Require().NoError(s.storage.AppendRows(testCanonicalTable, rows))

	first := time.Unix(1700000000, 0).UTC()
	seeded := s.seedDatastream(&first, &first, 1)

	ok, err := New(s.storage, true, s.log).Run()
	s.Require().NoError(err, err)
	s.False(ok)

	ds, err := s.storage.DatastreamByID(seeded.DatastreamID)
	s.Require().NoError(err, err)
	s.Require().NotNil(ds)
	s.EqualValues(2, ds.TotalMeasurementNumbers)
	s.Require().NotNil(ds.LastMeasurementDate)
	s.EqualValues(1700000600, ds.LastMeasurementDate.Unix())

	// A second run sees the repaired metadata and passes.
	ok, err = New(s.storage, false, s.log).Run()
	s.Require().NoError(err, err)
	s.True(ok)
}

func (s *ReconcilerTestSuite) TestAllRowsFilteredWarns() {
	var rows []model.Row
	for i := 0; i < 12; i++ {
		rows = append(rows, model.Row{
			UTCTime:   1700000000 + int64(i)*600,
			DataValue: -99,
			QAFlag:    "f",
		})
	}
	s.Require().NoError(s.storage.AppendRows(testCanonicalTable, rows))
	s.seedDatastream(nil, nil, 0)

	ok, err := New(s.storage, true, s.log).Run()
	s.Require().NoError(err, err)
	s.False(ok)
}

func (s *ReconcilerTestSuite) TestShortEmptyStreamDoesNotWarn() {
	rows := []model.Row{
		{UTCTime: 1700000000, DataValue: -99, QAFlag: "f"},
	}
	s.Require().NoError(s.storage.AppendRows(testCanonicalTable, rows))
	s.seedDatastream(nil, nil, 0)

	ok, err := New(s.storage, false, s.log).Run()
	s.Require().NoError(err, err)
	s.True(ok)
}
