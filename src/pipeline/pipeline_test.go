package pipeline

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"observatory-datastreams/src/model"
	"observatory-datastreams/src/qaqc"
	"observatory-datastreams/src/storage"
)

const (
	pipelineFeederTable = "feeder_pipeline_test"
	pipelineCanonical   = "feeder_pipeline_test_wtemp_meas"
	instrumentUUID      = "c0ffee00-0000-0000-0000-0000000000aa"
)

func TestPipelineTestSuite(t *testing.T) {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set")
	}
	suite.Run(t, new(PipelineTestSuite))
}

type PipelineTestSuite struct {
	suite.Suite
	storage *storage.Storage
	raw     *gorm.DB

	equipmentID int64
}

func (s *PipelineTestSuite) SetupSuite() {
	store, err := storage.NewStorage(
		storage.WithDbHost(os.Getenv("POSTGRES_HOST")),
		storage.WithDbPort(os.Getenv("POSTGRES_PORT")),
		storage.WithDbUser(os.Getenv("POSTGRES_USER")),
		storage.WithDbPassword(os.Getenv("POSTGRES_PASSWORD")),
		storage.WithDbName(os.Getenv("POSTGRES_NAME")),
	)
	s.Require().NoError(err, err)
	s.storage = store

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_NAME"),
		os.Getenv("POSTGRES_PORT"),
	)
	raw, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err, err)
	s.raw = raw

	err = s.raw.Exec(`
		CREATE TABLE IF NOT EXISTS ` + pipelineFeederTable + ` (
			timestamp TIMESTAMP PRIMARY KEY,
			wtemp DOUBLE PRECISION
		)`).Error
	s.Require().NoError(err, err)

	s.seedReferenceData()
}

func (s *PipelineTestSuite) seedReferenceData() {
	s.Require().NoError(s.storage.SaveQuantityKind(&storage.QuantityKind{
		Term: "temperature", DefaultUnit: "degreeCelsius",
	}))
	s.Require().NoError(s.storage.SaveUnit(&storage.Unit{
		Term: "degreeCelsius", QuantityKindCV: "temperature",
		ConversionMultiplier: 1, ConversionOffset: 0,
	}))

	variable := &storage.Variable{
		VariableTerm: "waterTemperature", QuantityKindCV: "temperature",
	}
	s.Require().NoError(s.storage.SaveVariable(variable))
	s.Require().NoError(s.storage.SaveVariableRange(&storage.VariableRange{
		VariableID: variable.VariableID, MinValidRange: -5, MaxValidRange: 40,
	}))

	equipment := &storage.Equipment{
		EquipmentUUID: instrumentUUID, EquipmentCode: "AT200",
	}
	s.Require().NoError(s.storage.SaveEquipment(equipment))
	s.equipmentID = equipment.EquipmentID
}

func (s *PipelineTestSuite) TearDownSuite() {
	s.raw.Exec(`DROP VIEW IF EXISTS ` + pipelineCanonical + `_view`)
	s.raw.Exec(`DROP TABLE IF EXISTS ` + pipelineCanonical)
	s.raw.Exec(`DROP TABLE IF EXISTS ` + pipelineFeederTable)
	s.NoError(s.storage.Close())
}

func (s *PipelineTestSuite) TearDownTest() {
	s.raw.Exec(`DROP VIEW IF EXISTS ` + pipelineCanonical + `_view`)
	s.raw.Exec(`DROP TABLE IF EXISTS ` + pipelineCanonical)
	s.raw.Exec(`DELETE FROM ` + pipelineFeederTable)
	s.raw.Exec(`DELETE FROM ` + storage.DatastreamTable)
	s.raw.Exec(`DELETE FROM ` + storage.EquipmentPositionTable)
	s.raw.Exec(`DELETE FROM ` + storage.EquipmentAttachmentTable)
}

func (s *PipelineTestSuite) insertRaw(ts string, value float64) {
	err := s.raw.Exec(
		`INSERT INTO `+pipelineFeederTable+` (timestamp, wtemp) VALUES (?, ?)`,
		ts, value).Error
	s.Require().NoError(err, err)
}

func (s *PipelineTestSuite) newPipeline() *Pipeline {
	p, err := New(s.storage, pipelineFeederTable, 1, "UTC", logrus.New())
	s.Require().NoError(err, err)
	return p
}

func (s *PipelineTestSuite) mapping() model.Mapping {
	return model.Mapping{
		ColumnName:              "wtemp",
		VariableTerm:            "waterTemperature",
		UnitsTerm:               "degreeCelsius",
		AcquiringInstrumentUUID: instrumentUUID,
		ExposeAsDatastream:      true,
		SensorType:              "measured",
	}
}

func (s *PipelineTestSuite) TestMaterializeAndIdempotence() {
	s.insertRaw("2023-06-01 00:00:00", 4.2)
	s.insertRaw("2023-06-01 00:10:00", 4.4)
	s.insertRaw("2023-06-01 00:20:00", 99.0) // out of valid range

	err := s.newPipeline().Run(context.Background(), []model.Mapping{s.mapping()})
	s.Require().NoError(err, err)

	ds, err := s.storage.DatastreamByTableName(pipelineCanonical)
	s.Require().NoError(err, err)
	s.Require().NotNil(ds)
	s.EqualValues(2, ds.TotalMeasurementNumbers)
	s.Require().NotNil(ds.FirstMeasurementDate)
	firstDate := *ds.FirstMeasurementDate

	mark, err := s.storage.Watermark(pipelineCanonical)
	s.Require().NoError(err, err)

	// Re-running with no new raw data must change nothing.
	err = s.newPipeline().Run(context.Background(), []model.Mapping{s.mapping()})
	s.Require().NoError(err, err)

	markAgain, err := s.storage.Watermark(pipelineCanonical)
	s.Require().NoError(err, err)
	s.Equal(mark, markAgain)

	dsAgain, err := s.storage.DatastreamByTableName(pipelineCanonical)
	s.Require().NoError(err, err)
	s.EqualValues(2, dsAgain.TotalMeasurementNumbers)
	s.Equal(firstDate.Unix(), dsAgain.FirstMeasurementDate.Unix())
}

func (s *PipelineTestSuite) TestIncrementalAdvance() {
	s.insertRaw("2023-06-01 00:00:00", 4.2)
	err := s.newPipeline().Run(context.Background(), []model.Mapping{s.mapping()})
	s.Require().NoError(err, err)

	mark1, err := s.storage.Watermark(pipelineCanonical)
	s.Require().NoError(err, err)

	s.insertRaw("2023-06-01 01:00:00", 5.0)
	err = s.newPipeline().Run(context.Background(), []model.Mapping{s.mapping()})
	s.Require().NoError(err, err)

	mark2, err := s.storage.Watermark(pipelineCanonical)
	s.Require().NoError(err, err)
	s.Greater(mark2, mark1)

	total, err := s.storage.CanonicalRowCount(pipelineCanonical)
	s.Require().NoError(err, err)
	s.EqualValues(2, total)
}

func (s *PipelineTestSuite) TestUnknownVariableAbortsColumnOnly() {
	s.insertRaw("2023-06-01 00:00:00", 4.2)

	broken := s.mapping()
	broken.ColumnName = "wtemp"
	broken.VariableTerm = "noSuchVariable"

	err := s.newPipeline().Run(context.Background(),
		[]model.Mapping{broken, s.mapping()})

	// The broken column surfaces in the combined error but the healthy
	// column still materialized.
	s.Error(err)
	s.ErrorIs(err, ErrConfigurationMismatch)

	total, err := s.storage.CanonicalRowCount(pipelineCanonical)
	s.Require().NoError(err, err)
	s.EqualValues(1, total)
}

func (s *PipelineTestSuite) TestOffsetResolutionThreeLevels() {
	mount := &storage.Equipment{
		EquipmentUUID: "c0ffee00-0000-0000-0000-0000000000bb",
		EquipmentCode: "MAST",
	}
	s.Require().NoError(s.storage.SaveEquipment(mount))
	root := &storage.Equipment{
		EquipmentUUID: "c0ffee00-0000-0000-0000-0000000000cc",
		EquipmentCode: "WELL",
	}
	s.Require().NoError(s.storage.SaveEquipment(root))

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, pos := range []struct {
		id     int64
		offset float64
	}{
		{s.equipmentID, -1.0},
		{mount.EquipmentID, 0.5},
		{root.EquipmentID, -0.2},
	} {
		offset := pos.offset
		s.Require().NoError(s.storage.SaveEquipmentPosition(&storage.EquipmentPosition{
			EquipmentID:          pos.id,
			PositionStartDateUTC: &start,
			ZOffsetM:             &offset,
		}))
	}

	s.Require().NoError(s.storage.SaveEquipmentAttachment(&storage.EquipmentAttachment{
		EquipmentID:          s.equipmentID,
		RelatedEquipmentID:   mount.EquipmentID,
		RelationshipStartUTC: &start,
	}))
	s.Require().NoError(s.storage.SaveEquipmentAttachment(&storage.EquipmentAttachment{
		EquipmentID:          mount.EquipmentID,
		RelatedEquipmentID:   root.EquipmentID,
		RelationshipStartUTC: &start,
	}))

	total, err := ResolveVerticalOffset(s.storage, s.equipmentID)
	s.Require().NoError(err, err)
	s.InDelta(-0.7, total, 1e-9)
}

func (s *PipelineTestSuite) TestManualOverrideFlagsBatch() {
	s.insertRaw("2023-06-01 00:00:00", 4.2)

	m := s.mapping()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	m.ManualQA = []model.QAWindow{{Start: &start, Flag: "q"}}

	p := s.newPipeline()
	err := p.Run(context.Background(), []model.Mapping{m})
	s.Require().NoError(err, err)

	summary, err := s.storage.RecomputeSummary(pipelineCanonical)
	s.Require().NoError(err, err)
	s.EqualValues(0, summary.Count)

	recent, err := s.storage.RecentNonNullRows(pipelineCanonical, 10)
	s.Require().NoError(err, err)
	s.Require().Len(recent, 1)
	s.Equal("q", recent[0].QAFlag)
	s.NotEqual(qaqc.FlagPassed, recent[0].QAFlag)
}
