package routes

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	datastreamIDParam = "id"

	datastreamDataRoute = "/datastream_data/:id"
	datastreamInfoRoute = "/datastreams/:id"
)

func RegisterDatastreamRoutes(router *Router) {
	router.routes.GET(datastreamDataRoute, router.GetDatastreamData)
	router.routes.GET(datastreamInfoRoute, router.GetDatastreamInfo)
}

// @Summary Stream data points of a datastream
// @Description Stream the rows of one datastream filtered by time range and quality flag, optionally downsampled into fixed time buckets
// @Produce json
// @Produce text/csv
// @Param id path integer true "datastream id"
// @Param start_date query string false "inclusive start, date only" format(date)
// @Param start_datetime query string false "inclusive start, full datetime"
// @Param end_date query string false "inclusive end, date only" format(date)
// @Param end_datetime query string false "inclusive end, full datetime"
// @Param qa_flag query string false "quality flag threshold, default z"
// @Param qa_flag_mode query string false "greater_or_eq, less_or_eq or equal"
// @Param open_interval query string false "none, start, end or both"
// @Param downsample_interval query string false "second, minute, hour, day, week, month or year"
// @Param downsample_method query string false "mean, sum, count, stddev, variance, min, max or min_max"
// @Param tz query string false "display timezone, default UTC"
// @Param format query string false "json or csv"
// @Param full_precision query boolean false "emit exact float64 text"
// @Success 200 {array} interface{}
// @Failure 400 {object} ErrorResponse "error message"
// @Failure 404 {object} ErrorResponse "error message"
// @Failure 500 {object} ErrorResponse "error message"
// @Router /datastream_data/{id} [get]
func (r *Router) GetDatastreamData(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param(datastreamIDParam), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "datastream id must be an integer"})
		return
	}

	q, err := parseDataQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ds, err := r.storage.DatastreamByID(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if ds == nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "no datastream with id " + strconv.FormatInt(id, 10)})
		return
	}
	q.row.Table = ds.DatastreamTablename

	cursor, err := r.openCursor(ctx.Request.Context(), q)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	defer cursor.Close()

	if err := streamRows(ctx, cursor, q); err != nil {
		// Headers are out; all that is left is to log and cut the stream.
		r.log.WithError(err).WithField("datastream_id", id).Error("streaming aborted")
	}
}

// @Summary Get catalog metadata of a datastream
// @Description Get the catalog entry of one datastream, including first/last measurement dates and total measurement count
// @Produce json
// @Param id path integer true "datastream id"
// @Success 200 {object} DatastreamInfo
// @Failure 400 {object} ErrorResponse "error message"
// @Failure 404 {object} ErrorResponse "error message"
// @Failure 500 {object} ErrorResponse "error message"
// @Router /datastreams/{id} [get]
func (r *Router) GetDatastreamInfo(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param(datastreamIDParam), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "datastream id must be an integer"})
		return
	}

	ds, err := r.storage.DatastreamByID(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if ds == nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "no datastream with id " + strconv.FormatInt(id, 10)})
		return
	}

	ctx.JSON(http.StatusOK, DatastreamInfo{
		DatastreamID:            ds.DatastreamID,
		DatastreamUUID:          ds.DatastreamUUID,
		EquipmentID:             ds.EquipmentID,
		SamplingFeatureID:       ds.SamplingFeatureID,
		DatastreamType:          ds.DatastreamType,
		VariableID:              ds.VariableID,
		UnitsID:                 ds.UnitsID,
		DatastreamDatabase:      ds.DatastreamDatabase,
		DatastreamTablename:     ds.DatastreamTablename,
		FirstMeasurementDate:    formatDate(ds.FirstMeasurementDate),
		LastMeasurementDate:     formatDate(ds.LastMeasurementDate),
		TotalMeasurementNumbers: ds.TotalMeasurementNumbers,
		DatastreamAttribute:     ds.DatastreamAttribute,
	})
}

func (r *Router) openCursor(ctx context.Context, q *dataQuery) (*sql.Rows, error) {
	if q.downsample != nil {
		return r.storage.DownsampledRows(ctx, q.row, *q.downsample)
	}
	return r.storage.DataRows(ctx, q.row)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(datetimeLayout)
	return &s
}
