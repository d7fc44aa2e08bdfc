package routes

// swagger:model
type DatastreamInfo struct {
	DatastreamID            int64   `json:"datastream_id"`
	DatastreamUUID          string  `json:"datastream_uuid"`
	EquipmentID             int64   `json:"equipment_id"`
	SamplingFeatureID       int64   `json:"sampling_feature_id"`
	DatastreamType          string  `json:"datastream_type"`
	VariableID              int64   `json:"variable_id"`
	UnitsID                 int64   `json:"units_id"`
	DatastreamDatabase      string  `json:"datastream_database"`
	DatastreamTablename     string  `json:"datastream_tablename"`
	FirstMeasurementDate    *string `json:"first_measurement_date"`
	LastMeasurementDate     *string `json:"last_measurement_date"`
	TotalMeasurementNumbers int64   `json:"total_measurement_numbers"`
	DatastreamAttribute     string  `json:"datastream_attribute"`
}

// swagger:model
type ErrorResponse struct {
	Error string `json:"error"`
}
