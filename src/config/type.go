package config

type PipelineConfig struct {
	DbHost       string `toml:"db_host"`
	DbPort       string `toml:"db_port"`
	DbUser       string `toml:"db_user"`
	DbPassword   string `toml:"db_password"`
	DbName       string `toml:"db_name"`
	RedisAddress string `toml:"redis_address"`

	FeederTable       string `toml:"feeder_table"`
	SamplingFeatureID int64  `toml:"sampling_feature_id"`
	SourceTimezone    string `toml:"source_timezone"`
	MappingsFile      string `toml:"mappings_file"`

	Reconcile       bool `toml:"reconcile"`
	ReconcileRepair bool `toml:"reconcile_repair"`
}

type APIConfig struct {
	DbHost     string `toml:"db_host"`
	DbPort     string `toml:"db_port"`
	DbUser     string `toml:"db_user"`
	DbPassword string `toml:"db_password"`
	DbName     string `toml:"db_name"`

	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
}
