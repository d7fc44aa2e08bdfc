// Package config loads the toml configuration of each binary. A missing
// file is replaced by a default one so a fresh deployment has something
// to edit instead of a startup error.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

func LoadPipelineConfig(configPath string) (*PipelineConfig, error) {
	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &PipelineConfig{
			DbHost:            "localhost",
			DbPort:            "5432",
			DbUser:            "postgres",
			DbPassword:        "postgres",
			DbName:            "datastreams",
			FeederTable:       "feeder_station",
			SamplingFeatureID: 1,
			SourceTimezone:    "UTC",
			MappingsFile:      "mappings.json",
		}
		if err := writeConfig(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg PipelineConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadAPIConfig(configPath string) (*APIConfig, error) {
	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &APIConfig{
			DbHost:        "localhost",
			DbPort:        "5432",
			DbUser:        "postgres",
			DbPassword:    "postgres",
			DbName:        "datastreams",
			ListenAddress: "0.0.0.0",
			ListenPort:    8080,
		}
		if err := writeConfig(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg APIConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeConfig(configPath string, cfg interface{}) error {
	cfgFile, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer cfgFile.Close()
	return toml.NewEncoder(cfgFile).Encode(cfg)
}
