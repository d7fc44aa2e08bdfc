package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"observatory-datastreams/src/config"
	"observatory-datastreams/src/pipeline"
	"observatory-datastreams/src/reconcile"
	"observatory-datastreams/src/storage"
)

func main() {
	configPath := flag.String("config", "pipeline.toml", "path to the pipeline config")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadPipelineConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("cannot load config")
	}

	store, err := storage.NewStorage(
		storage.WithDbHost(cfg.DbHost),
		storage.WithDbPort(cfg.DbPort),
		storage.WithDbUser(cfg.DbUser),
		storage.WithDbPassword(cfg.DbPassword),
		storage.WithDbName(cfg.DbName),
		storage.WithRedisAddress(cfg.RedisAddress),
	)
	if err != nil {
		log.WithError(err).Fatal("cannot connect to storage")
	}
	defer store.Close()

	mappings, err := pipeline.LoadMappings(cfg.MappingsFile)
	if err != nil {
		log.WithError(err).Fatal("cannot load column mappings")
	}

	p, err := pipeline.New(store, cfg.FeederTable, cfg.SamplingFeatureID,
		cfg.SourceTimezone, log)
	if err != nil {
		log.WithError(err).Fatal("cannot build pipeline")
	}

	if err := p.Run(context.Background(), mappings); err != nil {
		log.WithError(err).Error("pipeline run finished degraded")
	}

	if cfg.Reconcile {
		ok, err := reconcile.New(store, cfg.ReconcileRepair, log).Run()
		if err != nil {
			log.WithError(err).Fatal("reconciliation failed")
		}
		if !ok {
			log.Warn("reconciliation found inconsistent datastreams")
		}
	}
}
