package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"observatory-datastreams/src/api"
	"observatory-datastreams/src/config"
	"observatory-datastreams/src/storage"
)

func main() {
	configPath := flag.String("config", "api.toml", "path to the api config")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadAPIConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("cannot load config")
	}

	store, err := storage.NewStorage(
		storage.WithDbHost(cfg.DbHost),
		storage.WithDbPort(cfg.DbPort),
		storage.WithDbUser(cfg.DbUser),
		storage.WithDbPassword(cfg.DbPassword),
		storage.WithDbName(cfg.DbName),
	)
	if err != nil {
		log.WithError(err).Fatal("cannot connect to storage")
	}
	defer store.Close()

	server := api.DefaultApiServer(store, log)
	addr := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	if err := server.Run(addr); err != nil {
		log.WithError(err).Fatal("api server stopped")
	}
}
