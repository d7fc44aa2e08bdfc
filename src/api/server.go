// Package api exposes read-only access to materialized datastreams.
package api

import (
	"github.com/sirupsen/logrus"

	"observatory-datastreams/src/api/routes"
	"observatory-datastreams/src/storage"
)

type Server struct {
	router *routes.Router
}

func DefaultApiServer(storage *storage.Storage, log *logrus.Logger) *Server {
	return &Server{router: routes.NewRouter(storage, log)}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
