package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "observatory-datastreams/src/api/doc"
	"observatory-datastreams/src/storage"
)

type Router struct {
	routes  *gin.Engine
	storage *storage.Storage
	log     *logrus.Entry
}

func NewRouter(storage *storage.Storage, log *logrus.Logger) *Router {
	r := &Router{
		routes:  gin.Default(),
		storage: storage,
		log:     log.WithField("component", "api"),
	}

	RegisterDatastreamRoutes(r)

	r.routes.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

func (r *Router) Run(addr string) error {
	return r.routes.Run(addr)
}
