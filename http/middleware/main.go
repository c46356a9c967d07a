package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-gallery-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware     gin.HandlerFunc
	TracingMiddleware  gin.HandlerFunc
	LoggerMiddleware   gin.HandlerFunc
	RecoveryMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	tracing := TracingMiddleware(ctrl.Config.EnvConfig.Grafana.ServiceName)
	logger := LoggerMiddleware(ctrl.Infra.Logger)
	recovery := RecoveryMiddleware(ctrl.Infra.Logger)

	return &Middlewares{
		CORSMiddleware:     cors,
		TracingMiddleware:  tracing,
		LoggerMiddleware:   logger,
		RecoveryMiddleware: recovery,
	}, nil
}
