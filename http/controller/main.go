package controller

import (
	"github.com/tnqbao/gau-gallery-service/config"
	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/service"
)

type Controller struct {
	Config  *config.Config
	Infra   *infra.Infra
	Service *service.Service
}

func NewController(config *config.Config, infra *infra.Infra, svc *service.Service) *Controller {
	if svc == nil {
		panic("Failed to initialize gallery Service")
	}
	return &Controller{
		Config:  config,
		Infra:   infra,
		Service: svc,
	}
}
