package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-gallery-service/http/controller"
	middlewares "github.com/tnqbao/gau-gallery-service/http/middleware"
	"github.com/tnqbao/gau-gallery-service/infra"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.New()

	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}
	r.Use(middles.TracingMiddleware, middles.LoggerMiddleware, middles.RecoveryMiddleware, middles.CORSMiddleware)

	cfg := ctrl.Config.EnvConfig
	r.MaxMultipartMemory = cfg.Upload.MaxFileSize

	r.GET("/", ctrl.Index)
	r.GET("/healthz", ctrl.Healthz)

	r.POST("/upload", ctrl.UploadImages)
	r.GET("/images", ctrl.ListImages)
	r.DELETE("/delete/:id", ctrl.DeleteImage)
	r.GET("/download-all", ctrl.DownloadAll)

	// Local uploads are served straight from disk; other blob stores stream through the controller.
	if local, ok := ctrl.Infra.Blobs.(*infra.LocalBlobStore); ok {
		r.Static(cfg.Upload.URLPrefix, local.Root())
	} else {
		r.GET(cfg.Upload.URLPrefix+"/*filepath", ctrl.ServeUpload)
	}
	r.Static("/assets", cfg.App.AssetsDir)

	return r
}
