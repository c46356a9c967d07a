package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-gallery-service/config"
	"github.com/tnqbao/gau-gallery-service/http/controller"
	routes "github.com/tnqbao/gau-gallery-service/http/route"
	infraPkg "github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/repository"
	"github.com/tnqbao/gau-gallery-service/service"
	"github.com/tnqbao/gau-gallery-service/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	err := godotenv.Load("staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := infraPkg.InitInfra(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize infra: %v", err)
	}
	repo := repository.InitRepository(cfg, infra)
	svc := service.InitService(cfg, infra, repo)

	ctrl := controller.NewController(cfg, infra, svc)
	router := routes.SetupRouter(ctrl)

	sweeper := worker.NewSweeper(svc, infra.Logger, cfg.EnvConfig.Sweeper.Interval)
	sweeper.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.EnvConfig.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		infra.Logger.InfoWithContextf(ctx, "[HTTP] Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			infra.Logger.ErrorWithContextf(ctx, err, "[HTTP] Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	infra.Logger.InfoWithContextf(shutdownCtx, "[HTTP] Shutting down...")
	sweeper.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		infra.Logger.ErrorWithContextf(shutdownCtx, err, "[HTTP] Graceful shutdown failed")
	}
	if err := infra.Close(shutdownCtx); err != nil {
		log.Printf("Failed to close infra cleanly: %v", err)
	}
	log.Println("Server exited properly")
}
