package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/router"
)

func main() {
	art := kernel.LoadConfig()
	art.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	art.Context = ctx

	if art.DeploymentEnvironment == "production" {
		log.Info().Msg(" === RUNNING IN PRODUCTION MODE ===")
		gin.SetMode(gin.ReleaseMode)
	}

	cleanupFunc, err := art.SetupOtel()
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up telemetry")
	}
	defer cleanupFunc()

	span, _ := art.Diagnostic.BeginTracing(ctx, "main")

	if err = art.Prepare(); err != nil {
		span.RecordError(err)
		span.End()
		log.Fatal().Err(err).Msg("could not prepare runtime")
	}

	if _, err = art.Seed(art.DatabaseClient.WithContext(ctx)); err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("could not seed default admin")
	}
	span.End()

	srv := &http.Server{
		Addr:              art.Host,
		Handler:           router.New(art),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("host", art.Host).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
