package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/api"
	"github.com/yourname/wardwatch/internal/app"
	"github.com/yourname/wardwatch/internal/auth"
	"github.com/yourname/wardwatch/internal/config"
)

func main() {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()
	if err := cfg.ValidateServer(); err != nil {
		logger.Fatalf("invalid server config: %v", err)
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, os.Stdout)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	var providers []auth.Provider
	if cfg.JWTSecret != "" {
		providers = append(providers, auth.NewJWTAuthProvider(cfg.JWTSecret, logger))
	}
	if cfg.APIToken != "" && cfg.Env == "development" {
		providers = append(providers, auth.NewLocalAuthProvider(cfg.APIToken, logger))
	}

	router := api.NewRouter(a, api.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		Providers:   providers,
		Gatherer:    a.Registry(),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	var wg sync.WaitGroup
	for _, loop := range []interface{ Run(context.Context) error }{a.Reminder(), a.Monitor()} {
		loop := loop
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Run(ctx); err != nil {
				logger.Errorf("loop exited: %v", err)
			}
		}()
	}

	go func() {
		logger.Infof("Server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	wg.Wait()
}
