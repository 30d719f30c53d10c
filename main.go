package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoinfo-cms/config"
	"autoinfo-cms/handlers"

	"github.com/gin-gonic/gin"
)

// @title        Auto Info API
// @version      1.0.0
// @description  AI news aggregation API serving articles, categories, tags, media and site statistics.
// @BasePath     /api
func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	conf, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := config.NewLogger(conf.Log)
	slog.SetDefault(logger)

	if !conf.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(conf.Database, logger)
	if err != nil {
		logger.Error("database init failed", "driver", conf.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	router := handlers.SetupRouter(handlers.Deps{Config: conf, DB: db, Log: logger})

	srv := &http.Server{
		Addr:         conf.Server.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(conf.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(conf.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "name", conf.App.Name, "version", conf.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(conf.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
