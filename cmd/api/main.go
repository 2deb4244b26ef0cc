package main

import (
	"flag"
	"log"
	"net/http"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"approval-service/internal/api"
	"approval-service/internal/config"
	"approval-service/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("unable to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		logger.Fatal("unable to create Temporal client", zap.Error(err))
	}
	defer tc.Close()

	srv := api.NewServer(tc, cfg.Temporal.TaskQueue, logger)

	logger.Info("api listening", zap.String("addr", cfg.API.Listen))
	if err := http.ListenAndServe(cfg.API.Listen, srv.Routes()); err != nil {
		logger.Fatal("api exited", zap.Error(err))
	}
}
