package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"approval-service/internal/activities"
	"approval-service/internal/approval"
	"approval-service/internal/chain"
	"approval-service/internal/config"
	"approval-service/internal/logging"
	"approval-service/internal/workflows"
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

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		logger.Fatal("unable to create Temporal client", zap.Error(err))
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	reader, closeReader, err := chain.Dial(ctx, cfg.Chain.RPCURL)
	cancel()
	if err != nil {
		logger.Fatal("unable to connect to chain", zap.Error(err))
	}
	defer closeReader()

	oracle := approval.NewOracle(reader)
	if cfg.Chain.CanonicalOperator != "" {
		oracle.CanonicalOperator = common.HexToAddress(cfg.Chain.CanonicalOperator)
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.ResolveApprovals)
	w.RegisterActivity(&activities.Activities{Oracle: oracle})

	logger.Info("worker started",
		zap.String("taskQueue", cfg.Temporal.TaskQueue),
		zap.String("canonicalOperator", oracle.CanonicalOperator.Hex()))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker exited", zap.Error(err))
	}
}
