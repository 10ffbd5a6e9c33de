package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/config"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/dto"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/export"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/logger"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/queue/sqs"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting export worker",
		zap.String("environment", cfg.Service.Environment),
		zap.String("queue_url", cfg.Worker.QueueURL))

	ctx := context.Background()

	sqsClient, err := sqs.NewClient(ctx, cfg.Worker, cfg.AWS.Endpoint, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	runner := func(runCtx context.Context, req *dto.ExportRequest) (*domain.ExportSummary, error) {
		return export.Execute(runCtx, req, export.ClientOptions{
			Endpoint: cfg.AWS.Endpoint,
		}, log)
	}

	w := worker.New(sqsClient, runner, worker.Config{
		WaitTimeSeconds: cfg.Worker.WaitTimeSeconds,
	}, log)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := w.Start(workerCtx); err != nil {
			log.Fatal("Worker error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker gracefully")
	cancel()
}
