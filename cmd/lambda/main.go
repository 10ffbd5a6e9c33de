package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/config"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/dto"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/export"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/logger"
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

	handler := func(ctx context.Context, req dto.ExportRequest) (*domain.ExportSummary, error) {
		log.Info("Lambda invoked",
			zap.String("log_group", req.LogGroupName),
			zap.String("bucket", req.S3BucketName),
			zap.String("region", req.AWSRegion))

		summary, err := export.Execute(ctx, &req, export.ClientOptions{
			Endpoint: cfg.AWS.Endpoint,
		}, log)
		if err != nil {
			log.Error("Export failed", zap.Error(err))
			return nil, err
		}

		log.Info("Export finished",
			zap.Int("copied_objects", summary.CopiedObjects),
			zap.Int64("checkpoint", summary.Checkpoint))

		return summary, nil
	}

	lambda.Start(handler)
}
