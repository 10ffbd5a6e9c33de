package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/config"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/dto"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/export"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var req dto.ExportRequest

	cmd := &cobra.Command{
		Use:   "cloudwatch-logs-export",
		Short: "Incrementally copy CloudWatch log events to S3",
		Long: "Copies log events newer than the persisted checkpoint from a CloudWatch Logs " +
			"log group to an S3 bucket, one gzip object per event.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(&req)
		},
	}

	cmd.Flags().StringVar(&req.LogGroupName, "log-group-name", "", "The CloudWatch log group name")
	cmd.Flags().StringVar(&req.S3BucketName, "s3-bucket-name", "", "The destination S3 bucket name")
	cmd.Flags().StringVar(&req.AWSRegion, "aws-region", "", "The AWS region")
	cmd.Flags().StringVar(&req.LogPrefix, "log-prefix", "", "Key prefix for storing logs in S3")
	cmd.Flags().IntVar(&req.MinSize, "min-size", 0, "Minimum event size in bytes to upload")

	cobra.CheckErr(cmd.MarkFlagRequired("log-group-name"))
	cobra.CheckErr(cmd.MarkFlagRequired("s3-bucket-name"))
	cobra.CheckErr(cmd.MarkFlagRequired("aws-region"))

	return cmd
}

func run(req *dto.ExportRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting export",
		zap.String("log_group", req.LogGroupName),
		zap.String("bucket", req.S3BucketName),
		zap.String("region", req.AWSRegion))

	summary, err := export.Execute(context.Background(), req, export.ClientOptions{
		Endpoint: cfg.AWS.Endpoint,
	}, log)
	if err != nil {
		log.Error("Export failed", zap.Error(err))
		return err
	}

	log.Info("Export finished",
		zap.Int("copied_objects", summary.CopiedObjects),
		zap.Int64("checkpoint", summary.Checkpoint),
		zap.Bool("first_run", summary.FirstRun))

	return nil
}
