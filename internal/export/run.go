package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/dto"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/source/cloudwatch"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/storage/s3"
)

// ClientOptions carries the ambient client settings shared by every
// invocation surface.
type ClientOptions struct {
	// Endpoint overrides the AWS endpoint for local development.
	Endpoint string
}

// Execute validates a request, builds region-scoped clients and runs one
// export pass. Every invocation surface funnels through here so they
// behave identically.
func Execute(ctx context.Context, req *dto.ExportRequest, clients ClientOptions, log *zap.Logger) (*domain.ExportSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export request: %w", err)
	}

	src, err := cloudwatch.NewClient(ctx, cloudwatch.Options{
		Region:   req.AWSRegion,
		Endpoint: clients.Endpoint,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create CloudWatch Logs client: %w", err)
	}

	store, err := s3.NewClient(ctx, s3.Options{
		Region:   req.AWSRegion,
		Bucket:   req.S3BucketName,
		Endpoint: clients.Endpoint,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exporter := New(src, store, Config{
		LogGroup: req.LogGroupName,
		Prefix:   req.LogPrefix,
		MinSize:  req.MinSize,
	}, log)

	return exporter.Run(ctx)
}
