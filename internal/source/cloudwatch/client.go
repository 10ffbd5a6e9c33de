package cloudwatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
)

// Client wraps the CloudWatch Logs API for one region.
type Client struct {
	client *cloudwatchlogs.Client
	log    *zap.Logger
}

// Options configures client construction.
type Options struct {
	Region string

	// Endpoint points the client at a local stand-in with static dummy
	// credentials. Empty means real AWS.
	Endpoint string
}

// NewClient creates a new CloudWatch Logs client
func NewClient(ctx context.Context, opts Options, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}

	var clientOpts []func(*cloudwatchlogs.Options)

	if opts.Endpoint != "" {
		log.Info("Configuring CloudWatch Logs for local development",
			zap.String("endpoint", opts.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *cloudwatchlogs.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("CloudWatch Logs client created", zap.String("region", opts.Region))

	return &Client{
		client: cloudwatchlogs.NewFromConfig(cfg, clientOpts...),
		log:    log,
	}, nil
}

// ListStreams returns all streams in the group ordered by last event
// time descending. The paginator is drained fully; the ordering is
// cosmetic since filtering is authoritative at the event level.
func (c *Client) ListStreams(ctx context.Context, group string) ([]domain.LogStream, error) {
	paginator := cloudwatchlogs.NewDescribeLogStreamsPaginator(c.client, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(group),
		OrderBy:      types.OrderByLastEventTime,
		Descending:   aws.Bool(true),
	})

	var streams []domain.LogStream
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe log streams for group %q: %w", group, err)
		}

		for _, ls := range page.LogStreams {
			stream := domain.LogStream{
				Name: aws.ToString(ls.LogStreamName),
			}
			if ls.LastEventTimestamp != nil {
				stream.LastEventTime = *ls.LastEventTimestamp
			}
			streams = append(streams, stream)
		}
	}

	return streams, nil
}

// EachEvent iterates all events of one stream with timestamp >= startTime.
func (c *Client) EachEvent(ctx context.Context, group, stream string, startTime int64, fn func(domain.LogEvent) error) error {
	paginator := cloudwatchlogs.NewFilterLogEventsPaginator(c.client, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:   aws.String(group),
		LogStreamNames: []string{stream},
		StartTime:      aws.Int64(startTime),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to filter log events for stream %q: %w", stream, err)
		}

		for _, ev := range page.Events {
			event := domain.LogEvent{
				StreamName: stream,
				Timestamp:  aws.ToInt64(ev.Timestamp),
				Message:    aws.ToString(ev.Message),
			}
			if err := fn(event); err != nil {
				return err
			}
		}
	}

	return nil
}
