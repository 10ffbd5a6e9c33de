package sqs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	envConfig "github.com/vijayrajadevops/cloudwatch-logs-export/internal/config"
)

// Client represents an SQS client for the export request queue
type Client struct {
	client   *sqs.Client
	queueURL string
	log      *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, workerConfig envConfig.Worker, endpoint string, log *zap.Logger) (*Client, error) {
	if workerConfig.QueueURL == "" {
		return nil, fmt.Errorf("worker queue URL is not configured")
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(workerConfig.QueueRegion),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", workerConfig.QueueRegion),
		zap.String("queue_url", workerConfig.QueueURL))

	return &Client{
		client:   sqs.NewFromConfig(cfg, clientOpts...),
		queueURL: workerConfig.QueueURL,
		log:      log,
	}, nil
}

// ReceiveMessages receives messages from SQS
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.queueURL
}
