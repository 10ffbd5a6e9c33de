package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/storage"
)

// Client is an S3-backed storage.ObjectStore scoped to one bucket.
type Client struct {
	client *awss3.Client
	bucket string
	log    *zap.Logger
}

// Options configures client construction.
type Options struct {
	Region string
	Bucket string

	// Endpoint points the client at a local S3 stand-in (LocalStack)
	// with static dummy credentials. Empty means real AWS.
	Endpoint string
}

// NewClient creates a new S3 client
func NewClient(ctx context.Context, opts Options, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}

	var clientOpts []func(*awss3.Options)

	if opts.Endpoint != "" {
		log.Info("Configuring S3 for local development",
			zap.String("endpoint", opts.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("S3 client created",
		zap.String("region", opts.Region),
		zap.String("bucket", opts.Bucket))

	return &Client{
		client: awss3.NewFromConfig(cfg, clientOpts...),
		bucket: opts.Bucket,
		log:    log,
	}, nil
}

// EnsureBucket verifies the bucket exists and is accessible via HeadBucket.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("bucket %q: %w", c.bucket, storage.ErrBucketNotFound)
		}
		return fmt.Errorf("failed to access bucket %q: %w", c.bucket, err)
	}
	return nil
}

// Get reads the full body of an object.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("object %q: %w", key, storage.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q body: %w", key, err)
	}
	return body, nil
}

// Put writes an object, overwriting any existing body at key.
func (c *Client) Put(ctx context.Context, key string, body []byte) error {
	_, err := c.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %q: %w", key, err)
	}
	return nil
}
