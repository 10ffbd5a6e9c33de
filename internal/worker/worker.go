package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/dto"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/queue"
)

// Runner executes one export run for a request.
type Runner func(ctx context.Context, req *dto.ExportRequest) (*domain.ExportSummary, error)

// Config configures the worker loop
type Config struct {
	WaitTimeSeconds int32
}

// Worker drains export requests from a queue and executes one run per
// message, strictly one at a time. A failed run leaves the message on
// the queue for redelivery; an unparseable or invalid request is
// deleted so it cannot poison the queue.
type Worker struct {
	consumer queue.QueueConsumer
	runner   Runner
	config   Config
	log      *zap.Logger
}

// New creates a new worker
func New(consumer queue.QueueConsumer, runner Runner, config Config, log *zap.Logger) *Worker {
	return &Worker{
		consumer: consumer,
		runner:   runner,
		config:   config,
		log:      log,
	}
}

// Start begins receiving export requests until the context is cancelled
func (w *Worker) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker shutting down")
			return nil
		default:
			result, err := w.consumer.ReceiveMessages(ctx, &awssqs.ReceiveMessageInput{
				QueueUrl:            aws.String(w.consumer.QueueURL()),
				MaxNumberOfMessages: 1,
				WaitTimeSeconds:     w.config.WaitTimeSeconds,
			})

			if err != nil {
				if ctx.Err() != nil {
					w.log.Info("Worker shutting down")
					return nil
				}
				w.log.Error("Error receiving messages from SQS", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			for _, msg := range result.Messages {
				w.handle(ctx, msg)
			}
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg types.Message) {
	var req dto.ExportRequest
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &req); err != nil {
		w.log.Error("Discarding malformed export request", zap.Error(err))
		w.delete(ctx, msg)
		return
	}

	if err := req.Validate(); err != nil {
		w.log.Error("Discarding invalid export request",
			zap.Error(err),
			zap.String("log_group", req.LogGroupName))
		w.delete(ctx, msg)
		return
	}

	w.log.Info("Starting export run",
		zap.String("log_group", req.LogGroupName),
		zap.String("bucket", req.S3BucketName),
		zap.String("region", req.AWSRegion))

	summary, err := w.runner(ctx, &req)
	if err != nil {
		// Leave the message on the queue; the next delivery retries the
		// whole run from the committed checkpoint.
		w.log.Error("Export run failed",
			zap.Error(err),
			zap.String("log_group", req.LogGroupName))
		return
	}

	w.log.Info("Export run complete",
		zap.String("log_group", req.LogGroupName),
		zap.Int("copied_objects", summary.CopiedObjects),
		zap.Int64("checkpoint", summary.Checkpoint))

	w.delete(ctx, msg)
}

func (w *Worker) delete(ctx context.Context, msg types.Message) {
	_, err := w.consumer.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.consumer.QueueURL()),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		w.log.Error("Failed to delete message", zap.Error(err))
	}
}
