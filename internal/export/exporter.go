package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/checkpoint"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/source"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/storage"
)

// Config holds the per-run job inputs.
type Config struct {
	LogGroup string
	Prefix   string
	MinSize  int
}

// Exporter copies log events newer than the persisted checkpoint from
// one log group to the destination store, one gzip object per event.
// A run is strictly sequential and aborts on the first failure.
type Exporter struct {
	source      source.LogSource
	objects     storage.ObjectStore
	checkpoints *checkpoint.Store
	config      Config
	log         *zap.Logger
}

// New creates an exporter for one job configuration.
func New(src source.LogSource, objects storage.ObjectStore, config Config, log *zap.Logger) *Exporter {
	return &Exporter{
		source:      src,
		objects:     objects,
		checkpoints: checkpoint.NewStore(objects, config.Prefix, log),
		config:      config,
		log:         log,
	}
}

// Run executes one export pass: verify destination, load checkpoint,
// enumerate streams, copy qualifying events, advance the checkpoint.
// The checkpoint is only written when at least one object was copied,
// so a no-op run never clobbers a valid prior checkpoint.
func (e *Exporter) Run(ctx context.Context) (*domain.ExportSummary, error) {
	if err := e.objects.EnsureBucket(ctx); err != nil {
		if errors.Is(err, storage.ErrBucketNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrDestinationNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrDestinationUnavailable, err)
	}

	lastWritten, found, err := e.checkpoints.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckpointRead, err)
	}

	// On the first run there is no notion of "already seen", so the
	// size filter is forced off regardless of configuration.
	minSize := e.config.MinSize
	if !found {
		minSize = 0
	}

	streams, err := e.source.ListStreams(ctx, e.config.LogGroup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventTransfer, err)
	}

	// Stream-level prefilter. Event-level filtering below is
	// authoritative; this only skips streams known to hold nothing new.
	pending := make([]domain.LogStream, 0, len(streams))
	for _, stream := range streams {
		if stream.LastEventTime > lastWritten || stream.LastEventTime == 0 {
			pending = append(pending, stream)
		}
	}

	e.log.Info("Enumerated log streams",
		zap.String("log_group", e.config.LogGroup),
		zap.Int("total_streams", len(streams)),
		zap.Int("streams_to_process", len(pending)))

	copied := 0
	var lastWrittenThisRun int64

	for _, stream := range pending {
		e.log.Info("Processing log stream", zap.String("stream", stream.Name))

		err := e.source.EachEvent(ctx, e.config.LogGroup, stream.Name, lastWritten+1, func(event domain.LogEvent) error {
			// The start bound already excludes the boundary event;
			// this re-check guards against sources that ignore it.
			if event.Timestamp <= lastWritten {
				return nil
			}

			size := len(event.Message)
			if size < minSize {
				return nil
			}

			compressed, err := compress([]byte(event.Message))
			if err != nil {
				return fmt.Errorf("failed to compress event at %d in stream %q: %w", event.Timestamp, stream.Name, err)
			}

			key := ObjectKey(e.config.Prefix, stream.Name, event.Timestamp)

			e.log.Info("Copying log event",
				zap.String("stream", stream.Name),
				zap.Int64("timestamp", event.Timestamp),
				zap.Int("original_size", size),
				zap.Int("compressed_size", len(compressed)))

			if err := e.objects.Put(ctx, key, compressed); err != nil {
				return fmt.Errorf("failed to upload %q: %w", key, err)
			}

			// The high-water mark moves only after a confirmed write, so
			// it can never run ahead of what actually landed in the store.
			copied++
			if event.Timestamp > lastWrittenThisRun {
				lastWrittenThisRun = event.Timestamp
			}

			e.log.Info("Uploaded object", zap.String("key", key))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEventTransfer, err)
		}
	}

	e.log.Info("Copy pass complete", zap.Int("copied_objects", copied))

	summary := &domain.ExportSummary{
		CopiedObjects: copied,
		Checkpoint:    lastWritten,
		FirstRun:      !found,
	}

	if lastWrittenThisRun > 0 {
		if err := e.checkpoints.Save(ctx, lastWrittenThisRun); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCheckpointWrite, err)
		}
		summary.Checkpoint = lastWrittenThisRun
	}

	e.log.Info("Log export complete",
		zap.Int("copied_objects", summary.CopiedObjects),
		zap.Int64("checkpoint", summary.Checkpoint))

	return summary, nil
}

// compress gzips a payload into a fresh buffer.
func compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
