package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/storage"
)

// Key returns the checkpoint object key for a prefix. An empty prefix
// still yields a leading slash; existing deployments depend on that
// exact key.
func Key(prefix string) string {
	return prefix + "/config_file"
}

// Store persists the export checkpoint, a single epoch-millisecond
// timestamp, as one object in the destination store. The body is the
// plain ASCII decimal encoding of the value.
type Store struct {
	objects storage.ObjectStore
	key     string
	log     *zap.Logger
}

// NewStore creates a checkpoint store under the given key prefix.
func NewStore(objects storage.ObjectStore, prefix string, log *zap.Logger) *Store {
	return &Store{
		objects: objects,
		key:     Key(prefix),
		log:     log,
	}
}

// Load reads the checkpoint. An absent object is the expected first-run
// condition and returns (0, false, nil); any other failure, including an
// unparseable body, is an error.
func (s *Store) Load(ctx context.Context) (int64, bool, error) {
	body, err := s.objects.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Info("No checkpoint found, treating as first run",
				zap.String("key", s.key))
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read checkpoint %q: %w", s.key, err)
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt checkpoint %q: %w", s.key, err)
	}
	if ts < 0 {
		return 0, false, fmt.Errorf("corrupt checkpoint %q: negative timestamp %d", s.key, ts)
	}

	s.log.Info("Checkpoint loaded",
		zap.String("key", s.key),
		zap.Int64("timestamp", ts))

	return ts, true, nil
}

// Save writes the checkpoint value.
func (s *Store) Save(ctx context.Context, ts int64) error {
	if err := s.objects.Put(ctx, s.key, []byte(strconv.FormatInt(ts, 10))); err != nil {
		return fmt.Errorf("failed to write checkpoint %q: %w", s.key, err)
	}

	s.log.Info("Checkpoint saved",
		zap.String("key", s.key),
		zap.Int64("timestamp", ts))

	return nil
}
