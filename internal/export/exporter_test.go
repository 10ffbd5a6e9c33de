package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/storage"
)

// fakeSource is an in-memory source.LogSource. EachEvent honors the
// start bound the way CloudWatch does unless ignoreStart is set, which
// simulates a source returning boundary events despite the bound.
type fakeSource struct {
	streams     []domain.LogStream
	events      map[string][]domain.LogEvent
	ignoreStart bool
	listErr     error
	queried     []string
}

func (f *fakeSource) ListStreams(ctx context.Context, group string) ([]domain.LogStream, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.streams, nil
}

func (f *fakeSource) EachEvent(ctx context.Context, group, stream string, startTime int64, fn func(domain.LogEvent) error) error {
	f.queried = append(f.queried, stream)
	for _, ev := range f.events[stream] {
		if !f.ignoreStart && ev.Timestamp < startTime {
			continue
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

// memStore is an in-memory storage.ObjectStore with failure injection.
type memStore struct {
	objects   map[string][]byte
	bucketErr error
	putErr    map[string]error
	puts      []string
}

func newMemStore() *memStore {
	return &memStore{
		objects: make(map[string][]byte),
		putErr:  make(map[string]error),
	}
}

func (s *memStore) EnsureBucket(ctx context.Context) error {
	return s.bucketErr
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	body, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q: %w", key, storage.ErrObjectNotFound)
	}
	return body, nil
}

func (s *memStore) Put(ctx context.Context, key string, body []byte) error {
	if err := s.putErr[key]; err != nil {
		return err
	}
	s.objects[key] = append([]byte(nil), body...)
	s.puts = append(s.puts, key)
	return nil
}

func (s *memStore) setCheckpoint(prefix string, ts int64) {
	s.objects[prefix+"/config_file"] = []byte(strconv.FormatInt(ts, 10))
}

func gunzip(t *testing.T, body []byte) string {
	t.Helper()
	r, err := gzip.NewReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func newExporter(src *fakeSource, store *memStore, cfg Config) *Exporter {
	return New(src, store, cfg, zap.NewNop())
}

func TestExporter_FirstRun_MinSizeOverride(t *testing.T) {
	// No checkpoint object exists: a configured size filter must not
	// apply, and the checkpoint becomes the copied event's timestamp.
	src := &fakeSource{
		streams: []domain.LogStream{{Name: "app", LastEventTime: 5000}},
		events: map[string][]domain.LogEvent{
			"app": {{StreamName: "app", Timestamp: 5000, Message: "short"}},
		},
	}
	store := newMemStore()

	summary, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs", MinSize: 50}).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.FirstRun)
	assert.Equal(t, 1, summary.CopiedObjects)
	assert.Equal(t, int64(5000), summary.Checkpoint)
	assert.Equal(t, []byte("5000"), store.objects["logs/config_file"])
	assert.Contains(t, store.objects, "logs/logs/app/5000.gz")
}

func TestExporter_Scenario_BoundaryAndSizeFilter(t *testing.T) {
	// checkpoint=1000; t=999 excluded, t=1001 below min size, t=1002 copied.
	src := &fakeSource{
		streams: []domain.LogStream{{Name: "app", LastEventTime: 1002}},
		events: map[string][]domain.LogEvent{
			"app": {
				{StreamName: "app", Timestamp: 999, Message: "stale"},
				{StreamName: "app", Timestamp: 1001, Message: "tiny!"},
				{StreamName: "app", Timestamp: 1002, Message: "twenty bytes of text"},
			},
		},
	}
	store := newMemStore()
	store.setCheckpoint("logs", 1000)

	summary, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs", MinSize: 10}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.CopiedObjects)
	assert.Equal(t, int64(1002), summary.Checkpoint)
	assert.NotContains(t, store.objects, "logs/logs/app/999.gz")
	assert.NotContains(t, store.objects, "logs/logs/app/1001.gz")
	assert.Contains(t, store.objects, "logs/logs/app/1002.gz")
	assert.Equal(t, []byte("1002"), store.objects["logs/config_file"])
}

func TestExporter_BoundaryDoubleCheck(t *testing.T) {
	// A source that ignores the start bound must not leak events at or
	// before the checkpoint past the per-event re-check.
	src := &fakeSource{
		streams:     []domain.LogStream{{Name: "app", LastEventTime: 2000}},
		ignoreStart: true,
		events: map[string][]domain.LogEvent{
			"app": {
				{StreamName: "app", Timestamp: 900, Message: "already copied"},
				{StreamName: "app", Timestamp: 1000, Message: "boundary event"},
				{StreamName: "app", Timestamp: 2000, Message: "new event"},
			},
		},
	}
	store := newMemStore()
	store.setCheckpoint("logs", 1000)

	summary, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.CopiedObjects)
	assert.Contains(t, store.objects, "logs/logs/app/2000.gz")
	assert.NotContains(t, store.objects, "logs/logs/app/900.gz")
	assert.NotContains(t, store.objects, "logs/logs/app/1000.gz")
}

func TestExporter_NoNewEvents_CheckpointUntouched(t *testing.T) {
	src := &fakeSource{
		streams: []domain.LogStream{{Name: "app", LastEventTime: 800}},
		events:  map[string][]domain.LogEvent{},
	}
	store := newMemStore()
	store.setCheckpoint("logs", 1000)

	summary, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.CopiedObjects)
	assert.Equal(t, int64(1000), summary.Checkpoint)
	// The checkpoint object was never rewritten.
	assert.Empty(t, store.puts)
}

func TestExporter_Idempotence(t *testing.T) {
	src := &fakeSource{
		streams: []domain.LogStream{{Name: "app", LastEventTime: 3000}},
		events: map[string][]domain.LogEvent{
			"app": {
				{StreamName: "app", Timestamp: 2000, Message: "first event payload"},
				{StreamName: "app", Timestamp: 3000, Message: "second event payload"},
			},
		},
	}
	store := newMemStore()
	cfg := Config{LogGroup: "g", Prefix: "logs"}

	first, err := newExporter(src, store, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.CopiedObjects)
	assert.Equal(t, int64(3000), first.Checkpoint)

	objectsAfterFirst := len(store.objects)
	putsAfterFirst := len(store.puts)

	second, err := newExporter(src, store, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.CopiedObjects)
	assert.Equal(t, int64(3000), second.Checkpoint)
	assert.Equal(t, objectsAfterFirst, len(store.objects))
	assert.Equal(t, putsAfterFirst, len(store.puts))
}

func TestExporter_RoundTrip(t *testing.T) {
	const message = "2024-08-14 12:00:01 UTC [82-1] LOG:  checkpoint complete: wrote 512 buffers"

	src := &fakeSource{
		streams: []domain.LogStream{{Name: "postgres", LastEventTime: 7000}},
		events: map[string][]domain.LogEvent{
			"postgres": {{StreamName: "postgres", Timestamp: 7000, Message: message}},
		},
	}
	store := newMemStore()

	_, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())
	require.NoError(t, err)

	body, ok := store.objects["logs/logs/postgres/7000.gz"]
	require.True(t, ok)
	assert.Equal(t, message, gunzip(t, body))
}

func TestExporter_StreamPrefilter(t *testing.T) {
	src := &fakeSource{
		streams: []domain.LogStream{
			{Name: "stale", LastEventTime: 500},
			{Name: "fresh", LastEventTime: 2000},
			{Name: "unknown"}, // no reported last-event time: must not be skipped
		},
		events: map[string][]domain.LogEvent{},
	}
	store := newMemStore()
	store.setCheckpoint("logs", 1000)

	_, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())

	require.NoError(t, err)
	assert.NotContains(t, src.queried, "stale")
	assert.Contains(t, src.queried, "fresh")
	assert.Contains(t, src.queried, "unknown")
}

func TestExporter_WriteFailureAbortsRun(t *testing.T) {
	src := &fakeSource{
		streams: []domain.LogStream{{Name: "app", LastEventTime: 3000}},
		events: map[string][]domain.LogEvent{
			"app": {
				{StreamName: "app", Timestamp: 2000, Message: "will fail to upload"},
				{StreamName: "app", Timestamp: 3000, Message: "never attempted"},
			},
		},
	}
	store := newMemStore()
	store.setCheckpoint("logs", 1000)
	store.putErr["logs/logs/app/2000.gz"] = errors.New("slow down")

	_, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEventTransfer)
	// Nothing landed and the checkpoint did not move.
	assert.NotContains(t, store.objects, "logs/logs/app/3000.gz")
	assert.Equal(t, []byte("1000"), store.objects["logs/config_file"])
}

func TestExporter_DestinationFailures(t *testing.T) {
	src := &fakeSource{}

	notFound := newMemStore()
	notFound.bucketErr = fmt.Errorf("bucket %q: %w", "missing", storage.ErrBucketNotFound)
	_, err := newExporter(src, notFound, Config{LogGroup: "g"}).Run(context.Background())
	assert.ErrorIs(t, err, ErrDestinationNotFound)

	denied := newMemStore()
	denied.bucketErr = errors.New("403 forbidden")
	_, err = newExporter(src, denied, Config{LogGroup: "g"}).Run(context.Background())
	assert.ErrorIs(t, err, ErrDestinationUnavailable)
}

func TestExporter_CorruptCheckpointFailsRun(t *testing.T) {
	src := &fakeSource{}
	store := newMemStore()
	store.objects["logs/config_file"] = []byte("garbage")

	_, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())
	assert.ErrorIs(t, err, ErrCheckpointRead)
}

func TestExporter_CheckpointWriteFailure(t *testing.T) {
	src := &fakeSource{
		streams: []domain.LogStream{{Name: "app", LastEventTime: 2000}},
		events: map[string][]domain.LogEvent{
			"app": {{StreamName: "app", Timestamp: 2000, Message: "copied but not committed"}},
		},
	}
	store := newMemStore()
	store.setCheckpoint("logs", 1000)
	store.putErr["logs/config_file"] = errors.New("throttled")

	_, err := newExporter(src, store, Config{LogGroup: "g", Prefix: "logs"}).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckpointWrite)
	// Known at-least-once risk: the object stays even though the run failed.
	assert.Contains(t, store.objects, "logs/logs/app/2000.gz")
}

func TestExporter_ListStreamsFailure(t *testing.T) {
	src := &fakeSource{listErr: errors.New("no such log group")}
	store := newMemStore()

	_, err := newExporter(src, store, Config{LogGroup: "g"}).Run(context.Background())
	assert.ErrorIs(t, err, ErrEventTransfer)
}
