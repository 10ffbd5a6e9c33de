package source

import (
	"context"

	"github.com/vijayrajadevops/cloudwatch-logs-export/internal/domain"
)

// LogSource enumerates streams and events from one log group.
type LogSource interface {
	// ListStreams returns every stream in the group, most recent
	// activity first, following pagination to exhaustion.
	ListStreams(ctx context.Context, group string) ([]domain.LogStream, error)

	// EachEvent calls fn for every event in the named stream whose
	// timestamp is >= startTime, following pagination to exhaustion.
	// Iteration stops at the first error returned by fn.
	EachEvent(ctx context.Context, group, stream string, startTime int64, fn func(domain.LogEvent) error) error
}
