package export

import "fmt"

// ObjectKey derives the destination key for one copied event. The layout
// is fixed: {prefix}/logs/{streamName}/{eventTimestampMillis}.gz, with
// the leading slash preserved when the prefix is empty.
func ObjectKey(prefix, streamName string, timestamp int64) string {
	return fmt.Sprintf("%s/logs/%s/%d.gz", prefix, streamName, timestamp)
}
