package domain

// LogStream describes one log stream inside the source log group.
// LastEventTime is epoch milliseconds; zero means the source did not
// report a last-event timestamp for the stream.
type LogStream struct {
	Name          string `json:"name"`
	LastEventTime int64  `json:"last_event_time"`
}

// LogEvent is a single log line from a stream. Timestamp is epoch
// milliseconds. Events are transient: they are read from the source and
// turned directly into destination objects, never stored as records.
type LogEvent struct {
	StreamName string `json:"stream_name"`
	Timestamp  int64  `json:"timestamp"`
	Message    string `json:"message"`
}

// ExportSummary reports what a single run accomplished.
type ExportSummary struct {
	CopiedObjects int   `json:"copied_objects"`
	Checkpoint    int64 `json:"checkpoint"`
	FirstRun      bool  `json:"first_run"`
}
