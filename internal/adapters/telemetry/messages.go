package telemetry

import "time"

// MsgTaskStart reports that a file started processing.
type MsgTaskStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgTaskComplete reports that a file finished. Cached files were skipped.
type MsgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
	Cached  bool
}

// MsgTaskLog carries a chunk of transform output.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgInitTasks announces the files of the current build.
type MsgInitTasks struct {
	Files []string
}
