package eventsourcing

// StreamState is the concurrency requirement supplied with an append.
type StreamState interface {
	streamState()
}

// Any means append without checking the current revision.
type Any struct{}

func (Any) streamState() {}

// NoStream means the stream should not exist yet.
type NoStream struct{}

func (NoStream) streamState() {}

// StreamExists means the stream must already exist.
type StreamExists struct{}

func (StreamExists) streamState() {}

// Revision expects the stream to hold exactly this many events. Appending with
// a stale Revision fails with *StreamRevisionConflictError and leaves the
// stream untouched.
type Revision uint64

func (Revision) streamState() {}
