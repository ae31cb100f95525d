package domain

// IngestResult reports the outcome of one document ingestion.
type IngestResult struct {
	// DocumentID is the identity minted for this ingestion.
	DocumentID string `json:"document_id"`

	// Filename is the caller-supplied source label, echoed back.
	Filename string `json:"filename"`

	// SegmentCount is the number of segments stored.
	SegmentCount int `json:"segment_count"`

	// Collection is the corpus scope the segments were stored in.
	Collection string `json:"collection"`

	// Status is "success" on completion.
	Status string `json:"status"`
}

// Answer is the blocking-mode result of a question.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Sources are the passage summaries the answer is grounded on,
	// ordered by descending similarity.
	Sources []SourcePreview `json:"sources"`
}

// EventType discriminates streaming answer events.
type EventType string

// Streaming event types. A successful stream delivers exactly one
// EventSources first, zero or more EventToken, and exactly one EventDone
// last. A stream that ends without EventDone did not complete.
const (
	EventSources EventType = "sources"
	EventToken   EventType = "token"
	EventDone    EventType = "done"
	EventError   EventType = "error"
)

// AnswerEvent is one element of an incremental answer stream.
type AnswerEvent struct {
	// Type identifies the event phase.
	Type EventType `json:"type"`

	// Sources is set only on EventSources.
	Sources []SourcePreview `json:"sources,omitempty"`

	// Token is one answer fragment, set only on EventToken.
	Token string `json:"token,omitempty"`

	// Err is set only on EventError.
	Err string `json:"error,omitempty"`
}

// CollectionInfo describes one stored corpus scope.
type CollectionInfo struct {
	// Name is the collection name.
	Name string `json:"name"`

	// SegmentCount is the number of stored segments.
	SegmentCount int `json:"segment_count"`
}
