package domain

// Segment is one bounded, ordered piece of a document's text after splitting.
// Segments are immutable once produced; identity and storage metadata are
// attached by the ingestion service, not by the splitter.
type Segment struct {
	// Content is the segment text, trimmed of leading and trailing whitespace.
	Content string

	// Ordinal is the zero-based position within the parent document.
	Ordinal int
}

// Passage is a segment returned from a similarity search, annotated with a
// relevance score and provenance attributes. Passages are produced fresh per
// query and never persisted.
type Passage struct {
	// Text is the full segment content.
	Text string

	// Score is the cosine similarity (1 - distance), higher is more relevant.
	Score float64

	// Attributes carries provenance (document_id, filename, position).
	Attributes map[string]any
}

// SourcePreview is the consumer-facing summary of a retrieved passage.
// Text is truncated to the configured preview length and the score is
// rounded to 4 decimal places.
type SourcePreview struct {
	Text       string         `json:"text"`
	Score      float64        `json:"score"`
	Attributes map[string]any `json:"attributes"`
}
