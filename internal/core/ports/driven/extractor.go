package driven

import "context"

// TextExtractor pulls plain text out of a source file.
// Extraction is an external concern: the core consumes the extracted text
// and never inspects the file format itself. PDF and OCR extractors
// implement this interface outside the core.
type TextExtractor interface {
	// Extract reads the file at path and returns its text content.
	Extract(ctx context.Context, path string) (string, error)

	// Supports reports whether the extractor handles the given filename.
	Supports(filename string) bool
}
