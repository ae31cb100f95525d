// Package plaintext provides a text extractor for plain text formats.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// supportedExtensions are the file types handled by this extractor.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
	".rst":      true,
}

// utf8BOM is the UTF-8 byte order mark some editors prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor reads plain text and Markdown files as-is.
type Extractor struct{}

// NewExtractor creates a plain text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", path)
	}

	return string(data), nil
}

// Supports reports whether the extractor handles the given filename.
func (e *Extractor) Supports(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
