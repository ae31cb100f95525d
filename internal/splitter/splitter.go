// Package splitter provides recursive, boundary-aware text segmentation.
//
// Text is split at the strongest boundary that keeps segments within the
// configured size: paragraphs, then lines, then sentences, then words, and
// finally individual characters as a last resort. Consecutive segments can
// share a trailing-context overlap so that meaning spanning a boundary is
// not lost to retrieval.
package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum segment length in runes.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default number of trailing runes carried from
// one segment into the start of the next.
const DefaultChunkOverlap = 50

// separators in priority order. The empty separator means "split into
// individual characters" and is the terminal case that bounds recursion.
var separators = []string{
	"\n\n", // paragraph breaks
	"\n",   // line breaks
	". ",   // sentence endings
	" ",    // word boundaries
	"",     // characters (last resort)
}

// Splitter segments text into overlapping chunks at natural boundaries.
// It holds no mutable state and is safe for concurrent use.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Splitter. chunkSize must be positive and chunkOverlap must
// be non-negative and strictly less than chunkSize; anything else is a
// configuration error, reported here rather than at call time.
func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 || chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, domain.ErrInvalidChunking
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// ChunkSize returns the configured maximum segment length in runes.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// ChunkOverlap returns the configured overlap length in runes.
func (s *Splitter) ChunkOverlap() int { return s.chunkOverlap }

// Split segments text into ordered, whitespace-trimmed segments.
// Empty and all-whitespace input produce no segments. Split is total over
// any string input: it never fails for a validly constructed Splitter.
func (s *Splitter) Split(text string) []domain.Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := s.split(text, separators)

	if s.chunkOverlap > 0 && len(chunks) > 1 {
		chunks = s.addOverlap(chunks)
	}

	segments := make([]domain.Segment, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		segments = append(segments, domain.Segment{
			Content: chunk,
			Ordinal: len(segments),
		})
	}
	return segments
}

// split recursively partitions text, trying each separator in order and
// greedily merging pieces back together while they fit within chunkSize.
func (s *Splitter) split(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[0]
	var finer []string
	if len(seps) > 1 {
		finer = seps[1:]
	}

	var pieces []string
	if sep == "" {
		pieces = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
	} else {
		pieces = strings.Split(text, sep)
	}

	var chunks []string
	current := ""

	for _, piece := range pieces {
		candidate := piece
		if current != "" {
			candidate = current + sep + piece
		}

		if utf8.RuneCountInString(candidate) <= s.chunkSize {
			current = candidate
			continue
		}

		// Appending would overflow: emit the accumulator and start over.
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}

		if utf8.RuneCountInString(piece) > s.chunkSize {
			if len(finer) > 0 {
				// The piece alone is too big; recurse with the finer
				// separators.
				chunks = append(chunks, s.split(piece, finer)...)
				continue
			}
			// No finer separator remains: emit the indivisible run
			// verbatim rather than truncating it.
			chunks = append(chunks, piece)
			continue
		}

		current = piece
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// addOverlap prefixes every chunk after the first with the trailing
// chunkOverlap runes of its predecessor. The slice is advanced past the
// first space within it so overlap starts at a word boundary, falling back
// to the raw slice when it contains no space.
func (s *Splitter) addOverlap(chunks []string) []string {
	overlapped := make([]string, 0, len(chunks))
	overlapped = append(overlapped, chunks[0])

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		start := len(prev) - s.chunkOverlap
		if start < 0 {
			start = 0
		}
		tail := string(prev[start:])

		if idx := strings.IndexByte(tail, ' '); idx >= 0 {
			tail = tail[idx+1:]
		}

		overlapped = append(overlapped, tail+" "+chunks[i])
	}
	return overlapped
}
