// Package chunker provides a recursive character text splitter.
//
// Text is split on a ladder of separators, preferring paragraph and
// sentence boundaries over mid-word cuts, and merged back into chunks
// bounded by the configured maximum size with optional overlap.
// Splitting is fully deterministic: identical input and policy always
// yield identical chunk boundaries.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// DefaultChunkSize is the default maximum chunk length in runes.
const DefaultChunkSize = 400

// DefaultOverlap is the default overlap between chunks in runes.
const DefaultOverlap = 20

// defaultSeparators is the split ladder, in order of preference.
// The empty string is the last resort: split rune by rune.
var defaultSeparators = []string{
	"\n\n\n",
	"\n\n",
	"\n",
	". ",
	"! ",
	"? ",
	", ",
	" ",
	"",
}

// Splitter splits text recursively on a separator ladder.
type Splitter struct {
	separators []string
	chunkSize  int
	overlap    int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators sets a custom separator ladder.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		separators: defaultSeparators,
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay below chunk size to make progress.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// MaxSize returns the configured maximum chunk length.
func (s *Splitter) MaxSize() int {
	return s.chunkSize
}

// Split returns the ordered, non-empty chunks of the input.
// Whitespace-only input yields no chunks. Input at or below the
// maximum size yields exactly one chunk.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := s.split(text, s.separators)

	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// split recursively splits text until every piece fits the chunk size.
func (s *Splitter) split(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 || separators[0] == "" {
		return s.splitByRune(text)
	}

	sep := separators[0]
	rest := separators[1:]

	parts := strings.Split(text, sep)
	if len(parts) <= 1 {
		// Separator not present, try the next one.
		return s.split(text, rest)
	}

	merged := s.merge(parts, sep)

	// Pieces still over the limit descend the ladder.
	chunks := make([]string, 0, len(merged))
	for _, m := range merged {
		if utf8.RuneCountInString(m) <= s.chunkSize {
			chunks = append(chunks, m)
			continue
		}
		chunks = append(chunks, s.split(m, rest)...)
	}
	return chunks
}

// merge joins consecutive splits into chunks up to the size limit,
// re-attaching the separator and carrying the overlap tail forward.
func (s *Splitter) merge(parts []string, sep string) []string {
	var chunks []string
	var current string

	for i, part := range parts {
		piece := part
		if i > 0 {
			piece = sep + part
		}

		if current != "" &&
			utf8.RuneCountInString(current)+utf8.RuneCountInString(piece) > s.chunkSize {
			chunks = append(chunks, current)
			current = s.overlapTail(current)
		}
		current += piece
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// splitByRune is the last resort: fixed-size rune windows with overlap.
func (s *Splitter) splitByRune(text string) []string {
	var chunks []string
	var current []rune

	for _, r := range text {
		if len(current) >= s.chunkSize {
			chunk := string(current)
			chunks = append(chunks, chunk)
			current = []rune(s.overlapTail(chunk))
		}
		current = append(current, r)
	}

	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}

// overlapTail returns the last overlap runes of the chunk.
func (s *Splitter) overlapTail(chunk string) string {
	if s.overlap <= 0 {
		return ""
	}
	runes := []rune(chunk)
	if len(runes) <= s.overlap {
		return chunk
	}
	return string(runes[len(runes)-s.overlap:])
}
