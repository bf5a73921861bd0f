package driven

// Chunker splits document text into bounded, ordered segments.
// Identical input and policy always yield an identical sequence;
// reconciliation depends on this determinism for idempotence.
type Chunker interface {
	// Split returns the ordered chunk texts for the input. Segments
	// are non-empty and never exceed the configured maximum size.
	// Whitespace-only input yields an empty slice.
	Split(text string) []string

	// MaxSize returns the configured maximum chunk length.
	MaxSize() int
}
