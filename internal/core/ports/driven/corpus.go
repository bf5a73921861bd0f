package driven

import (
	"context"
	"time"
)

// CorpusFile describes one readable file found during a corpus walk.
type CorpusFile struct {
	// Path is the file path relative to the corpus root.
	Path string

	// Hash is the hex-encoded MD5 digest of the file content.
	Hash string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time.
	ModTime time.Time
}

// WalkWarning reports a file skipped during a corpus walk.
// Unreadable files are warnings, never fatal for the pass.
type WalkWarning struct {
	Path string
	Err  error
}

// CorpusWalker enumerates a read-only file tree with content hashes.
type CorpusWalker interface {
	// Walk recursively enumerates files under root. Files that cannot
	// be read are reported as warnings and omitted from the result.
	Walk(ctx context.Context, root string) ([]CorpusFile, []WalkWarning, error)

	// Read returns the text content of one corpus file.
	Read(root, path string) (string, error)
}
