// Package corpus reads documentation trees from the local filesystem.
// A walker enumerates files with content hashes for reconciliation, and
// a watcher reports changes for re-index triggers.
package corpus

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

// Walker enumerates documentation files under a root directory.
// Hidden files and directories (dot-prefixed) are skipped.
type Walker struct{}

var _ driven.CorpusWalker = (*Walker)(nil)

// NewWalker creates a filesystem corpus walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk recursively enumerates regular files under root. Each entry
// carries a hex MD5 digest of the file content and a path relative to
// root using forward slashes. Unreadable files are reported as
// warnings and omitted; a missing or unreadable root is fatal.
func (w *Walker) Walk(ctx context.Context, root string) ([]driven.CorpusFile, []driven.WalkWarning, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: corpus root %s does not exist", domain.ErrIO, root)
		}
		return nil, nil, fmt.Errorf("%w: stat corpus root %s: %v", domain.ErrIO, root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: corpus root %s is not a directory", domain.ErrInvalidInput, root)
	}

	var files []driven.CorpusFile
	var warnings []driven.WalkWarning

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			if d != nil && d.IsDir() {
				warnings = append(warnings, driven.WalkWarning{Path: rel, Err: walkErr})
				return filepath.SkipDir
			}
			warnings = append(warnings, driven.WalkWarning{Path: rel, Err: walkErr})
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && rel != "." {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			warnings = append(warnings, driven.WalkWarning{Path: rel, Err: err})
			return nil
		}

		hash, err := hashFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file %s: %v", rel, err)
			warnings = append(warnings, driven.WalkWarning{Path: rel, Err: err})
			return nil
		}

		files = append(files, driven.CorpusFile{
			Path:    rel,
			Hash:    hash,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fmt.Errorf("%w: walk %s: %v", domain.ErrIO, root, err)
	}

	return files, warnings, nil
}

// Read returns the text content of one file relative to root.
// Paths that escape the root are rejected.
func (w *Walker) Read(root, path string) (string, error) {
	full := filepath.Join(root, filepath.FromSlash(path))

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %s escapes corpus root", domain.ErrInvalidInput, path)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrIO, path, err)
	}
	return string(data), nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}
