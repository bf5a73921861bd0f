package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
)

// metricCosine is the only similarity metric the store records.
const metricCosine = "cosine"

// Store is the SQLite-backed implementation of driven.VectorStore.
type Store struct {
	db   *sql.DB
	path string
	dims int

	mu     sync.Mutex
	collMu map[string]*sync.Mutex
}

var _ driven.VectorStore = (*Store)(nil)

// NewStore opens (or creates) the index database at the specified data
// directory and verifies it is compatible with the given vector
// dimensionality and embedding model. If dataDir is empty, defaults to
// ~/.laravel-docs-mcp/data/index.db.
func NewStore(dataDir string, dims int, model string) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".laravel-docs-mcp", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:     db,
		path:   dbPath,
		dims:   dims,
		collMu: make(map[string]*sync.Mutex),
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.checkMeta(dims, model); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Dimensions returns the vector dimensionality the index was built with.
func (s *Store) Dimensions() int {
	return s.dims
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// checkMeta records index parameters on first open and rejects
// incompatible settings on subsequent opens. An index built for one
// vector space must never be queried or extended with another.
func (s *Store) checkMeta(dims int, model string) error {
	var storedDims int
	var storedMetric, storedModel string

	row := s.db.QueryRow("SELECT dimensions, metric, model FROM index_meta WHERE id = 1")
	err := row.Scan(&storedDims, &storedMetric, &storedModel)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.db.Exec(
			"INSERT INTO index_meta (id, dimensions, metric, model) VALUES (1, ?, ?, ?)",
			dims, metricCosine, model)
		if err != nil {
			return fmt.Errorf("recording index metadata: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading index metadata: %w", err)
	}

	if storedDims != dims {
		return fmt.Errorf("%w: index built with %d dimensions, configured for %d",
			domain.ErrStore, storedDims, dims)
	}
	if storedModel != model {
		return fmt.Errorf("%w: index built with model %q, configured for %q",
			domain.ErrStore, storedModel, model)
	}
	if storedMetric != metricCosine {
		return fmt.Errorf("%w: index uses unsupported metric %q", domain.ErrStore, storedMetric)
	}
	return nil
}

// lockCollection serializes writers per collection.
func (s *Store) lockCollection(collection string) func() {
	s.mu.Lock()
	m, ok := s.collMu[collection]
	if !ok {
		m = &sync.Mutex{}
		s.collMu[collection] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// UpsertDocument inserts or updates document metadata keyed on
// (collection, path) and returns the stable document ID. A document
// whose stored hash equals the incoming one only gets its updated-at
// timestamp refreshed.
func (s *Store) UpsertDocument(ctx context.Context, doc domain.Document) (string, error) {
	if doc.Collection == "" || doc.Path == "" {
		return "", fmt.Errorf("%w: document requires collection and path", domain.ErrInvalidInput)
	}

	unlock := s.lockCollection(doc.Collection)
	defer unlock()

	now := time.Now().UTC()

	var existingID, existingHash string
	row := s.db.QueryRowContext(ctx,
		"SELECT id, content_hash FROM documents WHERE collection = ? AND path = ?",
		doc.Collection, doc.Path)
	err := row.Scan(&existingID, &existingHash)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		id := doc.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (id, collection, path, content_hash, size, mod_time, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, doc.Collection, doc.Path, doc.ContentHash, doc.Size, doc.ModTime.UTC(), now, now)
		if err != nil {
			return "", fmt.Errorf("%w: inserting document: %v", domain.ErrStore, err)
		}
		return id, nil

	case err != nil:
		return "", fmt.Errorf("%w: looking up document: %v", domain.ErrStore, err)

	case existingHash == doc.ContentHash:
		_, err = s.db.ExecContext(ctx,
			"UPDATE documents SET updated_at = ? WHERE id = ?", now, existingID)
		if err != nil {
			return "", fmt.Errorf("%w: refreshing document: %v", domain.ErrStore, err)
		}
		return existingID, nil

	default:
		_, err = s.db.ExecContext(ctx, `
			UPDATE documents SET content_hash = ?, size = ?, mod_time = ?, updated_at = ?
			WHERE id = ?
		`, doc.ContentHash, doc.Size, doc.ModTime.UTC(), now, existingID)
		if err != nil {
			return "", fmt.Errorf("%w: updating document: %v", domain.ErrStore, err)
		}
		return existingID, nil
	}
}

// ReplaceChunks atomically swaps the full chunk set for a document.
// Embedding dimensionality is validated before any write so a bad
// batch never leaves a partial set behind.
func (s *Store) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	doc, err := s.getDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dims {
			return fmt.Errorf("%w: chunk %d has %d dimensions, index requires %d",
				domain.ErrStore, chunk.Position, len(chunk.Embedding), s.dims)
		}
	}

	unlock := s.lockCollection(doc.Collection)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("%w: clearing chunks: %v", domain.ErrStore, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, length, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %v", domain.ErrStore, err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = uuid.New().String()
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, id, documentID, chunk.Position,
			chunk.Content, chunk.Length, embeddingBlob); err != nil {
			return fmt.Errorf("%w: saving chunk: %v", domain.ErrStore, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrStore, err)
	}
	return nil
}

// DeleteDocument removes the document; chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	doc, err := s.getDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}

	unlock := s.lockCollection(doc.Collection)
	defer unlock()

	_, err = s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID)
	if err != nil {
		return fmt.Errorf("%w: deleting document: %v", domain.ErrStore, err)
	}
	return nil
}

// Query scores every embedded chunk of the collection against the
// query vector and returns the top k by cosine similarity. Ties are
// broken by chunk insertion order, so results are deterministic for a
// fixed index state.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, k int, filter *driven.QueryFilter) ([]domain.SearchResult, error) {
	if len(vector) != s.dims {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index requires %d",
			domain.ErrStore, len(vector), s.dims)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	query := `
		SELECT c.rowid, c.id, c.document_id, c.position, c.content, c.length, c.embedding, d.path
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.collection = ? AND c.embedding IS NOT NULL
	`
	args := []any{collection}
	if filter != nil && filter.PathPrefix != "" {
		query += " AND d.path LIKE ? ESCAPE '\\'"
		args = append(args, escapeLike(filter.PathPrefix)+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	type scored struct {
		rowid  int64
		result domain.SearchResult
	}

	var hits []scored //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rowid int64
		var chunk domain.Chunk
		var embeddingBlob []byte
		var path string

		if err := rows.Scan(&rowid, &chunk.ID, &chunk.DocumentID, &chunk.Position,
			&chunk.Content, &chunk.Length, &embeddingBlob, &path); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrStore, err)
		}

		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		if len(chunk.Embedding) != s.dims {
			continue
		}

		hits = append(hits, scored{
			rowid: rowid,
			result: domain.SearchResult{
				Collection:   collection,
				DocumentPath: path,
				Chunk:        chunk,
				Score:        cosineSimilarity(vector, chunk.Embedding),
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrStore, err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].result.Score != hits[j].result.Score {
			return hits[i].result.Score > hits[j].result.Score
		}
		return hits[i].rowid < hits[j].rowid
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results, nil
}

// ListDocuments returns all documents of a collection ordered by path.
func (s *Store) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection, path, content_hash, size, mod_time, created_at, updated_at
		FROM documents WHERE collection = ?
		ORDER BY path
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: querying documents: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating documents: %v", domain.ErrStore, err)
	}

	return docs, nil
}

// GetDocumentByPath retrieves a document by its corpus path.
func (s *Store) GetDocumentByPath(ctx context.Context, collection, path string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, collection, path, content_hash, size, mod_time, created_at, updated_at
		FROM documents WHERE collection = ? AND path = ?
	`, collection, path)

	return scanDocument(row)
}

// GetChunks retrieves a document's chunks in ordinal order.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, position, content, length, embedding
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
			&chunk.Content, &chunk.Length, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrStore, err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrStore, err)
	}

	return chunks, nil
}

// ListCollections returns the names of all known collections.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT collection FROM documents ORDER BY collection")
	if err != nil {
		return nil, fmt.Errorf("%w: querying collections: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var collections []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scanning collection: %v", domain.ErrStore, err)
		}
		collections = append(collections, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating collections: %v", domain.ErrStore, err)
	}

	return collections, nil
}

// getDocumentByID resolves a document row, mapping absence to ErrNotFound.
func (s *Store) getDocumentByID(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, collection, path, content_hash, size, mod_time, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// escapeLike escapes LIKE wildcards in a literal prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var modTime, createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Collection, &doc.Path, &doc.ContentHash,
		&doc.Size, &modTime, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning document: %v", domain.ErrStore, err)
	}

	if modTime.Valid {
		doc.ModTime = modTime.Time
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var modTime, createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&doc.ID, &doc.Collection, &doc.Path, &doc.ContentHash,
		&doc.Size, &modTime, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: scanning document: %v", domain.ErrStore, err)
	}

	if modTime.Valid {
		doc.ModTime = modTime.Time
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}
