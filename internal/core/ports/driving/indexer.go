package driving

import "context"

// Indexer reconciles a corpus file tree with the vector store.
type Indexer interface {
	// Reconcile diffs the corpus under root against the collection's
	// recorded state and applies the minimal set of updates. It runs to
	// completion or failure; per-document failures do not abort the pass.
	Reconcile(ctx context.Context, collection, root string) (*ReconcileReport, error)

	// Status returns the reconciliation status for a collection.
	Status(ctx context.Context, collection string) (*ReconcileStatus, error)
}

// DocumentFailure records a document that could not be indexed.
type DocumentFailure struct {
	// Path is the corpus path of the failed document.
	Path string

	// Err is the failure cause.
	Err error
}

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	// Collection is the reconciled namespace.
	Collection string

	// Indexed is the count of new or changed documents written.
	Indexed int

	// Deleted is the count of documents removed from the store.
	Deleted int

	// Unchanged is the count of documents skipped by hash.
	Unchanged int

	// Warnings lists files skipped during the corpus walk.
	Warnings []string

	// Failures lists documents that failed chunking, embedding or storage.
	Failures []DocumentFailure
}

// ReconcileStatus represents the current state of reconciliation.
type ReconcileStatus struct {
	// Collection identifies the namespace.
	Collection string

	// Running indicates if a pass is currently in progress.
	Running bool

	// DocumentsProcessed is the count of documents processed so far.
	DocumentsProcessed int

	// ErrorCount is the number of per-document failures so far.
	ErrorCount int
}
