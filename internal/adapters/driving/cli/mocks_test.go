package cli

import (
	"bytes"
	"context"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results []domain.SearchResult
	err     error

	gotCollection string
	gotQuery      string
	gotK          int
}

func (m *mockRetriever) Search(_ context.Context, collection, query string, k int) ([]domain.SearchResult, error) {
	m.gotCollection = collection
	m.gotQuery = query
	m.gotK = k
	return m.results, m.err
}

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	report *driving.ReconcileReport
	status *driving.ReconcileStatus
	err    error

	gotCollection string
	gotRoot       string
}

func (m *mockIndexer) Reconcile(_ context.Context, collection, root string) (*driving.ReconcileReport, error) {
	m.gotCollection = collection
	m.gotRoot = root
	if m.report != nil && m.report.Collection == "" {
		m.report.Collection = collection
	}
	return m.report, m.err
}

func (m *mockIndexer) Status(_ context.Context, _ string) (*driving.ReconcileStatus, error) {
	return m.status, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents   []domain.Document
	document    *domain.Document
	content     string
	details     *driving.DocumentDetails
	collections []string
	err         error
}

func (m *mockDocumentService) Get(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) ListByCollection(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) ListCollections(_ context.Context) ([]string, error) {
	return m.collections, m.err
}

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	retriever *mockRetriever
	indexer   *mockIndexer
	document  *mockDocumentService
}

// setupTestServices installs mock services so commands run without the
// real adapter stack. The returned cleanup restores the package state.
func setupTestServices() (*testServices, func()) {
	svcs := &testServices{
		retriever: &mockRetriever{},
		indexer:   &mockIndexer{report: &driving.ReconcileReport{}},
		document:  &mockDocumentService{},
	}

	retrieverService = svcs.retriever
	indexerService = svcs.indexer
	documentService = svcs.document

	return svcs, func() {
		retrieverService = nil
		indexerService = nil
		documentService = nil
		configStore = nil

		searchLimit = 0
		searchJSON = false
		indexWatch = false
		searchCmd.Flags().Lookup("limit").Changed = false
		searchCmd.Flags().Lookup("json").Changed = false
		indexCmd.Flags().Lookup("watch").Changed = false
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
