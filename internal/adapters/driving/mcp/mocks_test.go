package mcp

import (
	"context"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
)

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
