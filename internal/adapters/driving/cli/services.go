package cli

import (
	"fmt"
	"path/filepath"

	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/ai"
	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/config/file"
	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/embedding/mock"
	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/storage/sqlite"
	"github.com/clearair/laravel-docs-mcp/internal/chunker"
	"github.com/clearair/laravel-docs-mcp/internal/corpus"
	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
	"github.com/clearair/laravel-docs-mcp/internal/core/services"
	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

// Shared service instances, wired once per invocation. Tests inject
// mocks here directly and bypass initServices.
var (
	configStore      driven.ConfigStore
	vectorStore      driven.VectorStore
	embeddingService driven.EmbeddingService

	retrieverService driving.Retriever
	indexerService   driving.Indexer
	documentService  driving.DocumentService
)

// initServices builds the adapter stack behind the driving ports.
// It is a no-op when services are already present.
func initServices() error {
	if retrieverService != nil || indexerService != nil || documentService != nil {
		return nil
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store

	embSettings := loadEmbeddingSettings()
	if embSettings.IsConfigured() {
		embeddingService, err = ai.CreateAndValidateEmbeddingService(&embSettings)
		if err != nil {
			return fmt.Errorf("creating embedding service: %w", err)
		}
	} else {
		logger.Warn("No embedding provider configured, using deterministic mock embeddings. Run 'laravel-docs-mcp config embedding' to set one up.")
		embeddingService = mock.NewEmbeddingService(mock.DefaultDimensions)
	}

	dir := dataDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(store.Path()), "data")
	}

	vectorStore, err = sqlite.NewStore(dir, embeddingService.Dimensions(), embeddingService.ModelName())
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}

	indexSettings := loadIndexSettings()
	splitter := chunker.New(
		chunker.WithChunkSize(indexSettings.ChunkSize),
		chunker.WithOverlap(indexSettings.ChunkOverlap),
	)

	indexerService = services.NewIndexer(corpus.NewWalker(), vectorStore, splitter, embeddingService, indexSettings)
	retrieverService = services.NewRetriever(vectorStore, embeddingService, loadSearchSettings())
	documentService = services.NewDocumentService(vectorStore)

	return nil
}

// closeServices releases the store and embedder.
func closeServices() {
	if vectorStore != nil {
		vectorStore.Close() //nolint:errcheck
	}
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
}

func loadEmbeddingSettings() domain.EmbeddingSettings {
	return domain.EmbeddingSettings{
		Provider:   domain.AIProvider(configStore.GetString("embedding.provider")),
		Model:      configStore.GetString("embedding.model"),
		BaseURL:    configStore.GetString("embedding.base_url"),
		APIKey:     configStore.GetString("embedding.api_key"),
		Dimensions: configStore.GetInt("embedding.dimensions"),
	}
}

func loadIndexSettings() domain.IndexSettings {
	return domain.IndexSettings{
		ChunkSize:    configStore.GetInt("index.chunk_size"),
		ChunkOverlap: configStore.GetInt("index.chunk_overlap"),
		BatchSize:    configStore.GetInt("index.batch_size"),
		Workers:      configStore.GetInt("index.workers"),
	}.WithDefaults()
}

func loadSearchSettings() domain.SearchSettings {
	return domain.SearchSettings{
		DefaultK: configStore.GetInt("search.default_k"),
		MaxK:     configStore.GetInt("search.max_k"),
	}.WithDefaults()
}
