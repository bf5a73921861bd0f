package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/ai"
	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and configure the embedding provider and indexing options.

Without a configured provider the server falls back to deterministic
mock embeddings, which are only useful for testing.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var (
	embeddingProvider   string
	embeddingModel      string
	embeddingBaseURL    string
	embeddingAPIKey     string
	embeddingDimensions int
	embeddingCheck      bool
)

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the embedding provider used for indexing and search.

Available providers:
  ollama - local Ollama instance (default model nomic-embed-text)
  openai - OpenAI embeddings API (requires --api-key)
  mock   - deterministic offline embeddings for testing

Changing provider or model changes the vector space. An index built
with different dimensions is rejected on open; use a fresh --db
directory after switching.`,
	RunE: runConfigEmbedding,
}

func init() {
	configEmbeddingCmd.Flags().StringVar(&embeddingProvider, "provider", "", "embedding provider (ollama, openai, mock)")
	configEmbeddingCmd.Flags().StringVar(&embeddingModel, "model", "", "embedding model name")
	configEmbeddingCmd.Flags().StringVar(&embeddingBaseURL, "base-url", "", "API endpoint (ollama)")
	configEmbeddingCmd.Flags().StringVar(&embeddingAPIKey, "api-key", "", "API key (openai)")
	configEmbeddingCmd.Flags().IntVar(&embeddingDimensions, "dimensions", 0, "vector dimensions (0 = model default)")
	configEmbeddingCmd.Flags().BoolVar(&embeddingCheck, "check", false, "ping the provider after saving")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings := loadEmbeddingSettings()

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Embedding]")
	if !settings.IsConfigured() {
		cmd.Println("  Provider: (not set, using mock embeddings)")
	} else {
		cmd.Printf("  Provider: %s\n", settings.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.Model)
		if settings.Provider.IsLocal() && settings.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.BaseURL)
		}
		if settings.Provider.RequiresAPIKey() {
			if settings.APIKey != "" {
				cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
			} else {
				cmd.Printf("  API Key: (not set)\n")
			}
		}
		if settings.Dimensions > 0 {
			cmd.Printf("  Dimensions: %d\n", settings.Dimensions)
		}
	}
	cmd.Println()

	index := loadIndexSettings()
	cmd.Println("[Index]")
	cmd.Printf("  Chunk size: %d\n", index.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", index.ChunkOverlap)
	cmd.Printf("  Batch size: %d\n", index.BatchSize)
	cmd.Printf("  Workers: %d\n", index.Workers)
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if embeddingProvider == "" && embeddingModel == "" && embeddingBaseURL == "" &&
		embeddingAPIKey == "" && embeddingDimensions == 0 {
		return errors.New("nothing to configure, see --help for flags")
	}

	if embeddingProvider != "" {
		provider := domain.AIProvider(strings.ToLower(embeddingProvider))
		if !provider.IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, embeddingProvider)
		}
		if err := configStore.Set("embedding.provider", string(provider)); err != nil {
			return fmt.Errorf("saving provider: %w", err)
		}
	}
	if embeddingModel != "" {
		if err := configStore.Set("embedding.model", embeddingModel); err != nil {
			return fmt.Errorf("saving model: %w", err)
		}
	}
	if embeddingBaseURL != "" {
		if err := configStore.Set("embedding.base_url", embeddingBaseURL); err != nil {
			return fmt.Errorf("saving base URL: %w", err)
		}
	}
	if embeddingAPIKey != "" {
		if err := configStore.Set("embedding.api_key", embeddingAPIKey); err != nil {
			return fmt.Errorf("saving API key: %w", err)
		}
	}
	if embeddingDimensions > 0 {
		if err := configStore.Set("embedding.dimensions", embeddingDimensions); err != nil {
			return fmt.Errorf("saving dimensions: %w", err)
		}
	}

	settings := loadEmbeddingSettings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("configuration incomplete: %w", err)
	}

	if embeddingCheck {
		if err := ai.ValidateEmbeddingConfig(&settings); err != nil {
			return fmt.Errorf("provider check failed: %w", err)
		}
		cmd.Println("Provider reachable.")
	}

	cmd.Println("Embedding configuration saved.")
	return nil
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
