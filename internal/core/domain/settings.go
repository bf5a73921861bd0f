package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderMock is a deterministic offline embedder.
	// Useful for tests and for trying the server without a model.
	AIProviderMock AIProvider = "mock"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderMock:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without network credentials.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderMock
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderMock:
		return "Mock (deterministic, offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingDimensions returns the vector sizes of known embedding
// models. Models not listed here fall back to the adapter's default.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"all-minilm":             384,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"mock-hash":              384,
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size. Zero means the
	// adapter's default for the model.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider != ""
}

// Validate checks the settings for consistency.
func (e EmbeddingSettings) Validate() error {
	if !e.IsConfigured() {
		return nil
	}
	if !e.Provider.IsValid() {
		return ErrInvalidInput
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return ErrInvalidInput
	}
	return nil
}

// Default indexing policy values.
const (
	DefaultChunkSize    = 400
	DefaultChunkOverlap = 20
	DefaultBatchSize    = 64
	DefaultWorkers      = 4
)

// IndexSettings holds reconciliation configuration.
type IndexSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// BatchSize is the maximum number of chunk texts per embedding call.
	BatchSize int

	// Workers bounds the number of documents reconciled concurrently.
	Workers int
}

// WithDefaults fills zero values with defaults.
func (s IndexSettings) WithDefaults() IndexSettings {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		s.ChunkOverlap = DefaultChunkOverlap
	}
	if s.BatchSize <= 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	return s
}

// Default search limits.
const (
	DefaultSearchK = 20
	MaxSearchK     = 100
)

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// DefaultK is the result count used when a caller does not supply one.
	DefaultK int

	// MaxK is the upper bound a caller-supplied k is clamped to.
	MaxK int
}

// WithDefaults fills zero values with defaults.
func (s SearchSettings) WithDefaults() SearchSettings {
	if s.DefaultK <= 0 {
		s.DefaultK = DefaultSearchK
	}
	if s.MaxK <= 0 {
		s.MaxK = MaxSearchK
	}
	return s
}
