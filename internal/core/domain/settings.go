package domain

// Default tunables for the chunking and retrieval pipeline.
const (
	// DefaultChunkSize is the maximum characters per chunk.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the shared text between adjacent split chunks
	// on the section path. The flat path uses no overlap.
	DefaultChunkOverlap = 50

	// DefaultTopK is the number of chunks retrieved per query.
	DefaultTopK = 5

	// DefaultMinParagraphLen filters boilerplate and captions during
	// extraction: paragraphs at or below this visible length are skipped.
	DefaultMinParagraphLen = 20

	// DefaultMinSectionLen filters stub sections during chunking: sections
	// shorter than this are not indexed.
	DefaultMinSectionLen = 50
)

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// BaseURL is an OpenAI-compatible embeddings endpoint. Overridable for
	// local inference servers.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKey authenticates against the provider. Usually supplied via the
	// environment, not the config file.
	APIKey string `toml:"-"`
}

// IsConfigured returns true if the settings are usable.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.APIKey != ""
}

// LLMSettings configures the completion provider.
type LLMSettings struct {
	// BaseURL is a chat-completions endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the completion model name.
	Model string `toml:"model"`

	// APIKey authenticates against the provider. Usually supplied via the
	// environment, not the config file.
	APIKey string `toml:"-"`

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64 `toml:"temperature"`
}

// IsConfigured returns true if the settings are usable.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.APIKey != ""
}

// Settings holds the recognised configuration surface of the pipeline.
type Settings struct {
	// ChunkSize is the maximum characters per chunk.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the shared text between adjacent split chunks.
	// Must be smaller than ChunkSize.
	ChunkOverlap int `toml:"chunk_overlap"`

	// TopK is the number of chunks retrieved per query.
	TopK int `toml:"similarity_top_k"`

	// MinParagraphLen is the minimum visible paragraph length kept by the
	// extractor.
	MinParagraphLen int `toml:"min_paragraph_len"`

	// MinSectionLen is the minimum section length indexed by the chunker.
	MinSectionLen int `toml:"min_section_len"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingSettings `toml:"embedding"`

	// LLM configures the completion provider.
	LLM LLMSettings `toml:"llm"`
}

// DefaultSettings returns settings populated with pipeline defaults.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		TopK:            DefaultTopK,
		MinParagraphLen: DefaultMinParagraphLen,
		MinSectionLen:   DefaultMinSectionLen,
	}
}

// Validate checks the settings for configuration errors.
func (s *Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return ErrInvalidChunking
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return ErrInvalidChunking
	}
	if s.TopK <= 0 {
		return ErrInvalidInput
	}
	return nil
}
