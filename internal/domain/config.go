package domain

// VectorConfig holds the embedding model limits.
type VectorConfig struct {
	Model          string
	Dimensions     int
	MaxInputTokens int
	MaxBatchSize   int
}

// DefaultVectorConfig returns the defaults for text-embedding-3-small on pgvector.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     1536,
		MaxInputTokens: 8191,
		MaxBatchSize:   2048,
	}
}
