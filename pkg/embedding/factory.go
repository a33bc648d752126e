package embedding

import "fmt"

// NewProvider selects the embedding backend by name. Unknown names are a
// configuration error, not a silent fallback.
func NewProvider(providerType, ollamaBaseURL, modelName string) (EmbeddingProvider, error) {
	switch providerType {
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
