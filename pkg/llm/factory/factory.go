package factory

import (
	"fmt"

	"pdf-qa-be/pkg/llm"
	"pdf-qa-be/pkg/llm/groq"
	"pdf-qa-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, ollamaBaseURL, groqAPIKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		return groq.NewGroqProvider("", modelName, groqAPIKey)
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
