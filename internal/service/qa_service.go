package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdf-qa-be/internal/dto"
	"pdf-qa-be/internal/pkg/logger"
	"pdf-qa-be/internal/pkg/serverutils"
	"pdf-qa-be/internal/repository/contract"
	"pdf-qa-be/internal/repository/memory"
	"pdf-qa-be/pkg/embedding"
	"pdf-qa-be/pkg/llm"
	"pdf-qa-be/pkg/rag/prompt"
)

// sourcePreviewLength bounds the chunk text echoed back as a source.
const sourcePreviewLength = 100

// IQAService answers questions against the currently indexed document
type IQAService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type qaService struct {
	embeddingProvider embedding.EmbeddingProvider
	index             contract.VectorIndexRepository
	llmProvider       llm.LLMProvider
	embedCache        *memory.EmbeddingCache
	sysLogger         logger.ILogger

	topK        int
	temperature float64
	maxTokens   int
}

func NewQAService(
	embeddingProvider embedding.EmbeddingProvider,
	index contract.VectorIndexRepository,
	llmProvider llm.LLMProvider,
	embedCache *memory.EmbeddingCache,
	sysLogger logger.ILogger,
	topK int,
	temperature float64,
	maxTokens int,
) IQAService {
	return &qaService{
		embeddingProvider: embeddingProvider,
		index:             index,
		llmProvider:       llmProvider,
		embedCache:        embedCache,
		sysLogger:         sysLogger,
		topK:              topK,
		temperature:       temperature,
		maxTokens:         maxTokens,
	}
}

// Ask retrieves the most relevant chunks for the question and forwards them
// with the question to the language model. A language-model failure is
// downgraded to an explanatory answer so the retrieval work still reaches
// the caller; embedding and retrieval failures are surfaced as errors.
func (s *qaService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(request.Question)
	if question == "" {
		return nil, serverutils.NewInputError("Question must not be empty.")
	}

	// Readiness comes first: an unindexed service must answer 409 before any
	// embedding round trip is paid.
	indexModel, err := s.index.Model(ctx)
	if err != nil {
		return nil, err
	}
	if indexModel == "" {
		return nil, serverutils.NewIndexNotReadyError("No PDF has been uploaded and indexed yet.")
	}

	vector, err := s.embedQuestion(ctx, question)
	if err != nil {
		return nil, serverutils.NewUpstreamServiceError("Embedding provider failed.", err)
	}

	results, err := s.index.Search(ctx, vector, s.topK)
	if err != nil {
		if errors.Is(err, contract.ErrIndexNotReady) {
			return nil, serverutils.NewIndexNotReadyError("No PDF has been uploaded and indexed yet.")
		}
		return nil, err
	}

	contextTexts := make([]string, len(results))
	sources := make([]dto.SourceDTO, len(results))
	for i, res := range results {
		contextTexts[i] = res.Chunk.Text
		sources[i] = dto.SourceDTO{
			Preview:    preview(res.Chunk.Text, sourcePreviewLength),
			ChunkIndex: res.Chunk.ChunkIndex,
			Distance:   res.Distance,
		}
	}

	builder := prompt.NewContextualBuilder(contextTexts, question)
	history := []llm.Message{
		{Role: "system", Content: prompt.SystemPersona},
		{Role: "user", Content: builder.Build()},
	}

	answer, err := s.llmProvider.Chat(ctx, history,
		llm.WithTemperature(s.temperature),
		llm.WithMaxTokens(s.maxTokens),
	)
	if err != nil {
		s.sysLogger.Error("qa", "LLM call failed", map[string]interface{}{
			"question": question,
			"error":    err.Error(),
		})
		return &dto.AskResponse{
			Answer:      fmt.Sprintf("Error reaching the language model: %v. The retrieved context is still listed under sources.", err),
			AnswerError: true,
			Sources:     sources,
		}, nil
	}

	return &dto.AskResponse{
		Answer:      strings.TrimSpace(answer),
		AnswerError: false,
		Sources:     sources,
	}, nil
}

// Health reports process liveness plus index state. It never fails: the
// service is alive whether or not a document has been indexed.
func (s *qaService) Health(ctx context.Context) *dto.HealthResponse {
	count, err := s.index.Count(ctx)
	if err != nil {
		count = 0
	}
	model, err := s.index.Model(ctx)
	if err != nil {
		model = ""
	}
	return &dto.HealthResponse{
		Status:        "healthy",
		IndexReady:    model != "",
		ChunksIndexed: count,
	}
}

func (s *qaService) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	if vector, found := s.embedCache.Get(question); found {
		return vector, nil
	}
	vector, err := s.embeddingProvider.Generate(ctx, question)
	if err != nil {
		return nil, err
	}
	s.embedCache.Set(question, vector)
	return vector, nil
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
