package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pdf-qa-be/internal/dto"
	"pdf-qa-be/internal/pkg/serverutils"
	"pdf-qa-be/internal/repository/memory"
	"pdf-qa-be/pkg/llm"
)

// --- Test doubles shared by the service tests ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeEmbedder struct {
	model      string
	vector     []float32
	err        error
	calls      int
	batchCalls int
}

func (f *fakeEmbedder) Model() string { return f.model }

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

type fakeLLM struct {
	answer      string
	err         error
	lastHistory []llm.Message
	lastOptions llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastHistory = history
	for _, opt := range options {
		opt(&f.lastOptions)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(r io.ReaderAt, size int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// --- Fixtures ---

func indexedRepository(t *testing.T, texts ...string) *memory.VectorIndexRepository {
	t.Helper()
	repo := memory.NewVectorIndexRepository()
	chunks := buildTestChunks(texts...)
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	if err := repo.Replace(context.Background(), "nomic-embed-text", chunks, vectors); err != nil {
		t.Fatalf("seed index: %v", err)
	}
	return repo
}

func newQAServiceForTest(embedder *fakeEmbedder, repo *memory.VectorIndexRepository, model *fakeLLM) IQAService {
	return NewQAService(embedder, repo, model, memory.NewEmbeddingCache(), nopLogger{}, 3, 0.3, 1024)
}

// --- Tests ---

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}},
		indexedRepository(t, "some content"),
		&fakeLLM{answer: "yes"},
	)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: question})

		var apiErr *serverutils.ApiError
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, serverutils.ErrorTypeInput, apiErr.ErrorType)
	}
}

func TestAskBeforeAnyDocumentIndexed(t *testing.T) {
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}},
		memory.NewVectorIndexRepository(),
		&fakeLLM{answer: "yes"},
	)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything?"})

	var apiErr *serverutils.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Code)
	assert.Equal(t, serverutils.ErrorTypeIndexNotReady, apiErr.ErrorType)
}

func TestAskChecksReadinessBeforeEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{model: "nomic-embed-text", err: errors.New("connection refused")}
	svc := newQAServiceForTest(embedder, memory.NewVectorIndexRepository(), &fakeLLM{answer: "yes"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything?"})

	// Even with the embedder down, an unindexed service answers not-ready,
	// and no embedding round trip is paid.
	var apiErr *serverutils.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Code)
	assert.Equal(t, serverutils.ErrorTypeIndexNotReady, apiErr.ErrorType)
	assert.Equal(t, 0, embedder.calls)
}

func TestAskOnEmptyIndexedDocument(t *testing.T) {
	repo := memory.NewVectorIndexRepository()
	assert.NoError(t, repo.Replace(context.Background(), "nomic-embed-text", nil, nil))

	model := &fakeLLM{answer: "I don't know."}
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}},
		repo,
		model,
	)

	// An image-only PDF indexes zero chunks; asking is not a conflict, it
	// just retrieves nothing.
	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything?"})
	assert.NoError(t, err)
	assert.False(t, res.AnswerError)
	assert.Empty(t, res.Sources)
	assert.Equal(t, "I don't know.", res.Answer)
}

func TestAskEmbeddingFailure(t *testing.T) {
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", err: errors.New("connection refused")},
		indexedRepository(t, "some content"),
		&fakeLLM{answer: "yes"},
	)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything?"})

	var apiErr *serverutils.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.Code)
	assert.Equal(t, serverutils.ErrorTypeUpstreamService, apiErr.ErrorType)
}

func TestAskBuildsGroundedPrompt(t *testing.T) {
	model := &fakeLLM{answer: "  The answer.  "}
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}},
		indexedRepository(t, "alpha facts", "beta facts", "gamma facts"),
		model,
	)

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What about alpha?"})
	assert.NoError(t, err)
	assert.Equal(t, "The answer.", res.Answer)
	assert.False(t, res.AnswerError)
	assert.Len(t, res.Sources, 3)

	assert.Len(t, model.lastHistory, 2)
	assert.Equal(t, "system", model.lastHistory[0].Role)
	assert.Equal(t, "You are a professional research assistant.", model.lastHistory[0].Content)

	userPrompt := model.lastHistory[1].Content
	assert.Equal(t, "user", model.lastHistory[1].Role)
	assert.Contains(t, userPrompt, "alpha facts")
	assert.Contains(t, userPrompt, "beta facts")
	assert.Contains(t, userPrompt, "gamma facts")
	assert.Contains(t, userPrompt, "Question: What about alpha?")

	assert.InDelta(t, 0.3, model.lastOptions.Temperature, 1e-9)
	assert.Equal(t, 1024, model.lastOptions.MaxTokens)
}

func TestAskDowngradesLLMFailure(t *testing.T) {
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}},
		indexedRepository(t, "retrievable content"),
		&fakeLLM{err: errors.New("rate limited")},
	)

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything?"})

	// Retrieval succeeded, so the caller still gets sources.
	assert.NoError(t, err)
	assert.True(t, res.AnswerError)
	assert.Contains(t, res.Answer, "Error reaching the language model")
	assert.Contains(t, res.Answer, "rate limited")
	assert.Len(t, res.Sources, 1)
	assert.Equal(t, "retrievable content", res.Sources[0].Preview)
}

func TestAskTruncatesSourcePreviews(t *testing.T) {
	longChunk := strings.Repeat("x", 150)
	svc := newQAServiceForTest(
		&fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}},
		indexedRepository(t, longChunk),
		&fakeLLM{answer: "yes"},
	)

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything?"})
	assert.NoError(t, err)
	assert.Len(t, res.Sources, 1)
	assert.Equal(t, strings.Repeat("x", 100)+"...", res.Sources[0].Preview)
	assert.Equal(t, 0, res.Sources[0].ChunkIndex)
}

func TestAskCachesQuestionEmbeddings(t *testing.T) {
	embedder := &fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}}
	svc := newQAServiceForTest(embedder, indexedRepository(t, "content"), &fakeLLM{answer: "yes"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "repeated question?"})
	assert.NoError(t, err)
	_, err = svc.Ask(context.Background(), &dto.AskRequest{Question: "repeated question?"})
	assert.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
}

func TestHealthReflectsIndexState(t *testing.T) {
	embedder := &fakeEmbedder{model: "nomic-embed-text", vector: []float32{1, 0}}

	empty := newQAServiceForTest(embedder, memory.NewVectorIndexRepository(), &fakeLLM{})
	res := empty.Health(context.Background())
	assert.Equal(t, "healthy", res.Status)
	assert.False(t, res.IndexReady)
	assert.Equal(t, 0, res.ChunksIndexed)

	ready := newQAServiceForTest(embedder, indexedRepository(t, "a", "b"), &fakeLLM{})
	res = ready.Health(context.Background())
	assert.Equal(t, "healthy", res.Status)
	assert.True(t, res.IndexReady)
	assert.Equal(t, 2, res.ChunksIndexed)
}
