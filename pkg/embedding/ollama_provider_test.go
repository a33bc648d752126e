package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateBatch(t *testing.T) {
	var gotRequest ollamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float64{
				{3, 4},
				{0, 5},
			},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nomic-embed-text")

	vectors, err := provider.GenerateBatch(context.Background(), []string{"first text", "second text"})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}

	if gotRequest.Model != "nomic-embed-text" {
		t.Errorf("request model = %q", gotRequest.Model)
	}
	if len(gotRequest.Input) != 2 || gotRequest.Input[0] != "first text" {
		t.Errorf("request input = %v", gotRequest.Input)
	}

	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}

	// (3,4) normalized is (0.6,0.8).
	if math.Abs(float64(vectors[0][0])-0.6) > 1e-6 || math.Abs(float64(vectors[0][1])-0.8) > 1e-6 {
		t.Errorf("vector 0 = %v, want (0.6, 0.8)", vectors[0])
	}

	for i, vec := range vectors {
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if math.Abs(norm-1) > 1e-6 {
			t.Errorf("vector %d is not unit length: %v", i, norm)
		}
	}
}

func TestGenerateBatchEmptyInput(t *testing.T) {
	provider := NewOllamaProvider("http://localhost:0", "nomic-embed-text")

	vectors, err := provider.GenerateBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if vectors != nil {
		t.Errorf("got %v, want nil", vectors)
	}
}

func TestGenerateBatchCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float64{{1, 0}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nomic-embed-text")

	_, err := provider.GenerateBatch(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatal("expected error on embedding count mismatch")
	}
}

func TestGenerateBatchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "missing-model")

	_, err := provider.GenerateBatch(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGenerateDelegatesToBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float64{{0, 2}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nomic-embed-text")

	vector, err := provider.Generate(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(vector) != 2 || vector[1] != 1 {
		t.Errorf("vector = %v, want (0, 1)", vector)
	}
}
