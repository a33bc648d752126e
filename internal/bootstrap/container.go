package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pdf-qa-be/internal/config"
	"pdf-qa-be/internal/controller"
	"pdf-qa-be/internal/pkg/logger"
	"pdf-qa-be/internal/repository/contract"
	"pdf-qa-be/internal/repository/implementation"
	"pdf-qa-be/internal/repository/memory"
	"pdf-qa-be/internal/service"
	"pdf-qa-be/pkg/database"
	"pdf-qa-be/pkg/embedding"
	"pdf-qa-be/pkg/extractor"
	"pdf-qa-be/pkg/llm/factory"
	"pdf-qa-be/pkg/utils"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	QAController       controller.IQAController
	HealthController   controller.IHealthController
}

// verifyIndexModel checks a durable index against the configured embedding
// model. An index that was never built passes; one built by another model
// fails with ErrModelMismatch.
func verifyIndexModel(ctx context.Context, index contract.VectorIndexRepository, expectedModel string) error {
	indexModel, err := index.Model(ctx)
	if err != nil {
		return err
	}
	if indexModel != "" && indexModel != expectedModel {
		return fmt.Errorf("%w: index built with %q, configured model is %q",
			contract.ErrModelMismatch, indexModel, expectedModel)
	}
	return nil
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. AI Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaEmbeddingModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.OllamaEmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GroqAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. Vector Index Backend
	var index contract.VectorIndexRepository
	snapshotPath := ""
	switch cfg.Index.Backend {
	case "pgvector":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to database: %v", err)
		}
		index = implementation.NewVectorIndexRepository(db)
		// Refuse to serve a persisted index built by another embedding
		// model; distances across models are meaningless.
		if err := verifyIndexModel(context.Background(), index, cfg.Ai.OllamaEmbeddingModel); err != nil {
			log.Fatalf("[FATAL] Persisted index rejected: %v (re-upload the document or restore the configured model)", err)
		}
		log.Printf("[INFO] Using Vector Index Backend: PGVECTOR")
	default:
		memIndex := memory.NewVectorIndexRepository()
		snapshotPath = cfg.Index.SnapshotPath
		if snapshotPath != "" {
			if err := memIndex.Load(snapshotPath, cfg.Ai.OllamaEmbeddingModel); err != nil {
				if errors.Is(err, contract.ErrModelMismatch) {
					sysLogger.Warn("bootstrap", "Index snapshot was built with a different embedding model, starting empty", map[string]interface{}{
						"path": snapshotPath,
					})
				} else {
					sysLogger.Info("bootstrap", "No index snapshot restored, starting empty", map[string]interface{}{
						"path":   snapshotPath,
						"reason": err.Error(),
					})
				}
			} else {
				sysLogger.Info("bootstrap", "Index snapshot restored", map[string]interface{}{
					"path": snapshotPath,
				})
			}
		}
		index = memIndex
		log.Printf("[INFO] Using Vector Index Backend: MEMORY")
	}

	// 4. Pipeline Components
	splitter, err := utils.NewTextSplitter(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		log.Fatalf("[FATAL] Invalid chunking configuration: %v", err)
	}
	pdfExtractor := extractor.NewPDFExtractor()
	embedCache := memory.NewEmbeddingCache()

	// 5. Services
	ingestionService := service.NewIngestionService(
		pdfExtractor,
		splitter,
		embeddingProvider,
		index,
		sysLogger,
		snapshotPath,
	)
	qaService := service.NewQAService(
		embeddingProvider,
		index,
		llmProvider,
		embedCache,
		sysLogger,
		cfg.Index.TopK,
		cfg.Ai.Temperature,
		cfg.Ai.MaxTokens,
	)

	// 6. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(ingestionService),
		QAController:       controller.NewQAController(qaService),
		HealthController:   controller.NewHealthController(qaService),
	}
}
