package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-qa-be/internal/dto"
	"pdf-qa-be/internal/entity"
	"pdf-qa-be/internal/pkg/logger"
	"pdf-qa-be/internal/pkg/serverutils"
	"pdf-qa-be/internal/repository/contract"
	"pdf-qa-be/pkg/embedding"
	"pdf-qa-be/pkg/extractor"
	"pdf-qa-be/pkg/utils"
)

// IIngestionService builds the vector index from an uploaded document
type IIngestionService interface {
	IngestDocument(ctx context.Context, filename string, data []byte) (*dto.UploadDocumentResponse, error)
}

type ingestionService struct {
	extractor         extractor.TextExtractor
	splitter          *utils.TextSplitter
	embeddingProvider embedding.EmbeddingProvider
	index             contract.VectorIndexRepository
	sysLogger         logger.ILogger
	snapshotPath      string

	// Serializes index builds; a second upload waits for the first.
	buildMu sync.Mutex
}

func NewIngestionService(
	textExtractor extractor.TextExtractor,
	splitter *utils.TextSplitter,
	embeddingProvider embedding.EmbeddingProvider,
	index contract.VectorIndexRepository,
	sysLogger logger.ILogger,
	snapshotPath string,
) IIngestionService {
	return &ingestionService{
		extractor:         textExtractor,
		splitter:          splitter,
		embeddingProvider: embeddingProvider,
		index:             index,
		sysLogger:         sysLogger,
		snapshotPath:      snapshotPath,
	}
}

// IngestDocument runs extract -> chunk -> embed -> replace index. The
// replace happens only after every embedding succeeded, so a failed build
// leaves the previous index untouched.
func (s *ingestionService) IngestDocument(ctx context.Context, filename string, data []byte) (*dto.UploadDocumentResponse, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, serverutils.NewInputError("Only PDF files are allowed.")
	}
	if len(data) == 0 {
		return nil, serverutils.NewInputError("Uploaded file is empty.")
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	text, err := s.extractor.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, serverutils.NewExtractionError("Could not read the PDF document.", err)
	}

	texts := s.splitter.Split(text)
	s.sysLogger.Info("ingestion", "Document split into chunks", map[string]interface{}{
		"filename":       filename,
		"content_length": len(text),
		"chunks":         len(texts),
	})

	documentId := uuid.New()
	now := time.Now()
	chunks := make([]*entity.Chunk, len(texts))
	for i, chunkText := range texts {
		chunks[i] = &entity.Chunk{
			Id:         uuid.New(),
			DocumentId: documentId,
			Text:       chunkText,
			ChunkIndex: i,
			Metadata: map[string]string{
				"source":   "pdf",
				"filename": filename,
			},
			CreatedAt: now,
		}
	}

	// Scanned or image-only PDFs extract to nothing; index the empty
	// document rather than failing the upload.
	var vectors [][]float32
	if len(texts) > 0 {
		vectors, err = s.embeddingProvider.GenerateBatch(ctx, texts)
	}
	if err != nil {
		// Abort before touching the index: partial work is discarded and
		// the previous index keeps serving queries.
		s.sysLogger.Error("ingestion", "Embedding generation failed", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
		return nil, serverutils.NewUpstreamServiceError("Embedding provider failed; the document was not indexed.", err)
	}

	if err := s.index.Replace(ctx, s.embeddingProvider.Model(), chunks, vectors); err != nil {
		return nil, err
	}

	s.saveSnapshot(filename)

	s.sysLogger.Info("ingestion", "Document indexed", map[string]interface{}{
		"filename":    filename,
		"document_id": documentId.String(),
		"chunks":      len(chunks),
	})

	return &dto.UploadDocumentResponse{
		DocumentId:    documentId,
		Filename:      filename,
		ChunksIndexed: len(chunks),
	}, nil
}

// saveSnapshot persists the freshly built index when the backend supports
// snapshots. Failure is logged, not surfaced: the in-memory index is already
// serving.
func (s *ingestionService) saveSnapshot(filename string) {
	if s.snapshotPath == "" {
		return
	}
	snapshotRepo, ok := s.index.(contract.SnapshotRepository)
	if !ok {
		return
	}
	if err := snapshotRepo.Save(s.snapshotPath); err != nil {
		s.sysLogger.Warn("ingestion", "Failed to save index snapshot", map[string]interface{}{
			"filename": filename,
			"path":     s.snapshotPath,
			"error":    err.Error(),
		})
	}
}
