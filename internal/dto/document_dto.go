package dto

import (
	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	DocumentId    uuid.UUID `json:"document_id"`
	Filename      string    `json:"filename"`
	ChunksIndexed int       `json:"chunks_indexed"`
}
