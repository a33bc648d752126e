package dto

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// SourceDTO is a truncated preview of a retrieved context chunk.
type SourceDTO struct {
	Preview    string  `json:"preview"`
	ChunkIndex int     `json:"chunk_index"`
	Distance   float64 `json:"distance"`
}

// AskResponse carries the generated answer. AnswerError signals that the
// language model call failed and Answer holds an explanatory message instead
// of a generated answer; the retrieved sources are still included so the
// retrieval work is not wasted.
type AskResponse struct {
	Answer      string      `json:"answer"`
	AnswerError bool        `json:"answer_error"`
	Sources     []SourceDTO `json:"sources"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	IndexReady    bool   `json:"index_ready"`
	ChunksIndexed int    `json:"chunks_indexed"`
}
