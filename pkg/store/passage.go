package store

import "github.com/google/uuid"

// Passage is one ranked chunk returned by workspace retrieval.
type Passage struct {
	DocumentId uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Score      float64   `json:"score"`
}
