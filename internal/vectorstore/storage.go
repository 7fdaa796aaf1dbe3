package vectorstore

import "newschat/internal/domain"

// Storage holds embedded documents and answers top-K similarity queries.
type Storage interface {
	Init(dimension int) error
	Add(vectors [][]float64, metadatas []map[string]string, documents []string) error
	Search(vector []float64, topK int) ([]domain.RetrievalResult, error)
	Clear() error
	Len() int
}
