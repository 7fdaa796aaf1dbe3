package memory

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"newschat/internal/domain"
)

// Storage is an in-memory vector index using brute-force cosine similarity.
// Entries are append-only and kept in insertion order; vectors, metadatas
// and documents always have equal length.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	metadatas []map[string]string
	documents []string
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.metadatas = nil
	s.documents = nil
	return nil
}

// Add appends entries in lockstep. Every vector must match the index
// dimension; a mismatch rejects the whole batch.
func (s *Storage) Add(vectors [][]float64, metadatas []map[string]string, documents []string) error {
	if len(vectors) != len(metadatas) || len(vectors) != len(documents) {
		return errors.New("vectors, metadatas and documents length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return errors.New("storage not initialized")
	}
	for i, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(v), s.dimension)
		}
	}
	s.vectors = append(s.vectors, vectors...)
	s.metadatas = append(s.metadatas, metadatas...)
	s.documents = append(s.documents, documents...)
	return nil
}

// Search returns the topK most similar entries, sorted by descending
// cosine similarity. Ties keep insertion order. An empty index returns
// an empty slice.
func (s *Storage) Search(vector []float64, topK int) ([]domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 3
	}
	if len(s.vectors) == 0 {
		return nil, nil
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = Cosine(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.RetrievalResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.RetrievalResult{
			Text:     s.documents[j],
			Metadata: s.metadatas[j],
			Score:    scores[j],
		})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.metadatas = nil
	s.documents = nil
	return nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Cosine computes cosine similarity between two vectors. Zero-magnitude
// vectors score 0 rather than dividing by zero.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
