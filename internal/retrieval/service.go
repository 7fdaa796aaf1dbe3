package retrieval

import (
	"context"
	"log"
	"strings"

	"newschat/internal/domain"
	"newschat/internal/embedding"
	"newschat/internal/vectorstore"
)

const (
	// DefaultTopK is the number of candidates handed to generation.
	DefaultTopK = 3

	keywordMatchScore = 0.8
	// forcedMatchScore tags corpus documents returned when no keyword
	// matched, so consumers can tell forced matches from real ones.
	forcedMatchScore = 0.3
)

// Service produces ranked candidate documents for a query. It tries
// embedding-based search first, then keyword matching over the corpus,
// then a built-in placeholder set, so it never returns an empty result.
// The tier choice is deterministic for a given corpus and query.
type Service struct {
	embedder embedding.Embedder
	store    vectorstore.Storage
	corpus   []domain.Document
}

func NewService(embedder embedding.Embedder, store vectorstore.Storage, corpus []domain.Document) *Service {
	return &Service{embedder: embedder, store: store, corpus: corpus}
}

// Retrieve returns up to topK candidates, best first. It does not fail:
// every degraded path resolves to a lower tier.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) []domain.RetrievalResult {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if s.store != nil && s.store.Len() > 0 {
		vec, err := s.embedder.Embed(ctx, query)
		if err == nil {
			results, serr := s.store.Search(vec, topK)
			if serr == nil && len(results) > 0 {
				return results
			}
			if serr != nil {
				log.Printf("vector search failed, falling back to keywords: %v", serr)
			}
		} else {
			log.Printf("query embedding failed, falling back to keywords: %v", err)
		}
	}
	return s.keywordRetrieve(query, topK)
}

func (s *Service) keywordRetrieve(query string, topK int) []domain.RetrievalResult {
	if len(s.corpus) == 0 {
		return placeholderResults(topK)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var matched []domain.RetrievalResult
	for _, doc := range s.corpus {
		if len(matched) >= topK {
			break
		}
		if matchesQuery(doc, q) {
			matched = append(matched, domain.RetrievalResult{
				Text:     doc.Text,
				Metadata: doc.Metadata,
				Score:    keywordMatchScore,
			})
		}
	}
	if len(matched) > 0 {
		return matched
	}
	// No keyword hit: force the first topK documents at a low score so
	// generation still has context to work with.
	forced := make([]domain.RetrievalResult, 0, topK)
	for _, doc := range s.corpus {
		if len(forced) >= topK {
			break
		}
		forced = append(forced, domain.RetrievalResult{
			Text:     doc.Text,
			Metadata: doc.Metadata,
			Score:    forcedMatchScore,
		})
	}
	return forced
}

func matchesQuery(doc domain.Document, q string) bool {
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(doc.Metadata["title"]), q) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Text), q) {
		return true
	}
	// Short queries like "bbc" name the outlet rather than a topic.
	if src := strings.ToLower(doc.Metadata["source"]); src != "" && strings.Contains(q, src) {
		return true
	}
	return false
}

// placeholderResults keeps the pipeline answering when the corpus itself
// is empty. Scores sit below the keyword-match level.
func placeholderResults(topK int) []domain.RetrievalResult {
	results := []domain.RetrievalResult{
		{
			Text: "Recent technology developments show promising advances in artificial intelligence " +
				"and machine learning applications across various industries.",
			Metadata: map[string]string{"url": "#", "title": "Technology Advancements", "category": "technology"},
			Score:    0.75,
		},
		{
			Text: "Global markets demonstrate resilience with technology sectors leading growth " +
				"amid changing economic conditions and investor optimism.",
			Metadata: map[string]string{"url": "#", "title": "Market Analysis", "category": "business"},
			Score:    0.65,
		},
	}
	if topK < len(results) {
		results = results[:topK]
	}
	return results
}
