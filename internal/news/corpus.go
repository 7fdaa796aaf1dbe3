package news

import (
	"context"
	"fmt"

	"newschat/internal/domain"
	"newschat/internal/embedding"
	"newschat/internal/vectorstore"
)

// SampleArticles returns the built-in corpus used when no upstream
// fetcher has run. The articles mirror the shape real fetched articles
// arrive in: url, title, source and a body of a few sentences.
func SampleArticles() []domain.Document {
	return []domain.Document{
		{
			ID: "sample-1",
			Text: "Artificial intelligence assistants are demonstrating improved capabilities in natural " +
				"language understanding and task completion. Recent advancements in large language models " +
				"have enabled more sophisticated interactions between humans and machines across various applications.",
			Metadata: map[string]string{
				"url":      "https://www.bbc.com/news/technology",
				"title":    "AI assistants are becoming more capable and integrated",
				"source":   "bbc technology",
				"category": "technology",
			},
		},
		{
			ID: "sample-2",
			Text: "Major technology companies are allocating significant resources toward artificial " +
				"intelligence research and development. New breakthroughs in machine learning algorithms are " +
				"enabling applications from advanced healthcare diagnostics to autonomous transportation systems.",
			Metadata: map[string]string{
				"url":      "https://www.nytimes.com/section/technology",
				"title":    "Tech companies invest billions in AI research and development",
				"source":   "new york times technology",
				"category": "technology",
			},
		},
		{
			ID: "sample-3",
			Text: "The technology sector continues to demonstrate strong performance in global markets, " +
				"largely driven by innovations in artificial intelligence and cloud computing. Investors are " +
				"showing increased confidence in companies that leverage AI to create new products and services.",
			Metadata: map[string]string{
				"url":      "https://www.bbc.com/news/business",
				"title":    "Technology sector leads market growth with AI innovations",
				"source":   "bbc business",
				"category": "business",
			},
		},
		{
			ID: "sample-4",
			Text: "Businesses worldwide are increasingly adopting artificial intelligence solutions to " +
				"improve operational efficiency and gain competitive advantages. From automated customer " +
				"service to predictive analytics, AI is transforming traditional business models across industries.",
			Metadata: map[string]string{
				"url":      "https://www.nytimes.com/section/business",
				"title":    "Global businesses adopt AI solutions for efficiency gains",
				"source":   "new york times business",
				"category": "business",
			},
		},
	}
}

// Seed embeds every document and loads the index in one batch. The index
// dimension is taken from the first embedding, so remote embedders that
// learn their dimension lazily work too.
func Seed(ctx context.Context, emb embedding.Embedder, store vectorstore.Storage, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	vectors := make([][]float64, 0, len(docs))
	metadatas := make([]map[string]string, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		vec, err := emb.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("embedding document %s: %w", doc.ID, err)
		}
		vectors = append(vectors, vec)
		metadatas = append(metadatas, doc.Metadata)
		texts = append(texts, doc.Text)
	}
	if err := store.Init(len(vectors[0])); err != nil {
		return err
	}
	return store.Add(vectors, metadatas, texts)
}
