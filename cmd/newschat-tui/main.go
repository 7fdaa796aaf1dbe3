package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"newschat/internal/chat"
	"newschat/internal/config"
	"newschat/internal/embedding"
	"newschat/internal/embedding/jina"
	"newschat/internal/embedding/localhash"
	"newschat/internal/generation"
	"newschat/internal/generation/gemini"
	"newschat/internal/generation/template"
	"newschat/internal/hub"
	"newschat/internal/news"
	"newschat/internal/retrieval"
	"newschat/internal/session/memory"
	"newschat/internal/tui"
	storemem "newschat/internal/vectorstore/memory"
)

// The TUI client runs the full pipeline in-process: no HTTP server, no
// redis, sessions in memory. Remote providers are still used when their
// API keys are configured.
func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	var emb embedding.Embedder = localhash.NewEmbedder(cfg.Embedder.Dimension)
	if cfg.Embedder.Type == "jina" && cfg.Embedder.Jina != nil {
		client, err := jina.NewClient(jina.Config{
			BaseURL:   cfg.Embedder.Jina.BaseURL,
			APIKeyEnv: cfg.Embedder.Jina.APIKeyEnv,
			Model:     cfg.Embedder.Jina.Model,
			Timeout:   time.Duration(cfg.Embedder.Jina.TimeoutSecs) * time.Second,
		})
		if err == nil {
			emb = client
		}
	}

	backup := template.NewGenerator()
	var gen generation.Generator = backup
	if cfg.Generator.Type == "gemini" && cfg.Generator.Gemini != nil {
		client, err := gemini.NewClient(gemini.Config{
			BaseURL:         cfg.Generator.Gemini.BaseURL,
			APIKeyEnv:       cfg.Generator.Gemini.APIKeyEnv,
			Model:           cfg.Generator.Gemini.Model,
			MaxOutputTokens: cfg.Generator.Gemini.MaxOutputTokens,
			Temperature:     cfg.Generator.Gemini.Temperature,
			TopP:            cfg.Generator.Gemini.TopP,
			Timeout:         time.Duration(cfg.Generator.Gemini.TimeoutSecs) * time.Second,
		})
		if err == nil {
			gen = &generation.Fallback{Primary: client, Backup: backup}
		}
	}

	corpus := news.SampleArticles()
	store := storemem.NewStorage()
	if err := news.Seed(ctx, emb, store, corpus); err != nil {
		log.Printf("index seeding failed, keyword retrieval only: %v", err)
	}

	retriever := retrieval.NewService(emb, store, corpus)
	svc := chat.NewService(retriever, gen, memory.NewStore(), hub.New(), cfg.Retrieval.TopK)

	m := tui.New(svc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
