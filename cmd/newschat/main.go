package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"newschat/internal/api"
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
	"newschat/internal/session"
	"newschat/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/newschat/config.yaml if not provided)")
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

	// Assemble components
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "local", "":
		emb = localhash.NewEmbedder(cfg.Embedder.Dimension)
	case "jina":
		if cfg.Embedder.Jina == nil {
			log.Fatalf("jina embedder config missing")
		}
		client, err := jina.NewClient(jina.Config{
			BaseURL:   cfg.Embedder.Jina.BaseURL,
			APIKeyEnv: cfg.Embedder.Jina.APIKeyEnv,
			Model:     cfg.Embedder.Jina.Model,
			Timeout:   time.Duration(cfg.Embedder.Jina.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Printf("jina embedder init failed, using local fallback: %v", err)
			emb = localhash.NewEmbedder(cfg.Embedder.Dimension)
		} else {
			emb = client
		}
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	backup := template.NewGenerator()
	var gen generation.Generator
	switch cfg.Generator.Type {
	case "template", "":
		gen = backup
	case "gemini":
		if cfg.Generator.Gemini == nil {
			log.Fatalf("gemini generator config missing")
		}
		client, err := gemini.NewClient(gemini.Config{
			BaseURL:         cfg.Generator.Gemini.BaseURL,
			APIKeyEnv:       cfg.Generator.Gemini.APIKeyEnv,
			Model:           cfg.Generator.Gemini.Model,
			MaxOutputTokens: cfg.Generator.Gemini.MaxOutputTokens,
			Temperature:     cfg.Generator.Gemini.Temperature,
			TopP:            cfg.Generator.Gemini.TopP,
			Timeout:         time.Duration(cfg.Generator.Gemini.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Printf("gemini generator init failed, using template fallback: %v", err)
			gen = backup
		} else {
			gen = &generation.Fallback{Primary: client, Backup: backup}
		}
	default:
		log.Fatalf("unknown generator: %s", cfg.Generator.Type)
	}

	// Session store: probe redis once, fall back to memory for the
	// process lifetime.
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: time.Duration(cfg.Redis.TimeoutSecs) * time.Second,
	})
	sessions, redisActive := session.New(ctx, redisClient)
	if redisActive {
		log.Printf("connected to redis at %s", cfg.Redis.Addr)
	}

	// Seed the index with the corpus. A seeding failure (e.g. remote
	// embedder down) leaves the index empty; retrieval then serves the
	// keyword tier over the same corpus.
	corpus := news.SampleArticles()
	store := memory.NewStorage()
	if err := news.Seed(ctx, emb, store, corpus); err != nil {
		log.Printf("index seeding failed, keyword retrieval only: %v", err)
	} else {
		log.Printf("indexed %d articles with %s embeddings", store.Len(), emb.Name())
	}

	deliveries := hub.New()
	retriever := retrieval.NewService(emb, store, corpus)
	svc := chat.NewService(retriever, gen, sessions, deliveries, cfg.Retrieval.TopK)
	handler := api.NewHandler(svc, deliveries, redisActive, cfg.Server.AllowedOrigins)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("server running on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	_ = redisClient.Close()
}
