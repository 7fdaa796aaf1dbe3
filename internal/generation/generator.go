package generation

import (
	"context"
	"log"

	"newschat/internal/domain"
)

// Generator turns a query plus retrieved candidates into an answer.
type Generator interface {
	Name() string
	Generate(ctx context.Context, query string, candidates []domain.RetrievalResult) (string, error)
}

// lastResortAnswer is returned only if both generation paths misbehave.
const lastResortAnswer = "I'm here to help answer your questions about recent news. " +
	"Please ask me about technology developments, business trends, world events, or other current topics."

// Fallback composes a primary generator with a backup. Its Generate
// never returns an error and never returns an empty string: a failing
// primary hands over to the backup, and a misbehaving backup is replaced
// by a fixed answer.
type Fallback struct {
	Primary Generator
	Backup  Generator
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) Generate(ctx context.Context, query string, candidates []domain.RetrievalResult) (string, error) {
	if f.Primary != nil {
		text, err := f.Primary.Generate(ctx, query, candidates)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			log.Printf("%s generation failed, using %s fallback: %v", f.Primary.Name(), f.backupName(), err)
		}
	}
	if f.Backup != nil {
		text, err := f.Backup.Generate(ctx, query, candidates)
		if err == nil && text != "" {
			return text, nil
		}
	}
	return lastResortAnswer, nil
}

func (f *Fallback) backupName() string {
	if f.Backup == nil {
		return "builtin"
	}
	return f.Backup.Name()
}
