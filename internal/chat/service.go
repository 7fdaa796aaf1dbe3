package chat

import (
	"context"
	"log"
	"time"

	"newschat/internal/domain"
	"newschat/internal/generation"
	"newschat/internal/retrieval"
	"newschat/internal/session"
)

// errorTurnContent is the only text that ever reaches the delivery
// channel when a turn fails; upstream error detail stays in the logs.
const errorTurnContent = "Sorry, I encountered an error processing your request. Please try again."

// Publisher delivers a message to the live listeners of a session.
type Publisher interface {
	Publish(sessionID string, msg domain.ChatMessage)
}

// Service is the top-level use case: it answers one-shot queries and
// drives full chat turns (persist, deliver, answer, persist, deliver).
//
// Concurrent turns on the same session are not ordered relative to each
// other; two simultaneous messages may interleave their persistence and
// delivery order.
type Service struct {
	retriever *retrieval.Service
	generator generation.Generator
	sessions  session.Store
	publisher Publisher
	topK      int
}

func NewService(retriever *retrieval.Service, generator generation.Generator, sessions session.Store, publisher Publisher, topK int) *Service {
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}
	return &Service{
		retriever: retriever,
		generator: generator,
		sessions:  sessions,
		publisher: publisher,
		topK:      topK,
	}
}

// Answer runs the query through retrieval and generation. It always
// returns a non-empty response; sources list each candidate's URL in
// rank order, duplicates and "#" placeholders included.
func (s *Service) Answer(ctx context.Context, query string) domain.Answer {
	candidates := s.retriever.Retrieve(ctx, query, s.topK)
	response, err := s.generator.Generate(ctx, query, candidates)
	if err != nil || response == "" {
		// The generator contract is never-fail; guard anyway so no raw
		// failure escapes the orchestrator.
		log.Printf("generator broke its contract: %v", err)
		response = errorTurnContent
	}
	sources := make([]string, 0, len(candidates))
	for _, c := range candidates {
		sources = append(sources, c.URL())
	}
	return domain.Answer{Response: response, Sources: sources}
}

// HandleTurn processes one chat message: the user turn is persisted and
// delivered, then the assistant turn is computed, persisted and
// delivered. Any failure is replaced by a single synthetic error-role
// message that is delivered but never persisted.
func (s *Service) HandleTurn(ctx context.Context, sessionID, text string) {
	userMsg := domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: now(),
	}
	if err := s.sessions.Append(ctx, sessionID, userMsg); err != nil {
		s.failTurn(sessionID, err)
		return
	}
	s.publisher.Publish(sessionID, userMsg)

	answer := s.Answer(ctx, text)

	assistantMsg := domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   answer.Response,
		Sources:   answer.Sources,
		Timestamp: now(),
	}
	if err := s.sessions.Append(ctx, sessionID, assistantMsg); err != nil {
		s.failTurn(sessionID, err)
		return
	}
	s.publisher.Publish(sessionID, assistantMsg)
}

// History returns the session transcript, oldest first.
func (s *Service) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return s.sessions.History(ctx, sessionID)
}

// ClearHistory removes the session transcript.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

func (s *Service) failTurn(sessionID string, err error) {
	log.Printf("chat turn failed for session %s: %v", sessionID, err)
	s.publisher.Publish(sessionID, domain.ChatMessage{
		Role:      domain.RoleError,
		Content:   errorTurnContent,
		Timestamp: now(),
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
