package domain

import "errors"

// Document is a single indexable article supplied by the upstream corpus
// producer. Metadata carries at least a source URL and a human title.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// RetrievalResult is a ranked candidate returned by retrieval. Score is a
// similarity in a consistent direction: higher means more relevant.
type RetrievalResult struct {
	Text     string
	Metadata map[string]string
	Score    float64
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// ChatMessage is one turn in a session transcript. Timestamp is RFC3339.
type ChatMessage struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Sources   []string `json:"sources,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// Answer is the result of running a query through the full pipeline.
type Answer struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// URL returns the dereferenceable source reference of a result, or "#"
// when no real reference exists.
func (r RetrievalResult) URL() string {
	if u, ok := r.Metadata["url"]; ok && u != "" {
		return u
	}
	return "#"
}

var (
	// ErrDimensionMismatch reports a vector whose length does not match
	// the index dimension. Fatal to that insert, not to the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable reports a failed remote embedding call.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrGenerationFailure reports a failed remote generation call.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrPersistenceUnavailable reports an unreachable durable store.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
