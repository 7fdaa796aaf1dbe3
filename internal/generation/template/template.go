package template

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"newschat/internal/domain"
)

// Generator synthesizes a deterministic answer without calling any
// external service. It classifies the query into a coarse topic bucket
// and leads with a sentence from the top candidate when one is
// available. It never fails and never surfaces internal error text.
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) Name() string { return "template" }

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

var topicKeywords = map[string][]string{
	"technology": {"tech", "ai", "computer", "software", "chip", "robot"},
	"business":   {"business", "market", "economy", "stock", "invest", "company"},
	"world":      {"world", "global", "international", "diplomat", "climate"},
	"health":     {"health", "medical", "care", "disease", "hospital"},
}

var topicAnswers = map[string]string{
	"technology": "Recent technology news includes breakthroughs in AI research, quantum computing " +
		"advancements, and improved cybersecurity measures. Companies are investing heavily in digital transformation.",
	"business": "Business sectors are showing positive trends with strong market performance, increased " +
		"startup funding, and corporate earnings exceeding expectations. Economic indicators remain favorable.",
	"world": "Global developments include international cooperation on climate initiatives, diplomatic " +
		"efforts to address regional challenges, and humanitarian responses to natural disasters.",
	"health": "Healthcare innovations are improving patient outcomes through new medical treatments, " +
		"digital health solutions, and public health initiatives that address community needs.",
}

func (g *Generator) Generate(_ context.Context, query string, candidates []domain.RetrievalResult) (string, error) {
	topic := Classify(query)
	var b strings.Builder
	if lead := leadSentence(candidates); lead != "" {
		fmt.Fprintf(&b, "Based on recent news coverage: %s ", lead)
	}
	if answer, ok := topicAnswers[topic]; ok {
		b.WriteString(answer)
	} else {
		fmt.Fprintf(&b, "I understand you're asking about %q. Recent reporting spans technology, "+
			"business, and global developments; ask about any of these for more detail.", query)
	}
	return b.String(), nil
}

// Classify maps a query onto a coarse topic bucket by keyword substring.
func Classify(query string) string {
	q := strings.ToLower(query)
	for _, topic := range []string{"technology", "business", "world", "health"} {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(q, kw) {
				return topic
			}
		}
	}
	return "general"
}

func leadSentence(candidates []domain.RetrievalResult) string {
	if len(candidates) == 0 {
		return ""
	}
	text := strings.TrimSpace(candidates[0].Text)
	if text == "" {
		return ""
	}
	if sentences := sentenceRe.FindAllString(text, 1); len(sentences) > 0 {
		return strings.TrimSpace(sentences[0])
	}
	return text
}
