package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// suggestPrompt asks the generator for three questions in the exact
// "a||b||c" shape the clients parse.
const suggestPrompt = "Create a list of three open-ended and engaging questions formatted as a single string. " +
	"Each question should be separated by '||'. These questions are for an anonymous social messaging platform " +
	"and should be suitable for a diverse audience. Avoid personal or sensitive topics, focusing instead on " +
	"universal themes that encourage friendly interaction."

// WindowCounter abstracts the horizontally shared rate counter (Redis).
// In-process counters are deliberately not an option here; they do not
// survive multiple server instances.
type WindowCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// SuggestService produces prompt suggestions with a per-caller throttle.
type SuggestService struct {
	generator ports.SuggestionGenerator
	counter   WindowCounter
	limit     int64
	logger    zerolog.Logger
}

func NewSuggestService(generator ports.SuggestionGenerator, counter WindowCounter, limit int64, logger zerolog.Logger) *SuggestService {
	if limit <= 0 {
		limit = 12
	}
	return &SuggestService{
		generator: generator,
		counter:   counter,
		limit:     limit,
		logger:    logger,
	}
}

// Suggest returns three open-ended questions for the caller. The generator
// is an external collaborator; when it fails or returns a malformed string
// the canned pool takes over so the endpoint never breaks the page.
func (s *SuggestService) Suggest(ctx context.Context, callerKey string) ([]string, error) {
	n, err := s.counter.Incr(ctx, callerKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("suggestion counter unavailable, serving anyway")
	} else if n > s.limit {
		return nil, domain.ErrSuggestionsThrottled
	}

	raw, err := s.generator.Generate(ctx, suggestPrompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("suggestion generator failed, using fallback pool")
		return fallbackSuggestions(), nil
	}

	parts := splitSuggestions(raw)
	if len(parts) != 3 {
		s.logger.Warn().Str("raw", raw).Msg("malformed generator output, using fallback pool")
		return fallbackSuggestions(), nil
	}
	return parts, nil
}

func splitSuggestions(raw string) []string {
	parts := strings.Split(raw, "||")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fallbackSuggestions mirrors the tone of the generated prompts.
func fallbackSuggestions() []string {
	return []string{
		"What's a hobby you've recently started?",
		"If you could have dinner with any historical figure, who would it be?",
		"What's a simple thing that makes you happy?",
	}
}
