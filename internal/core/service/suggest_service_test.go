package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

type stubGenerator struct {
	output string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.output, g.err
}

type stubCounter struct {
	n   int64
	err error
}

func (c *stubCounter) Incr(_ context.Context, _ string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.n++
	return c.n, nil
}

func TestSuggestService_Success(t *testing.T) {
	gen := &stubGenerator{output: "What's your favorite season?||What book changed your mind?||Where would you travel next?"}
	svc := NewSuggestService(gen, &stubCounter{}, 12, zerolog.Nop())

	parts, err := svc.Suggest(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(parts))
	}
	if parts[0] != "What's your favorite season?" {
		t.Fatalf("unexpected first suggestion: %q", parts[0])
	}
	if gen.prompt == "" {
		t.Fatalf("generator was not given a prompt")
	}
}

func TestSuggestService_Throttle(t *testing.T) {
	gen := &stubGenerator{output: "a||b||c"}
	svc := NewSuggestService(gen, &stubCounter{}, 2, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := svc.Suggest(context.Background(), "caller"); err != nil {
			t.Fatalf("request %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.Suggest(context.Background(), "caller"); err != domain.ErrSuggestionsThrottled {
		t.Fatalf("expected ErrSuggestionsThrottled, got %v", err)
	}
}

func TestSuggestService_CounterFailureServesAnyway(t *testing.T) {
	gen := &stubGenerator{output: "a||b||c"}
	svc := NewSuggestService(gen, &stubCounter{err: errors.New("redis down")}, 1, zerolog.Nop())

	parts, err := svc.Suggest(context.Background(), "caller")
	if err != nil {
		t.Fatalf("Suggest must survive a counter outage, got %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(parts))
	}
}

func TestSuggestService_GeneratorFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	svc := NewSuggestService(gen, &stubCounter{}, 12, zerolog.Nop())

	parts, err := svc.Suggest(context.Background(), "caller")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("fallback pool must yield 3 suggestions, got %d", len(parts))
	}
}

func TestSuggestService_MalformedOutputFallsBack(t *testing.T) {
	for _, raw := range []string{"", "only one", "a||b", "a||b||c||d"} {
		gen := &stubGenerator{output: raw}
		svc := NewSuggestService(gen, &stubCounter{}, 12, zerolog.Nop())

		parts, err := svc.Suggest(context.Background(), "caller")
		if err != nil {
			t.Fatalf("raw %q: Suggest failed: %v", raw, err)
		}
		if len(parts) != 3 {
			t.Fatalf("raw %q: expected fallback of 3, got %d", raw, len(parts))
		}
		if parts[0] == "only one" || parts[0] == "a" {
			t.Fatalf("raw %q: malformed output was served: %+v", raw, parts)
		}
	}
}

func TestSplitSuggestions(t *testing.T) {
	parts := splitSuggestions("  one  || two||three ")
	if len(parts) != 3 || parts[0] != "one" || parts[1] != "two" || parts[2] != "three" {
		t.Fatalf("unexpected split: %+v", parts)
	}
	if got := splitSuggestions("||||"); len(got) != 0 {
		t.Fatalf("expected empty split, got %+v", got)
	}
}
