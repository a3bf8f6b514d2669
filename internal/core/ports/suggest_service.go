package ports

import "context"

// SuggestService produces three open-ended prompt suggestions for an
// anonymous sender. Throttling is per caller key (remote address), backed
// by an externally shared counter so it holds across server instances.
type SuggestService interface {
	Suggest(ctx context.Context, callerKey string) ([]string, error)
}

// SuggestionGenerator is the external text-generation collaborator.
// Generate returns a single string with questions separated by "||".
type SuggestionGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
