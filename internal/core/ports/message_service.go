package ports

import (
	"context"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

// MessageService covers the anonymous inbox: sending, listing, deleting,
// and the acceptance toggle.
type MessageService interface {
	// Send appends an anonymous message to the inbox of the user behind
	// username, provided they are currently accepting messages.
	Send(ctx context.Context, username, content string) error
	// List returns the caller's messages newest-first.
	List(ctx context.Context, actorID string) ([]domain.Message, error)
	// Delete removes one message from the caller's inbox. A message id
	// that is already gone is a silent success.
	Delete(ctx context.Context, actorID, messageID string) error
	SetAccepting(ctx context.Context, actorID string, accepting bool) error
	Accepting(ctx context.Context, actorID string) (bool, error)
}
