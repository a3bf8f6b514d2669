package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// MessageService implements the anonymous inbox operations.
type MessageService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewMessageService(users ports.UserRepository, logger zerolog.Logger) *MessageService {
	return &MessageService{users: users, logger: logger}
}

// Send appends an anonymous message to the target user's inbox. The sender
// carries no identity; only the recipient's acceptance flag gates the write.
func (s *MessageService) Send(ctx context.Context, username, content string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !user.IsAcceptingMessages {
		return domain.ErrNotAcceptingMessages
	}

	msg := domain.Message{
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.PushMessage(ctx, user.ID.Hex(), msg); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to append message")
		return err
	}

	s.logger.Info().Str("username", username).Msg("anonymous message delivered")
	return nil
}

// List returns the caller's messages newest-first.
func (s *MessageService) List(ctx context.Context, actorID string) ([]domain.Message, error) {
	if err := domain.Authorize(actorID, actorID); err != nil {
		return nil, err
	}
	return s.users.ListMessages(ctx, actorID)
}

// Delete removes one message from the caller's inbox. An id that matches
// nothing is a silent success; only an unknown user is an error.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID string) error {
	if err := domain.Authorize(actorID, actorID); err != nil {
		return err
	}
	return s.users.PullMessage(ctx, actorID, messageID)
}

// SetAccepting toggles the caller's message-acceptance flag. Idempotent.
func (s *MessageService) SetAccepting(ctx context.Context, actorID string, accepting bool) error {
	if err := domain.Authorize(actorID, actorID); err != nil {
		return err
	}
	if err := s.users.SetAcceptingMessages(ctx, actorID, accepting); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", actorID).Bool("accepting", accepting).Msg("message acceptance updated")
	return nil
}

// Accepting returns the caller's current message-acceptance flag.
func (s *MessageService) Accepting(ctx context.Context, actorID string) (bool, error) {
	if err := domain.Authorize(actorID, actorID); err != nil {
		return false, err
	}
	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	return user.IsAcceptingMessages, nil
}
