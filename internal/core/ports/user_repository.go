package ports

import (
	"context"
	"time"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

// UserRepository defines persistence operations on the users collection.
// Message appends use the store's atomic array push; the acceptance toggle
// is a single conditional update, never a load-mutate-save.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentifier resolves a login identifier that may be either a
	// username or an email address.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// FindVerifiedByUsername only matches users with is_verified=true;
	// it backs the public uniqueness check.
	FindVerifiedByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateCredentials replaces the password hash and verification code of
	// an existing (unverified) account during a repeated sign-up.
	UpdateCredentials(ctx context.Context, id string, passwordHash, verifyCode string, codeExpiry time.Time) error
	MarkVerified(ctx context.Context, id string) error
	SetAcceptingMessages(ctx context.Context, id string, accepting bool) error

	PushMessage(ctx context.Context, id string, msg domain.Message) error
	// ListMessages returns the embedded messages newest-first. A user with
	// no messages yields an empty slice, never nil-for-absent.
	ListMessages(ctx context.Context, id string) ([]domain.Message, error)
	// PullMessage removes one embedded message by id. Removing an id that
	// is not present is a no-op, not an error.
	PullMessage(ctx context.Context, id, messageID string) error

	PushProductRef(ctx context.Context, id, productID string) error
}
