package ports

import (
	"context"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

// SignUpInput carries the fields submitted at registration.
type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// SignUpResult is returned after a successful sign-up. The account starts
// unverified; the verification code travels by email, never in the response.
type SignUpResult struct {
	UserID   string
	Username string
}

// AuthService implements sign-up, email verification, and login.
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error)
	// VerifyCode flips the account to verified when code matches and has
	// not expired. Expiry and mismatch fail with distinct errors.
	VerifyCode(ctx context.Context, username, code string) error
	// SignIn accepts a username or email as identifier and returns a
	// signed session token for verified accounts.
	SignIn(ctx context.Context, identifier, password string) (string, *domain.User, error)
	// CheckUsername reports whether username is free among verified users.
	CheckUsername(ctx context.Context, username string) (bool, error)
}

// VerificationEmail is the outbound email job handed to the dispatcher.
type VerificationEmail struct {
	To       string
	Username string
	Code     string
}

// EmailDispatcher enqueues verification emails for asynchronous delivery.
type EmailDispatcher interface {
	Enqueue(job VerificationEmail)
}
