package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrCodeMismatch       = errors.New("verification code is incorrect")
	ErrCodeExpired        = errors.New("verification code has expired")

	ErrNotAcceptingMessages = errors.New("user is not accepting messages")
	ErrNotAcceptingReviews  = errors.New("product is not accepting reviews")

	ErrInvalidRating   = errors.New("invalid rating, allowed values are 1-5")
	ErrInvalidImageURL = errors.New("invalid image URL")

	ErrSuggestionsThrottled = errors.New("suggestion limit reached, try again later")
)

// Authorize is the single ownership gate applied to every owner-only
// operation. No actor means no session; a mismatch means the caller is
// authenticated but does not own the resource.
func Authorize(actorID, ownerID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
