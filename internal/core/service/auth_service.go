package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

const verifyCodeTTL = time.Hour

// AuthService implements sign-up with email verification and login.
type AuthService struct {
	users     ports.UserRepository
	mailer    ports.EmailDispatcher
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, mailer ports.EmailDispatcher, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// SignUp registers a new account in the unverified state and queues the
// verification email. A verified username or email blocks the sign-up; an
// unverified account with the same email is overwritten with a fresh
// password hash and code, so an abandoned registration can be retried.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*ports.SignUpResult, error) {
	if _, err := s.users.FindVerifiedByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code := generateVerifyCode()
	expiry := time.Now().UTC().Add(verifyCodeTTL)

	existing, err := s.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, domain.ErrEmailTaken
	case err == nil:
		if err := s.users.UpdateCredentials(ctx, existing.ID.Hex(), string(hash), code, expiry); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrUserNotFound):
		user := &domain.User{
			Username:            input.Username,
			Email:               input.Email,
			PasswordHash:        string(hash),
			VerifyCode:          code,
			VerifyCodeExpiry:    expiry,
			IsVerified:          false,
			IsAcceptingMessages: true,
			Messages:            []domain.Message{},
			CreatedAt:           time.Now().UTC(),
		}
		existing, err = s.users.Create(ctx, user)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.mailer.Enqueue(ports.VerificationEmail{
		To:       input.Email,
		Username: input.Username,
		Code:     code,
	})

	s.logger.Info().Str("username", input.Username).Msg("user registered, verification pending")

	return &ports.SignUpResult{
		UserID:   existing.ID.Hex(),
		Username: input.Username,
	}, nil
}

// VerifyCode runs the verification state machine. Verified is terminal;
// expiry takes precedence over mismatch so a stale code always reports as
// expired.
func (s *AuthService) VerifyCode(ctx context.Context, username, code string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	if user.CodeExpired(time.Now().UTC()) {
		return domain.ErrCodeExpired
	}
	if user.VerifyCode != code {
		return domain.ErrCodeMismatch
	}

	if err := s.users.MarkVerified(ctx, user.ID.Hex()); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("account verified")
	return nil
}

// SignIn authenticates by username or email and returns a signed JWT.
// Only verified accounts may log in.
func (s *AuthService) SignIn(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	if identifier == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return "", nil, err
	}
	if !user.IsVerified {
		return "", nil, domain.ErrNotVerified
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CheckUsername reports whether username is unique among verified users.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindVerifiedByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.Hex(),
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateVerifyCode returns a 6-digit one-time code.
func generateVerifyCode() string {
	const digits = "0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// fallback: derive from the clock
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b)
}
