package services

import (
	"context"
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
)

// TokenSvcFacade issues and validates the application's tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a JWT access token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a raw refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a refresh token for the user
	// and returns the user when it matches the stored hash.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
}

// GoogleAuthSvcFacade handles Google sign-in, both the server-side OAuth
// redirect flow and direct ID token verification.
type GoogleAuthSvcFacade interface {
	// GenerateStateString creates a CSRF state token for the OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the Google consent page URL for the state.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// SignInWithAuthCode exchanges the OAuth authorization code and resolves
	// the signed-in user.
	SignInWithAuthCode(ctx context.Context, code string) (*domain.User, error)

	// SignInWithIDToken verifies the Google ID token and returns the
	// matching user.
	SignInWithIDToken(ctx context.Context, idToken string) (*domain.User, error)
}
