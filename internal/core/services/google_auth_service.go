package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/platform/config"
	"github.com/expenza/expense_flow_app/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// googleAuthService implements GoogleAuthSvcFacade.
type googleAuthService struct {
	BaseService
	cfg          *config.Config
	userService  portssvc.UserSvcFacade
	oauth2Config *oauth2.Config
}

// NewGoogleAuthService creates a new instance of googleAuthService.
func NewGoogleAuthService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.GoogleAuthSvcFacade {
	return &googleAuthService{
		cfg:         cfg,
		userService: userService,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.GoogleAuthSvcFacade = (*googleAuthService)(nil)

// GenerateStateString creates a CSRF token for the OAuth redirect flow.
func (s *googleAuthService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate OAuth state string: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the Google consent page URL for the state.
func (s *googleAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// SignInWithAuthCode exchanges an authorization code for tokens and resolves
// the signed-in user from the ID token Google returns alongside them.
func (s *googleAuthService) SignInWithAuthCode(ctx context.Context, code string) (*domain.User, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google token response did not include an id_token")
	}
	return s.SignInWithIDToken(ctx, rawIDToken)
}

// SignInWithIDToken verifies a Google ID token and resolves the user.
func (s *googleAuthService) SignInWithIDToken(ctx context.Context, idToken string) (*domain.User, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured")
	}

	payload, err := idtoken.Validate(ctx, idToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google ID token payload has no email claim")
	}
	name, _ := payload.Claims["name"].(string)

	user, err := s.userService.FindOrCreateByGoogleIdentity(ctx, email, name)
	if err != nil {
		return nil, err
	}
	return user, nil
}
