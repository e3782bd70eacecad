package handlers

import (
	"net/http"

	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/expenza/expense_flow_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "g_oauth_state"

// GoogleAuthHandler handles Google sign-in requests.
type GoogleAuthHandler struct {
	googleAuth portssvc.GoogleAuthSvcFacade
	auth       *AuthHandler
	cfg        *config.Config
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler.
func NewGoogleAuthHandler(ga portssvc.GoogleAuthSvcFacade, auth *AuthHandler, cfg *config.Config) *GoogleAuthHandler {
	return &GoogleAuthHandler{googleAuth: ga, auth: auth, cfg: cfg}
}

// registerGoogleAuthRoutes sets up the Google sign-in routes.
func registerGoogleAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	auth := NewAuthHandler(services.User, services.Token, cfg)
	h := NewGoogleAuthHandler(services.GoogleAuth, auth, cfg)

	google := rg.Group("/api/v1/auth/google")
	{
		google.GET("/login", h.BeginLogin)
		google.GET("/callback", h.Callback)
		google.POST("/token", h.SignInWithIDToken)
	}
}

// BeginLogin godoc
// @Summary Begin Google OAuth login
// @Description Redirects to the Google consent page.
// @Tags auth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleAuthHandler) BeginLogin(c *gin.Context) {
	state, err := h.googleAuth.GenerateStateString(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(oauthStateCookie, state, 600, "/api/v1/auth/google", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleAuth.GetGoogleLoginURL(c.Request.Context(), state))
}

// Callback godoc
// @Summary Google OAuth callback
// @Description Completes the OAuth flow and returns a token pair.
// @Tags auth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *GoogleAuthHandler) Callback(c *gin.Context) {
	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/api/v1/auth/google", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing authorization code"})
		return
	}

	user, err := h.googleAuth.SignInWithAuthCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.auth.issueTokens(c, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignInWithIDToken godoc
// @Summary Sign in with a Google ID token
// @Description Verifies an ID token obtained by the frontend and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleSignInRequest true "Google ID Token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/token [post]
func (h *GoogleAuthHandler) SignInWithIDToken(c *gin.Context) {
	var req dto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.googleAuth.SignInWithIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.auth.issueTokens(c, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
