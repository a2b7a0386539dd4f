package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petshare-backend-go/internal/auth"
	"petshare-backend-go/internal/middleware"
	"petshare-backend-go/internal/models"
)

// Generic per-form failure messages. The provider's specific rejection
// reason (unknown account, bad password, duplicate email) is deliberately
// not distinguished for the caller.
const (
	signUpFailedMessage  = "Unable to create account. Please check your details and try again."
	signInFailedMessage  = "Sign in failed. Please check your email and password."
	signOutFailedMessage = "Sign out failed. Please try again."
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	authService *auth.Service
	tokens      *auth.TokenManager
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, logger: logger}
}

// SignUp handles POST /api/v1/auth/signup: creates the account with the
// auth provider and establishes the session cookie.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: signUpFailedMessage})
		return
	}

	session, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrEmailTaken) && !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("Sign-up failed with provider error", zap.Error(err))
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: signUpFailedMessage})
		return
	}

	if err := h.setSessionCookie(c, session); err != nil {
		h.logger.Error("Failed to issue session token after sign-up", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: signUpFailedMessage})
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Session: session})
}

// SignIn handles POST /api/v1/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: signInFailedMessage})
		return
	}

	session, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) && !errors.Is(err, auth.ErrEmailTaken) {
			h.logger.Error("Sign-in failed with provider error", zap.Error(err))
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: signInFailedMessage})
		return
	}

	if err := h.setSessionCookie(c, session); err != nil {
		h.logger.Error("Failed to issue session token after sign-in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: signInFailedMessage})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: session})
}

// SignOut handles POST /api/v1/auth/signout: revokes refresh tokens (best
// effort) and clears the session cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session.Authenticated() {
		if err := h.authService.SignOut(c.Request.Context(), session.UserID); err != nil {
			h.logger.Error("Sign-out failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: signOutFailedMessage})
			return
		}
	}

	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}

// setSessionCookie issues a signed session token and attaches it as an
// HTTP-only cookie. The cookie is how the session is replayed on every
// subsequent request.
func (h *AuthHandler) setSessionCookie(c *gin.Context, session *models.Session) error {
	token, err := h.tokens.Issue(session)
	if err != nil {
		return err
	}
	maxAge := int(h.tokens.TTL() / time.Second)
	c.SetCookie(auth.SessionCookieName, token, maxAge, "/", "", false, true)
	return nil
}
