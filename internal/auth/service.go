// Package auth wraps the external auth provider: account creation and
// password sign-in go through the Identity Toolkit REST API (the Admin SDK
// cannot verify passwords), while sign-out revocation uses the Admin Auth
// client. Sessions carried between requests are signed tokens issued by
// TokenManager.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"petshare-backend-go/internal/models"
)

var (
	// ErrInvalidCredentials covers unknown account, bad password, and any
	// other sign-in rejection. The provider's specific reason is logged but
	// never surfaced: one generic message per form.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

const requestTimeout = 15 * time.Second

// Service performs sign-up, sign-in, and sign-out against the auth provider.
type Service struct {
	toolkitURL string
	apiKey     string
	http       *http.Client
	admin      *fbauth.Client // nil-able; revocation is best effort
	logger     *zap.Logger
}

// NewService creates an auth Service. admin may be nil (e.g. in tests);
// sign-out then only clears the session cookie.
func NewService(toolkitURL, apiKey string, admin *fbauth.Client, logger *zap.Logger) *Service {
	return &Service{
		toolkitURL: toolkitURL,
		apiKey:     apiKey,
		http:       &http.Client{Timeout: requestTimeout},
		admin:      admin,
		logger:     logger,
	}
}

type toolkitRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type toolkitResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp creates a new account and returns its session. A duplicate email
// yields ErrEmailTaken; everything else rejected by the provider collapses
// to ErrInvalidCredentials.
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	return s.call(ctx, "accounts:signUp", email, password)
}

// SignIn verifies the credentials and returns the account's session. The
// user identifier is stable: it equals the one produced at sign-up.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	return s.call(ctx, "accounts:signInWithPassword", email, password)
}

// SignOut revokes the user's refresh tokens. Revocation failure is logged
// but not surfaced: clearing the session cookie is what ends the session
// from this service's point of view.
func (s *Service) SignOut(ctx context.Context, userID string) error {
	if s.admin == nil || userID == "" {
		return nil
	}
	if err := s.admin.RevokeRefreshTokens(ctx, userID); err != nil {
		s.logger.Warn("Failed to revoke refresh tokens on sign-out",
			zap.String("userID", userID), zap.Error(err))
	}
	return nil
}

func (s *Service) call(ctx context.Context, endpoint, email, password string) (*models.Session, error) {
	body, err := json.Marshal(toolkitRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode auth request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", s.toolkitURL, endpoint, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read auth provider response: %w", err)
	}

	var decoded toolkitResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode auth provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		message := ""
		if decoded.Error != nil {
			message = decoded.Error.Message
		}
		s.logger.Info("Auth provider rejected request",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("reason", message),
		)
		if message == "EMAIL_EXISTS" {
			return nil, ErrEmailTaken
		}
		return nil, ErrInvalidCredentials
	}

	if decoded.LocalID == "" {
		return nil, fmt.Errorf("auth provider returned no user identifier")
	}

	return &models.Session{
		UserID: decoded.LocalID,
		Email:  decoded.Email,
	}, nil
}
