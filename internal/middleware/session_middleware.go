package middleware

import (
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petshare-backend-go/internal/auth"
	"petshare-backend-go/internal/models"
)

// sessionContextKey is where the resolved session lives in the gin context.
const sessionContextKey = "session"

// SessionGuard is the route guard: it resolves the current session from the
// session cookie (signed token) or, failing that, a Firebase ID token in the
// Authorization header. Protected content renders only when a session
// exists; otherwise page requests are redirected to the sign-in entry point
// and API requests get 401.
type SessionGuard struct {
	tokens         *auth.TokenManager
	firebaseVerify *fbauth.Client // nil-able; bearer auth disabled when nil
	logger         *zap.Logger
}

// NewSessionGuard creates a SessionGuard. firebaseVerify may be nil (tests,
// cookie-only deployments); bearer-token verification is then skipped.
func NewSessionGuard(tokens *auth.TokenManager, firebaseVerify *fbauth.Client, logger *zap.Logger) *SessionGuard {
	if tokens == nil {
		panic("SessionGuard requires a non-nil TokenManager")
	}
	return &SessionGuard{tokens: tokens, firebaseVerify: firebaseVerify, logger: logger}
}

// RequirePage guards browser page routes: no session means a redirect to
// /signin rather than an error page.
func (g *SessionGuard) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := g.resolve(c)
		if !session.Authenticated() {
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RequireAPI guards JSON API routes with a 401 on missing/invalid sessions.
func (g *SessionGuard) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := g.resolve(c)
		if !session.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// Resolve attaches the session when one exists but never blocks the
// request. Used on the public entry pages so an already-signed-in visitor
// can be sent back to the feed.
func (g *SessionGuard) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := g.resolve(c); session.Authenticated() {
			c.Set(sessionContextKey, session)
		}
		c.Next()
	}
}

// resolve derives the current session from the request. Each request
// re-derives the session from scratch; there is no ambient session state.
func (g *SessionGuard) resolve(c *gin.Context) *models.Session {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie != "" {
		session, err := g.tokens.Verify(cookie)
		if err == nil {
			return session
		}
		g.logger.Debug("Rejected session cookie", zap.Error(err))
	}

	if g.firebaseVerify != nil {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token, err := g.firebaseVerify.VerifyIDToken(c.Request.Context(), parts[1])
			if err != nil {
				g.logger.Debug("Rejected Firebase ID token", zap.Error(err))
				return nil
			}
			session := &models.Session{UserID: token.UID}
			if email, ok := token.Claims["email"].(string); ok {
				session.Email = email
			}
			return session
		}
	}

	return nil
}

// SessionFromContext returns the session set by the guard, or nil when the
// request is unauthenticated.
func SessionFromContext(c *gin.Context) *models.Session {
	raw, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	session, ok := raw.(*models.Session)
	if !ok {
		return nil
	}
	return session
}
