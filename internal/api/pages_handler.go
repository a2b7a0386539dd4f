package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petshare-backend-go/internal/middleware"
)

// PagesHandler renders the three server-side pages. The pages are thin
// shells over the JSON API and the feed WebSocket; all state lives in the
// services behind them.
type PagesHandler struct{}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// SignIn handles GET /signin. Already-authenticated visitors go to the feed.
func (h *PagesHandler) SignIn(c *gin.Context) {
	if middleware.SessionFromContext(c).Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "signin.tmpl", gin.H{"Title": "Sign In"})
}

// SignUp handles GET /signup.
func (h *PagesHandler) SignUp(c *gin.Context) {
	if middleware.SessionFromContext(c).Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{"Title": "Sign Up"})
}

// Home handles GET / (guarded): the composed view of the post submission
// form and the live feed.
func (h *PagesHandler) Home(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	c.HTML(http.StatusOK, "feed.tmpl", gin.H{
		"Title": "PetShare",
		"Email": session.Email,
	})
}
