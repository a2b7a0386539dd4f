package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petshare-backend-go/internal/auth"
	"petshare-backend-go/internal/core"
	"petshare-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) are applied to the
// router before this function is called, in main.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	guard *middleware.SessionGuard,
	authService *auth.Service,
	tokens *auth.TokenManager,
	postService core.PostService,
	feedService core.FeedService,
) {
	authHandler := NewAuthHandler(authService, tokens, logger)
	postHandler := NewPostHandler(postService, logger)
	feedHandler := NewFeedHandler(feedService, logger)
	pagesHandler := NewPagesHandler()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Pages. /signin and /signup are the public entry points; / is gated
	// behind "a session exists". Everything unmatched collapses to /.
	router.GET("/signin", guard.Resolve(), pagesHandler.SignIn)
	router.GET("/signup", guard.Resolve(), pagesHandler.SignUp)
	router.GET("/", guard.RequirePage(), pagesHandler.Home)
	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.POST("/signout", guard.RequireAPI(), authHandler.SignOut)
		}

		apiV1.POST("/posts", guard.RequireAPI(), postHandler.Create)

		feedGroup := apiV1.Group("/feed", guard.RequireAPI())
		{
			feedGroup.GET("", feedHandler.Snapshot)
			feedGroup.GET("/ws", feedHandler.Stream)
		}
	}

	logger.Info("Routes configured")
}
