package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"petshare-backend-go/internal/api"
	"petshare-backend-go/internal/auth"
	"petshare-backend-go/internal/config"
	"petshare-backend-go/internal/core"
	"petshare-backend-go/internal/db"
	"petshare-backend-go/internal/middleware"
	"petshare-backend-go/internal/upload"
)

func main() {
	// Load .env file. In production, environment variables should be set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	// --- Logger (Zap) ---
	var zapLogger *zap.Logger
	var err error
	if os.Getenv("GIN_MODE") == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded")

	// --- Firebase Admin SDK (Firestore + Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil || firebaseAuthClient == nil {
		zapLogger.Fatal("Firebase clients are nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firebase Admin SDK initialized")

	// --- Repository and services ---
	postRepo := db.NewFirestorePostRepository(firestoreClient)

	authService := auth.NewService(
		appConfig.IdentityToolkitURL,
		appConfig.FirebaseWebAPIKey,
		firebaseAuthClient,
		zapLogger,
	)
	tokens := auth.NewTokenManager(
		appConfig.SessionSecret,
		time.Duration(appConfig.SessionTTLHours)*time.Hour,
	)
	uploader := upload.NewImgBBClient(appConfig.ImgBBUploadURL, appConfig.ImgBBAPIKey, zapLogger)
	postService := core.NewPostService(postRepo, uploader, zapLogger)
	feedService := core.NewFeedService(postRepo, zapLogger)

	// The feed subscription lives for the whole server lifetime: exactly one
	// subscription, torn down on shutdown.
	feedCtx, cancelFeed := context.WithCancel(context.Background())
	defer cancelFeed()
	if err := feedService.Start(feedCtx); err != nil {
		zapLogger.Fatal("Failed to start feed subscription", zap.Error(err))
	}
	zapLogger.Info("Core services initialized")

	// --- Gin engine and middleware ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	}

	router.LoadHTMLGlob("web/templates/*.tmpl")

	guard := middleware.NewSessionGuard(tokens, firebaseAuthClient, zapLogger)
	api.SetupRoutes(router, zapLogger, guard, authService, tokens, postService, feedService)

	// --- HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	cancelFeed()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := firestoreClient.Close(); err != nil {
		zapLogger.Warn("Error closing Firestore client", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
