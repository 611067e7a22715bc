package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"takasa/internal/adapter/api"
	"takasa/internal/adapter/api/handler"
	apimiddleware "takasa/internal/adapter/api/middleware"
	"takasa/internal/adapter/api/router"
	"takasa/internal/adapter/repository"
	"takasa/internal/infrastructure/walrus"
	"takasa/internal/usecase"
	"takasa/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	requestRepo := repository.NewFirestoreRequestRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	var blobStore usecase.MessageBlobStore
	if cfg.HybridStorageEnabled {
		blobStore = walrus.NewClient(cfg.WalrusPublisherURL, cfg.WalrusAggregatorURL, cfg.WalrusEpochs, cfg.WalrusTimeout)
		log.Printf("Hybrid message storage enabled: publisher=%s aggregator=%s", cfg.WalrusPublisherURL, cfg.WalrusAggregatorURL)
	}

	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo, blobStore, cfg.HybridStorageEnabled)
	requestUseCase := usecase.NewRequestUseCase(requestRepo, listingRepo, userRepo, chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	requestHandler := handler.NewRequestHandler(requestUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase)
	healthHandler := handler.NewHealthHandler()

	router.SetupRequestRouter(e, requestHandler, authMiddleware)
	router.SetupChatRouter(e, chatHandler, authMiddleware)
	router.SetupHealthRouter(e, healthHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
