package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"voice-relay/internal/config"
	"voice-relay/internal/domain/entities"
	repoconstants "voice-relay/internal/domain/interfaces/repository/constants"
	Iservices "voice-relay/internal/domain/interfaces/services"
	"voice-relay/internal/domain/ncco"
	"voice-relay/internal/infra/handlers"
	"voice-relay/internal/infra/logger"
	"voice-relay/internal/infra/provider"
	"voice-relay/internal/infra/repository"
	"voice-relay/internal/infra/routes"
	"voice-relay/internal/infra/services"
	"voice-relay/internal/infra/storage"
	"voice-relay/internal/infra/transcriber"
	"voice-relay/internal/middleware"
	client "voice-relay/internal/pkg"
)

func main() {
	ctx := context.Background()

	if err := config.LoadEnv(); err != nil {
		logger.NewLogger(ctx, config.DefaultLogLevel, true).Fatal("Failed to load .env", logrus.Fields{"error": err.Error()})
	}

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(ctx, config.DefaultLogLevel, true).Fatal("Invalid configuration", logrus.Fields{"error": err.Error()})
	}

	log := logger.NewLogger(ctx, cfg.LogLevel, cfg.LogFormat == "json")

	awsCfg, err := client.AWSConfig(cfg.AWS)
	if err != nil {
		log.Fatal("Failed to configure AWS", logrus.Fields{"error": err.Error()})
	}

	httpClient := &http.Client{Timeout: cfg.OutboundTimeout}
	location := entities.NewRecordingLocation(cfg.AWS.Bucket, cfg.AWS.RecordingFolder)

	voiceProvider := provider.NewVonageVoiceProvider(log, httpClient, cfg.Nexmo.ApplicationID, cfg.Nexmo.PrivateKey)
	objectStorage := storage.NewS3Storage(log, s3.NewFromConfig(awsCfg), cfg.AWS.Bucket)
	awsTranscriber := transcriber.NewAWSTranscriber(log, transcribe.NewFromConfig(awsCfg))

	var recordingSvc Iservices.IRecordingService = services.NewRecordingService(log, voiceProvider, objectStorage, location, cfg.OutboundTimeout)
	var transcriptionSvc Iservices.ITranscriptionService = services.NewTranscriptionService(log, awsTranscriber, location, cfg.OutboundTimeout)

	callSessionSvc, mongoClient := callSessionJournal(cfg, log)

	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))

	voiceHandlers := handlers.NewVoiceHandlers(
		log,
		cfg.PublicBaseURL,
		ncco.Prompts{Greeting: cfg.NCCO.GreetingText, Goodbye: cfg.NCCO.GoodbyeText},
		recordingSvc,
		transcriptionSvc,
		callSessionSvc,
	)

	routes := routes.NewRoutes(router, voiceHandlers)
	routes.Init()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.OutboundTimeout + 10*time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port), logrus.Fields{
			"public_base_url": cfg.PublicBaseURL,
			"bucket":          cfg.AWS.Bucket,
			"journal":         cfg.Mongo.Enabled(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(fmt.Sprintf("Error running HTTP server: %s", err))
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Warn("Failed to disconnect from MongoDB", logrus.Fields{"error": err.Error()})
		}
	}
}

// callSessionJournal connects the Mongo backed journal when MONGODB_URI is set
// and falls back to a no-op journal otherwise.
func callSessionJournal(cfg *config.Config, log *logger.Logger) (Iservices.ICallSessionService, *mongo.Client) {
	if !cfg.Mongo.Enabled() {
		log.Info("MONGODB_URI not set, call session journal disabled")
		return services.NopCallSessionService{}, nil
	}

	mongoClient, err := client.MongoClient(cfg.Mongo.URI)
	if err != nil {
		log.Fatal("Failed to connect call session journal", logrus.Fields{"error": err.Error()})
	}

	callSessionRepo := repository.NewMongoCallSessionRepository(mongoClient.Database(cfg.Mongo.Database))

	indexCtx, cancel := context.WithTimeout(context.Background(), cfg.OutboundTimeout)
	defer cancel()
	if err := callSessionRepo.EnsureConversationIndex(indexCtx, repoconstants.CALL_SESSION_COLLECTION); err != nil {
		log.Warn("Failed to ensure call session index", logrus.Fields{"error": err.Error()})
	}

	return services.NewCallSessionService(callSessionRepo, log, cfg.Mongo.Timeout), mongoClient
}
