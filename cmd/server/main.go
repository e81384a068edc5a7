package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"matchmaking/crypto"
	"matchmaking/dispatch"
	"matchmaking/handlers"
	"matchmaking/identity"
	"matchmaking/migrations"
	"matchmaking/room"
	"matchmaking/storage"
	"matchmaking/transport"
)

func main() {

	// logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// ENVs
	listenAddr, exists := os.LookupEnv("LISTEN_ADDR")
	if !exists {
		listenAddr = ":8080"
	}

	var allowedOrigins []string
	if origins, exists := os.LookupEnv("ALLOWED_ORIGINS"); exists {
		allowedOrigins = strings.Split(origins, ",")
	}

	backend, exists := os.LookupEnv("IDENTITY_BACKEND")
	if !exists {
		backend = "memory"
	}

	// credential repo
	var repo identity.CredentialRepo
	switch backend {
	case "memory":
		repo = identity.NewMemoryRepo()
	case "postgres":
		postgresURL, exists := os.LookupEnv("POSTGRES_URL")
		if !exists {
			log.Fatal("Missing postgres url")
		}
		if err := migrations.Migrate(postgresURL); err != nil {
			log.Fatal("Failed to run migrations: ", err)
		}
		pgRepo, err := storage.NewPostgresRepo(context.Background(), postgresURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pgRepo.Close()
		repo = pgRepo
	case "redis":
		redisAddr, exists := os.LookupEnv("REDIS_ADDR")
		if !exists {
			log.Fatal("Missing redis address")
		}
		credentialTTL := 24 * time.Hour
		if ttl, exists := os.LookupEnv("CREDENTIAL_TTL"); exists {
			parsed, err := time.ParseDuration(ttl)
			if err != nil {
				log.Fatal("Invalid credential ttl: ", err)
			}
			credentialTTL = parsed
		}
		redisRepo := storage.NewRedisRepo(redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}), credentialTTL)
		defer redisRepo.Close()
		repo = redisRepo
	default:
		log.Fatal("Unknown identity backend: ", backend)
	}

	// Dependencies
	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	identityService := identity.NewService(repo, passwordHasher, logger)
	provider := room.NewProvider(logger)
	dispatcher := dispatch.NewDispatcher(identityService, logger)

	dispatcher.RegisterHandler(handlers.NewGetConnectionIdHandler(identityService))
	dispatcher.RegisterHandler(handlers.NewJoinOrCreateRoomHandler(provider, logger))
	dispatcher.RegisterHandler(handlers.NewGetRoomDataHandler(provider))
	dispatcher.RegisterHandler(handlers.NewDestroyRoomHandler(provider, logger))
	dispatcher.RegisterHandler(handlers.NewDisconnectHandler(provider, logger))
	dispatcher.RegisterHandler(handlers.NewSendDataToHostHandler(provider, logger))
	dispatcher.RegisterHandler(handlers.NewStartGameHandler(provider, logger))
	dispatcher.RegisterHandler(handlers.NewSubscribeToRoomHandler(provider, logger))
	dispatcher.RegisterHandler(handlers.NewUpdateGameStateHandler(provider, logger))

	server := transport.NewServer(dispatcher, allowedOrigins)
	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: server.Engine(),
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Couldn't start server: ", err)
		}
	}()
	logger.Info("server started", "addr", listenAddr, "identity_backend", backend)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
