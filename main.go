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

	"video-bot/infrastructure/cache"
	hubclient "video-bot/infrastructure/clients/hub"
	redditclient "video-bot/infrastructure/clients/reddit"
	"video-bot/infrastructure/configuration"
	"video-bot/infrastructure/logger"
	"video-bot/infrastructure/persistence"
	httpHandler "video-bot/interfaces/http"
	"video-bot/server"
	"video-bot/usecase"

	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()

	cfg := configuration.C

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring database schema")
		os.Exit(1)
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
		cfg.RedisClient.Username,
		cfg.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to redis")
		os.Exit(1)
	}
	logger.GetLogger().Info("Redis client initialized successfully.")

	tokenRepository := persistence.NewOAuthTokenRepository(psqlDb)
	submissionRepository := persistence.NewSubmissionRepository(psqlDb)
	authStateCache := cache.NewAuthStateCache(redisClient)

	redditClient := redditclient.NewRedditClient(redditclient.Config{
		AccessTokenURL:     cfg.Reddit.AccessTokenURL,
		SubmitURL:          cfg.Reddit.SubmitURL,
		StickyURL:          cfg.Reddit.StickyURL,
		UserSubmissionsURL: cfg.Reddit.UserSubmissionsURL,
		ClientID:           cfg.Reddit.ClientID,
		ClientSecret:       cfg.Reddit.ClientSecret,
		RedirectURL:        cfg.Reddit.RedirectURL,
		UserAgent:          cfg.Reddit.UserAgent,
		Subreddit:          cfg.Reddit.Subreddit,
		FlairID:            cfg.Reddit.FlairID,
	}, nil)
	hubClient := hubclient.NewHubClient(hubclient.Config{
		URL:         cfg.Hub.URL,
		Topic:       cfg.Hub.Topic,
		CallbackURL: cfg.Hub.CallbackURL,
		Secret:      cfg.Hub.Secret,
	}, nil)

	credentialUsecase := usecase.NewCredentialUsecase(tokenRepository, redditClient)
	submissionUsecase := usecase.NewSubmissionUsecase(submissionRepository, redditClient, credentialUsecase)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(hubClient, cfg.Hub.Topic)

	// One-time reconciliation: an empty ledger is seeded from the account's
	// existing Reddit submissions so rotation has a sticky post to start from.
	if err := submissionUsecase.SeedFromReddit(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to import existing Reddit submissions")
	}

	webhookHandler := httpHandler.NewWebhookHandler(ctx, subscriptionUsecase, submissionUsecase, cfg.Hub.Secret)
	redditAuthHandler := httpHandler.NewRedditAuthHandler(httpHandler.RedditAuthConfig{
		AuthorizeURL: cfg.Reddit.AuthorizeURL,
		RedirectURL:  cfg.Reddit.RedirectURL,
		ClientID:     cfg.Reddit.ClientID,
		SecretKey:    cfg.App.SecretKey,
		FormPassword: cfg.App.FormPassword,
	}, authStateCache, credentialUsecase)

	router := server.InitiateRouter(webhookHandler, redditAuthHandler, cfg.App.SecretKey)

	g.Go(func() error {
		if err := subscriptionUsecase.Subscribe(ctx); err != nil {
			// The hub will not push anything until a subscribe succeeds; keep
			// the process up so the operator can inspect and retry.
			logger.GetLogger().WithField("error", err).Error("Initial hub subscription failed")
		}
		return nil
	})

	port := cfg.App.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
