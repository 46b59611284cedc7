package main

import (
	"RegistrationBot/config"
	"RegistrationBot/handler"
	"RegistrationBot/logging"
	"RegistrationBot/repo"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Init("regbot", os.Stderr)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := InitializeStore(ctx, cfg.Store)
	if err != nil {
		return err
	}

	mailer, err := repo.NewMailer(repo.MailConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		FromName: cfg.Mail.FromName,
	})
	if err != nil {
		return err
	}
	if cfg.Mail.Username == "" || cfg.Mail.Password == "" {
		log.Warn().Msg("GOOGLE_EMAIL or GOOGLE_PASSWORD missing, confirmation emails will fail")
	}

	gemini, err := repo.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	log.Info().Bool("gemini_key_set", gemini.Configured()).Str("model", cfg.Gemini.Model).Msg("Fallback model configured")

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("error loading timezone: %w", err)
	}

	registration := &handler.RegistrationHandler{
		Store:         store,
		Mailer:        mailer,
		Clock:         func() time.Time { return time.Now().In(loc) },
		StoreTimeout:  cfg.Store.Timeout,
		MailTimeout:   cfg.Mail.Timeout,
		NotifyTimeout: cfg.Telegram.Timeout,
	}
	fallback := &handler.FallbackHandler{
		Answerer: gemini,
		Timeout:  cfg.Gemini.Timeout,
	}

	if cfg.TelegramEnabled() {
		organiser := handler.NewOrganiserBotHandler(store, cfg.Telegram.OrganiserChatID, cfg.Store.Timeout)
		b, err := bot.New(cfg.Telegram.BotToken, bot.WithDefaultHandler(organiser.Handler))
		if err != nil {
			return fmt.Errorf("error creating bot: %w", err)
		}
		registration.Notifier = repo.NewTelegramNotifier(b, cfg.Telegram.OrganiserChatID)
		go b.Start(ctx)
		log.Info().Int64("chat", cfg.Telegram.OrganiserChatID).Msg("Organiser bot started")
	}

	dispatcher, err := handler.NewDispatcher(map[string]handler.IntentHandler{
		handler.IntentGreeting:     handler.Greet,
		handler.IntentRegistration: registration.Handle,
		handler.IntentFallback:     fallback.Handle,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.NewRouter(&handler.Webhook{Dispatcher: dispatcher}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Strs("intents", dispatcher.Intents()).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// InitializeStore opens the configured registration store
func InitializeStore(ctx context.Context, cfg config.StoreConfig) (repo.Store, error) {
	switch cfg.Backend {
	case config.StoreFirebase:
		store, err := repo.NewFirebaseStore(ctx, cfg.FirebaseServiceAccountPath, cfg.FirebaseDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("error creating Firebase store: %v", err)
		}
		return store, nil
	default:
		log.Info().Str("file", cfg.File).Msg("Using spreadsheet registration store")
		return repo.NewXLSXStore(cfg.File), nil
	}
}
