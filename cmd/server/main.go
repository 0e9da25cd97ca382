package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperflash/contact-api/internal/config"
	"github.com/hyperflash/contact-api/internal/handler"
	"github.com/hyperflash/contact-api/internal/logging"
	"github.com/hyperflash/contact-api/internal/mailer"
	"github.com/hyperflash/contact-api/internal/repository"
	"github.com/hyperflash/contact-api/internal/service"
	"github.com/hyperflash/contact-api/internal/storage"
	"github.com/hyperflash/contact-api/pkg/mail"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.KV, logger)
	if err != nil {
		logging.Fatal("failed to open store", "backend", cfg.KV.Backend, "error", err)
	}
	defer store.Close()

	// メール未設定でも受付は動く（emailSent=false になる）
	sender := mail.NewSender(mail.Config{
		Provider:        cfg.Email.Provider,
		ResendAPIKey:    cfg.Email.ResendAPIKey,
		ZeptoMailAPIKey: cfg.Email.ZeptoMailAPIKey,
		FromName:        cfg.Email.FromName,
		FromEmail:       cfg.Email.FromEmail,
		To:              cfg.Email.NotifyEmail,
	})
	dispatcher := mailer.NewDispatcher(sender, mailer.Branding{
		SiteName:      cfg.Email.SiteName,
		SiteHost:      cfg.Email.SiteHost,
		SubjectPrefix: cfg.Email.SubjectPrefix,
	}, logger)

	submissionRepo := repository.NewKVSubmissionRepository(store, logger)
	contactService := service.NewContactService(submissionRepo, dispatcher)

	h := handler.New(cfg.AllowedOrigins, logger)
	contactHandler := handler.NewContactHandler(contactService, cfg.SubmissionsKey, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(h, contactHandler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// email dispatch runs inside the request
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			slog.String("addr", server.Addr),
			slog.String("kv_backend", cfg.KV.Backend),
			slog.String("email_provider", sender.Name()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
}
