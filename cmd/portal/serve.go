package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frontiertower/portal-backend/internal/api"
	"github.com/frontiertower/portal-backend/internal/auth"
	"github.com/frontiertower/portal-backend/internal/config"
	"github.com/frontiertower/portal-backend/internal/notify"
	"github.com/frontiertower/portal-backend/internal/portal"
	"github.com/frontiertower/portal-backend/internal/store"
	"github.com/frontiertower/portal-backend/internal/unifi"

	"github.com/gin-gonic/gin"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database ready", zap.String("path", cfg.DB.Path))

	var controller unifi.Controller
	if cfg.UniFi.Host != "" {
		client, err := unifi.NewClient(unifi.Config{
			BaseURL:            cfg.UniFi.Host,
			Username:           cfg.UniFi.Username,
			Password:           cfg.UniFi.Password,
			Site:               cfg.UniFi.Site,
			Style:              unifi.Style(cfg.UniFi.Style),
			Timeout:            cfg.UniFi.Timeout(),
			InsecureSkipVerify: cfg.UniFi.InsecureSkipVerify,
			UpKbps:             cfg.UniFi.UpKbps,
			DownKbps:           cfg.UniFi.DownKbps,
			QuotaMB:            cfg.UniFi.QuotaMB,
		}, logger.Named("unifi"))
		if err != nil {
			return fmt.Errorf("failed to create controller client: %w", err)
		}
		controller = client
		logger.Info("controller configured",
			zap.String("host", cfg.UniFi.Host),
			zap.String("site", cfg.UniFi.Site),
			zap.String("style", cfg.UniFi.Style),
		)
	} else {
		controller = unifi.NoopController{}
		logger.Warn("no controller configured, devices will not be authorized")
	}

	notifier := notify.New(cfg.Webhook.URL, cfg.Webhook.Timeout(), logger.Named("notify"))

	service := portal.NewService(portal.Config{
		DefaultRedirectURL: cfg.Portal.DefaultRedirect,
		SessionMinutes:     cfg.Portal.SessionMinutes,
	}, db, controller, notifier, logger.Named("portal"))

	var tokens *auth.TokenService
	if cfg.Admin.PasswordHash != "" {
		key, err := auth.LoadOrGenerateKey(cfg.Admin.KeysDir)
		if err != nil {
			return fmt.Errorf("failed to initialize admin signing key: %w", err)
		}
		tokens = auth.NewTokenService(key, cfg.Admin.TokenIssuer, cfg.Admin.TokenTTL())
		logger.Info("admin API enabled")
	} else {
		logger.Info("admin API disabled (no password hash configured)")
	}

	handler := api.NewHandler(service, db, controller, tokens, cfg.Admin.PasswordHash, logger.Named("api"))

	if !debugLog {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func newLogger() (*zap.Logger, error) {
	if debugLog {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
