package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"project_ria/internal/config"
	"project_ria/internal/infrastructure"
	"project_ria/internal/interfaces"
	httpiface "project_ria/internal/interfaces/http"
	"project_ria/internal/logger"
	"project_ria/internal/repository"
	"project_ria/internal/usecases"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	log := logger.New(cfg.Env)

	// Connect to PostgreSQL
	pgClient, err := infrastructure.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer pgClient.Close()

	// Initialize Repositories
	tenantRepo := repository.NewTenantRepository(pgClient.Pool)
	conversationRepo := repository.NewConversationRepository(pgClient.Pool)
	usageRepo := repository.NewUsageRepository(pgClient.Pool)
	leadRepo := repository.NewLeadRepository(pgClient.Pool)
	adminRepo := repository.NewAdminRepository(pgClient.Pool)

	// Completion providers, strict failover order: Groq first, Gemini second.
	providers := []interfaces.CompletionProvider{
		infrastructure.NewOpenAIProvider(infrastructure.ProviderConfig{
			Name:     "groq",
			BaseURL:  "https://api.groq.com/openai/v1",
			Model:    "llama-3.1-8b-instant",
			ProModel: "llama-3.3-70b-versatile",
			Keys:     cfg.GroqKeys,
			Timeout:  cfg.ProviderTimeout,
		}),
		infrastructure.NewOpenAIProvider(infrastructure.ProviderConfig{
			Name:    "gemini",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:   "gemini-1.5-pro",
			Keys:    keyList(cfg.GeminiAPIKey),
			Timeout: cfg.ProviderTimeout,
		}),
	}
	dispatcher := usecases.NewDispatcher(providers, log)

	// Outbound alert channels
	telegram := infrastructure.NewTelegramNotifier(cfg.TelegramBotToken)
	waManager := infrastructure.NewWhatsAppManager(cfg.WhatsAppDataDir)
	defer waManager.DisconnectAll()

	alerts := []interfaces.AlertSink{}
	if telegram.Bot != nil {
		alerts = append(alerts, telegram)
	}
	alerts = append(alerts, waManager)

	pipeline := &usecases.Pipeline{
		Tenants:       tenantRepo,
		Conversations: conversationRepo,
		Usage:         usageRepo,
		Leads:         leadRepo,
		Dispatcher:    dispatcher,
		Alerts:        alerts,
		Log:           log,
	}

	authUsecase := usecases.NewAuthUsecase(adminRepo, cfg.JWTSecret)
	if err := authUsecase.EnsureAdmin(context.Background(), "root", "root"); err != nil {
		log.Warn("ensure_admin_failed", "error", err.Error())
	}

	// Setup HTTP server
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	widgetHandler := httpiface.NewWidgetHandler(pipeline, tenantRepo, log)
	adminHandler := httpiface.NewAdminHandler(tenantRepo, usageRepo, leadRepo, waManager, log)
	authHandler := httpiface.NewAuthHandler(authUsecase)
	middleware := httpiface.NewMiddleware(cfg.JWTSecret)

	httpiface.SetupRoutes(r, widgetHandler, adminHandler, authHandler, middleware)

	log.Info("server_starting", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func keyList(keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
