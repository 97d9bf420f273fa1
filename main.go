package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/assistant"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/mailer"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/portal"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/config"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/contextchannel"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/service"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/store"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/tools"
	handler "github.com/abhirupbanerjee/gea-ai-assistant/internal/transport/http"
	"github.com/abhirupbanerjee/gea-ai-assistant/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting assistant gateway...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Portal URL: %s", cfg.PortalURL)
	log.Printf("Configured: assistant=%v apiKey=%v organization=%v",
		cfg.AssistantID != "", cfg.APIKey != "", cfg.Organization != "")

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	assistantClient := assistant.NewClient(cfg.AssistantURL, cfg.APIKey, cfg.Organization, 30*time.Second)
	portalClient := portal.NewClient(cfg.PortalURL, cfg.ToolTimeout)
	mailClient := mailer.NewClient(cfg.SendGridAPIKey, cfg.SendGridSender, cfg.ToolTimeout)

	registry := tools.Builtin(portalClient, mailClient)
	channel := contextchannel.NewChannel(cfg.AllowedOrigins)

	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	svc := service.New(db, assistantClient, registry, channel, policyEngine, cfg)
	h := handler.NewHandler(svc, channel, cfg)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Assistant gateway started on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down assistant gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Assistant gateway stopped")
}
