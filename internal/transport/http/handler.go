// Package handler provides the HTTP surface of the assistant gateway.
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/config"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/contextchannel"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	channel  *contextchannel.Channel
	cfg      *config.Config
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, channel *contextchannel.Channel, cfg *config.Config) *Handler {
	return &Handler{
		service: svc,
		channel: channel,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The channel validates per message so that disallowed origins
			// are recorded instead of silently refused at upgrade time.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
	e.POST("/api/assistant/tool-handler", h.ToolHandler)
	e.POST("/api/login", h.Login)

	e.GET("/api/context", h.GetContext)
	e.GET("/api/context/ws", h.ContextWebSocket)

	e.GET("/api/conversation", h.GetConversation)
	e.DELETE("/api/conversation", h.ClearConversation)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}
