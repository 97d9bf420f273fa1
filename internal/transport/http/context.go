package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// GetContext returns the channel's current view for UI display.
// GET /api/context
func (h *Handler) GetContext(c echo.Context) error {
	resp := map[string]interface{}{
		"hasContext":  h.channel.HasContext(),
		"summary":     h.channel.Summary(),
		"description": h.channel.Describe(),
		"context":     h.channel.Current(),
	}
	if advisory := h.channel.ErrorMessage(); advisory != "" {
		resp["error"] = advisory
	}
	return c.JSON(http.StatusOK, resp)
}

// ContextWebSocket accepts the host page connection that pushes
// CONTEXT_UPDATE envelopes into the context channel. The source query
// parameter seeds a route-only snapshot; embedded marks a framed host.
// GET /api/context/ws
func (h *Handler) ContextWebSocket(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	origin := c.Request().Header.Get("Origin")
	if source := c.QueryParam("source"); source != "" && h.channel.OriginAllowed(origin) {
		h.channel.SeedFromSource(source)
	}
	if c.QueryParam("embedded") == "true" {
		h.channel.SetEmbedded(true)
	}

	go h.readContextUpdates(ws, origin)
	return nil
}

func (h *Handler) readContextUpdates(ws *websocket.Conn, origin string) {
	defer ws.Close()

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		// Disallowed origins and malformed envelopes are dropped; the
		// channel records the origin error itself.
		if err := h.channel.HandleUpdate(origin, message); err != nil {
			log.Printf("WARN: context update rejected: %v", err)
		}
	}
}
