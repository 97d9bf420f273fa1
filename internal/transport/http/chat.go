package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/service"
)

// Chat accepts a user message and returns the assistant's reply.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.SendMessage(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
		case errors.Is(err, service.ErrMissingConfig):
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Missing assistant configuration"})
		case errors.Is(err, service.ErrRunInFlight):
			return c.JSON(http.StatusConflict, map[string]string{"error": "A run is already in progress"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// ToolHandler executes the pending tool calls of an already-created run.
// POST /api/assistant/tool-handler
func (h *Handler) ToolHandler(c echo.Context) error {
	var req domain.ToolHandlerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ThreadID == "" || req.RunID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing thread_id or run_id"})
	}

	resp, err := h.service.HandlePendingTools(c.Request().Context(), req.ThreadID, req.RunID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetConversation returns the stored transcript.
// GET /api/conversation
func (h *Handler) GetConversation(c echo.Context) error {
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	messages, err := h.service.History(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// ClearConversation wipes the transcript and thread binding together.
// DELETE /api/conversation
func (h *Handler) ClearConversation(c echo.Context) error {
	if err := h.service.ClearConversation(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}
