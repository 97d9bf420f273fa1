package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// Login validates portal operator credentials against the configured list.
// POST /api/login
func (h *Handler) Login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if len(h.cfg.AdminUsers) == 0 {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Admin users not configured"})
	}

	for _, user := range h.cfg.AdminUsers {
		if user.Email == req.Email && user.Password == req.Password {
			return c.JSON(http.StatusOK, map[string]bool{"success": true})
		}
	}
	return c.JSON(http.StatusUnauthorized, map[string]bool{"success": false})
}
