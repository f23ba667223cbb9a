package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/resumatch/backend/api/http/presenter"
	"github.com/resumatch/backend/pkg/alert"
	"github.com/resumatch/backend/pkg/user"
)

type AlertHandler struct {
	dispatcher *alert.Dispatcher
	users      user.Repository
}

func NewAlertHandler(dispatcher *alert.Dispatcher, users user.Repository) *AlertHandler {
	return &AlertHandler{dispatcher: dispatcher, users: users}
}

type testSendRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TestSend runs the alert pipeline synchronously for the caller. Failure
// bodies on this route are plain text because the web client reads
// response.text() and pattern-matches on the wording: authentication
// failures must read differently from delivery failures.
// @Summary Send a test job alert email to the caller
// @Tags    alerts
// @Accept  json
// @Produce json
// @Param   request body testSendRequest true "Target user id and email"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {string} string "Validation failure"
// @Failure 403 {string} string "Authorization mismatch"
// @Failure 502 {string} string "Delivery failure"
// @Router  /test-send-job-alert/ [post]
func (h *AlertHandler) TestSend(c *fiber.Ctx) error {
	var req testSendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).SendString("invalid request body")
	}
	if req.UserID == "" || req.Email == "" {
		return c.Status(http.StatusBadRequest).SendString("user_id and email are required")
	}

	callerID, _ := c.Locals("userId").(string)
	count, err := h.dispatcher.SendTest(c.Context(), callerID, req.UserID, req.Email)
	if err != nil {
		if errors.Is(err, alert.ErrAuthMismatch) {
			return c.Status(http.StatusForbidden).SendString("Authorization failure: token subject does not match user_id")
		}
		var de *alert.DeliveryError
		if errors.As(err, &de) {
			return c.Status(http.StatusBadGateway).SendString(fmt.Sprintf("delivery failed for %s: %v", de.Recipient, de.Err))
		}
		return c.Status(http.StatusInternalServerError).SendString(fmt.Sprintf("failed to send test alert: %v", err))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"status":        "success",
		"matches_count": count,
	})
}

type updatePreferencesRequest struct {
	Email     string `json:"email"`
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"`
	Scope     string `json:"scope"`
}

// UpdatePreferences mutates the caller's alert preference record.
// @Summary Update job alert preferences
// @Tags    alerts
// @Accept  json
// @Produce json
// @Param   request body updatePreferencesRequest true "New preference values"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /update-alert-preferences/ [post]
func (h *AlertHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req updatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	pref := user.AlertPreference{Enabled: req.Enabled, Frequency: req.Frequency, Scope: req.Scope}
	if !pref.Valid() {
		return presenter.Error(c, http.StatusBadRequest, "frequency must be weekly or monthly, scope must be top or all")
	}

	callerID, _ := c.Locals("userId").(string)
	if callerID == "" {
		return presenter.Error(c, http.StatusUnauthorized, "authentication required")
	}
	if err := h.users.Upsert(c.Context(), user.User{ID: callerID, Email: req.Email, Alert: pref}); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save preferences")
	}
	if err := h.users.UpdatePreference(c.Context(), callerID, pref); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save preferences")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": "success"})
}
