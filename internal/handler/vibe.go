package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/musicu/api/internal/middleware"
	"github.com/musicu/api/internal/model"
	"github.com/musicu/api/internal/service"
	"github.com/musicu/api/internal/vibe"
	"github.com/musicu/api/pkg/response"
)

type VibeHandler struct {
	orchestrator *vibe.Orchestrator
	history      *service.HistoryService
	validator    *validator.Validate
}

func NewVibeHandler(orchestrator *vibe.Orchestrator, history *service.HistoryService, v *validator.Validate) *VibeHandler {
	return &VibeHandler{
		orchestrator: orchestrator,
		history:      history,
		validator:    v,
	}
}

// Generate handles POST /api/vibe/generate. Open to authenticated and guest
// sessions; only authenticated sessions get their result saved to history.
func (h *VibeHandler) Generate(c *fiber.Ctx) error {
	var req model.VibeGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	session := middleware.GetSession(c)
	outcome := h.orchestrator.Generate(c.Context(), session, req.Description)

	if outcome.State == vibe.StateFailed {
		return response.AIError(c, errorCode(outcome.Kind), outcome.Message)
	}

	return response.OK(c, &model.VibeGenerateResponse{
		Result:    outcome.Result,
		SearchURL: outcome.Result.SearchURL(),
		Warning:   outcome.Warning,
	})
}

// History handles GET /api/vibe/history. Requires an authenticated session.
func (h *VibeHandler) History(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	limit := service.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return response.ValidationError(c, "Invalid limit parameter", nil)
		}
		limit = parsed
	}

	entries, err := h.history.ListRecent(c.Context(), session.UserID, limit)
	if err != nil {
		return response.ServiceError(c, "Failed to load history")
	}

	return response.OK(c, &model.HistoryListResponse{Entries: entries})
}

// errorCode maps a classified failure onto the response envelope code.
func errorCode(kind vibe.ErrorKind) string {
	switch kind {
	case vibe.KindCredential:
		return response.CodeCredentialError
	case vibe.KindRateLimit:
		return response.CodeQuotaExceeded
	default:
		return response.CodeAIError
	}
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
