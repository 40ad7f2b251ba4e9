package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"civitas/internal/platform/middleware"
	skillModel "civitas/internal/skills/models"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

// Service defines the interface for skill registry operations.
type Service interface {
	Suggest(ctx context.Context, query string, limit int) ([]skillModel.Skill, error)
	Create(ctx context.Context, name string) (skillModel.Skill, error)
}

type Handler struct {
	logger    *slog.Logger
	skills    Service
	validator middleware.PrincipalValidator
}

func New(skills Service, logger *slog.Logger, validator middleware.PrincipalValidator) *Handler {
	return &Handler{logger: logger, skills: skills, validator: validator}
}

// Register registers the skill routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/skills", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Get("/suggest", h.handleSuggest)
		r.Post("/", h.handleCreate)
	})
}

type suggestResponse struct {
	Results []skillModel.Skill `json:"results"`
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	results, err := h.skills.Suggest(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "skill suggest failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to suggest skills"))
		return
	}
	if results == nil {
		results = []skillModel.Skill{}
	}
	httputil.WriteJSON(w, http.StatusOK, suggestResponse{Results: results})
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	skill, err := h.skills.Create(ctx, req.Name)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "skill create failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create skill"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, skill)
}
