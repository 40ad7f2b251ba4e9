package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"civitas/internal/allocation"
	allocModel "civitas/internal/allocation/models"
	"civitas/internal/platform/middleware"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

// Service defines the interface for allocation operations.
type Service interface {
	CreateRequest(ctx context.Context, p domain.Principal, input allocation.CreateRequestInput) (*allocModel.Request, error)
	Allocate(ctx context.Context, p domain.Principal, input allocation.AllocateInput) (*allocModel.Allocation, error)
	ListRequests(ctx context.Context, p domain.Principal) ([]allocModel.Request, error)
	ListAllocations(ctx context.Context) ([]allocModel.Allocation, error)
}

type Handler struct {
	logger      *slog.Logger
	allocations Service
	validator   middleware.PrincipalValidator
	validate    *validator.Validate
}

func New(allocations Service, logger *slog.Logger, principalValidator middleware.PrincipalValidator) *Handler {
	return &Handler{
		logger:      logger,
		allocations: allocations,
		validator:   principalValidator,
		validate:    validator.New(),
	}
}

// Register registers the allocation routes with the chi router. All routes
// require the authority role.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Use(middleware.RequireRole(domain.RoleAuthority, h.logger))
		r.Post("/requests", h.handleCreateRequest)
		r.Get("/requests", h.handleListRequests)
		r.Post("/allocate", h.handleAllocate)
		r.Get("/allocations", h.handleListAllocations)
	})
}

type createRequestDTO struct {
	Type       string `json:"type" validate:"required,oneof=info allocate"`
	CivilianID string `json:"civilian_id" validate:"required,uuid"`
	Message    string `json:"message" validate:"max=2000"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)

	var dto createRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request: "+err.Error()))
		return
	}

	reqType, err := allocModel.ParseRequestType(dto.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	civilianID, err := domain.ParseCivilianID(dto.CivilianID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	request, err := h.allocations.CreateRequest(ctx, principal, allocation.CreateRequestInput{
		Type:       reqType,
		CivilianID: civilianID,
		Message:    dto.Message,
	})
	if err != nil {
		h.writeServiceError(w, r, "create request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, request)
}

type allocateDTO struct {
	CivilianID  string `json:"civilian_id" validate:"required,uuid"`
	ResourceID  string `json:"resource_id" validate:"omitempty,uuid"`
	MissionCode string `json:"mission_code" validate:"required,max=100"`
}

func (h *Handler) handleAllocate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)

	var dto allocateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request: "+err.Error()))
		return
	}

	civilianID, err := domain.ParseCivilianID(dto.CivilianID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	input := allocation.AllocateInput{
		CivilianID:  civilianID,
		MissionCode: dto.MissionCode,
	}
	if dto.ResourceID != "" {
		input.ResourceID, err = domain.ParseResourceID(dto.ResourceID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	alloc, err := h.allocations.Allocate(ctx, principal, input)
	if err != nil {
		h.writeServiceError(w, r, "allocate failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, alloc)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requests, err := h.allocations.ListRequests(ctx, middleware.GetPrincipal(ctx))
	if err != nil {
		h.writeServiceError(w, r, "list requests failed", err)
		return
	}
	if requests == nil {
		requests = []allocModel.Request{}
	}
	httputil.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	allocations, err := h.allocations.ListAllocations(ctx)
	if err != nil {
		h.writeServiceError(w, r, "list allocations failed", err)
		return
	}
	if allocations == nil {
		allocations = []allocModel.Allocation{}
	}
	httputil.WriteJSON(w, http.StatusOK, allocations)
}

// writeServiceError passes client-caused errors through and masks everything
// else as internal.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNotFound, dErrors.CodeConflict, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		httputil.WriteError(w, err)
	default:
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
	}
}
