package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"civitas/internal/civilian"
	civModel "civitas/internal/civilian/models"
	"civitas/internal/platform/middleware"
	"civitas/internal/scoring"
	skillModel "civitas/internal/skills/models"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

// Service defines the interface for civilian profile operations.
type Service interface {
	Submit(ctx context.Context, p domain.Principal, input civilian.SubmitInput) (*civilian.SubmitResult, error)
	Me(ctx context.Context, p domain.Principal) (*civModel.View, error)
	Tags(ctx context.Context) civilian.TagVocabulary
}

type Handler struct {
	logger    *slog.Logger
	civilians Service
	validator middleware.PrincipalValidator
	validate  *validator.Validate
}

func New(civilians Service, logger *slog.Logger, principalValidator middleware.PrincipalValidator) *Handler {
	return &Handler{
		logger:    logger,
		civilians: civilians,
		validator: principalValidator,
		validate:  validator.New(),
	}
}

// Register registers the civilian routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/civilian", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))

		r.Get("/tags", h.handleTags)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleCivilian, h.logger))
			r.Post("/submit", h.handleSubmit)
			r.Get("/me", h.handleMe)
		})
	})
}

type skillVariantDTO struct {
	ID   string `json:"id" validate:"omitempty,uuid"`
	Name string `json:"name" validate:"max=255"`
}

type resourceDTO struct {
	Category string         `json:"category" validate:"required,max=100"`
	Subtype  string         `json:"subtype" validate:"required,max=100"`
	Quantity *int           `json:"quantity"`
	Specs    map[string]any `json:"specs"`
}

type submitDTO struct {
	SubmissionID   string            `json:"submission_id" validate:"required,max=128"`
	FullName       string            `json:"full_name" validate:"required,max=255"`
	DateOfBirth    string            `json:"dob" validate:"required"`
	Address        string            `json:"address" validate:"required,max=1000"`
	Lat            float64           `json:"lat" validate:"gte=-90,lte=90"`
	Lon            float64           `json:"lon" validate:"gte=-180,lte=180"`
	EducationLevel string            `json:"education_level" validate:"required,max=100"`
	Industry       string            `json:"industry" validate:"max=100"`
	Skills         []skillVariantDTO `json:"skills" validate:"required,min=1,dive"`
	FreeText       string            `json:"free_text" validate:"max=5000"`
	Resources      []resourceDTO     `json:"resources" validate:"dive"`
	Consent        bool              `json:"consent"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)

	var dto submitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid submission: "+err.Error()))
		return
	}

	dob, err := parseDate(dto.DateOfBirth)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	input := civilian.SubmitInput{
		SubmissionID:   dto.SubmissionID,
		FullName:       dto.FullName,
		DateOfBirth:    dob,
		Address:        dto.Address,
		Lat:            dto.Lat,
		Lon:            dto.Lon,
		EducationLevel: dto.EducationLevel,
		Industry:       dto.Industry,
		FreeText:       dto.FreeText,
		Consent:        dto.Consent,
	}
	for _, skill := range dto.Skills {
		variant := skillModel.Variant{RawName: skill.Name}
		if skill.ID != "" {
			variant.Reference, err = domain.ParseSkillID(skill.ID)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
		}
		input.Skills = append(input.Skills, variant)
	}
	for _, res := range dto.Resources {
		quantity := 0 // scorer treats 0 as "not specified" and defaults to 1
		if res.Quantity != nil {
			quantity = *res.Quantity
		}
		input.Resources = append(input.Resources, scoring.Resource{
			Category: res.Category,
			Subtype:  res.Subtype,
			Quantity: quantity,
			Specs:    res.Specs,
		})
	}

	result, err := h.civilians.Submit(ctx, principal, input)
	if err != nil {
		h.writeServiceError(w, r, "profile submission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.civilians.Me(ctx, middleware.GetPrincipal(ctx))
	if err != nil {
		h.writeServiceError(w, r, "fetch own profile failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleTags(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.civilians.Tags(r.Context()))
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "dob must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNotFound, dErrors.CodeConflict, dErrors.CodeInvalidInput,
		dErrors.CodeBadRequest, dErrors.CodeForbidden:
		httputil.WriteError(w, err)
	default:
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
	}
}
