package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"civitas/internal/civilian"
	"civitas/internal/platform/middleware"
	"civitas/internal/search"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

// Service defines the interface for search operations.
type Service interface {
	Search(ctx context.Context, params search.Params) (*search.Result, error)
	Detail(ctx context.Context, p domain.Principal, civilianID domain.CivilianID) (*search.Detail, error)
}

type Handler struct {
	logger    *slog.Logger
	searches  Service
	validator middleware.PrincipalValidator
}

func New(searches Service, logger *slog.Logger, validator middleware.PrincipalValidator) *Handler {
	return &Handler{logger: logger, searches: searches, validator: validator}
}

// Register registers the search routes with the chi router. All routes
// require the authority role.
func (h *Handler) Register(r chi.Router) {
	r.Route("/search", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Use(middleware.RequireRole(domain.RoleAuthority, h.logger))
		r.Get("/", h.handleSearch)
		r.Get("/detail/{civilianID}", h.handleDetail)
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	params := search.Params{
		Tags:  splitList(query.Get("tags")),
		Terms: splitList(query.Get("q")),
	}

	if raw := query.Get("bbox"); raw != "" {
		bbox, err := parseBBox(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		params.BBox = bbox
	}
	if raw := query.Get("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil || minScore < 0 || minScore > 100 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "min_score must be a number between 0 and 100"))
			return
		}
		params.MinScore = &minScore
	}
	if raw := query.Get("availability"); raw != "" {
		if !domain.KnownAvailability(raw) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown availability state"))
			return
		}
		params.Availability = domain.Availability(raw)
	}
	var err error
	if params.Page, err = positiveInt(query.Get("page"), 1); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "page must be a positive integer"))
		return
	}
	if params.Limit, err = positiveInt(query.Get("limit"), 50); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
		return
	}

	result, err := h.searches.Search(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "search failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	civilianID, err := domain.ParseCivilianID(chi.URLParam(r, "civilianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detail, err := h.searches.Detail(ctx, middleware.GetPrincipal(ctx), civilianID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "detail fetch failed",
			"request_id", middleware.GetRequestID(ctx),
			"civilian_id", civilianID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "detail fetch failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

func parseBBox(raw string) (*civilian.BBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "bbox must be min_lat,min_lon,max_lat,max_lon")
	}
	coords := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "bbox must be min_lat,min_lon,max_lat,max_lon")
		}
		coords[i] = v
	}
	return &civilian.BBox{MinLat: coords[0], MinLon: coords[1], MaxLat: coords[2], MaxLon: coords[3]}, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "must be a positive integer")
	}
	return v, nil
}
