// Package search serves the authority-facing directory: anonymized, filtered
// listings of available civilians and gated detail views.
package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"civitas/internal/civilian"
	civModel "civitas/internal/civilian/models"
	"civitas/internal/disclosure"
	"civitas/internal/geo"
	"civitas/internal/platform/metrics"
	"civitas/internal/rules"
	"civitas/internal/scoring"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

// rescoreConcurrency bounds the per-row query scoring fan-out.
const rescoreConcurrency = 8

type Service struct {
	civilians civilian.Store
	gate      *disclosure.Gate
	table     *rules.Table
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(civilians civilian.Store, gate *disclosure.Gate, table *rules.Table, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{civilians: civilians, gate: gate, table: table, metrics: m, logger: logger}
}

type Params struct {
	BBox         *civilian.BBox
	Tags         []string
	MinScore     *float64
	Availability domain.Availability
	Terms        []string
	Page         int
	Limit        int
}

// Row is one anonymized search result. No PII: coordinates are jittered and
// identity is reduced to the civilian ID.
type Row struct {
	CivilianID     domain.CivilianID   `json:"civilian_id"`
	EducationLevel string              `json:"education_level"`
	Skills         []string            `json:"skills"`
	Availability   domain.Availability `json:"availability"`
	Score          float64             `json:"capability_score"`
	Tags           []string            `json:"tags"`
	Lat            float64             `json:"lat"`
	Lon            float64             `json:"lon"`
	Status         domain.Availability `json:"status"`
}

type Result struct {
	Results []Row `json:"results"`
	Total   int   `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
}

// Search returns the filtered, paginated, anonymized listing. When query
// terms are present every row is rescored for relevance and the page is
// reordered by the query score.
func (s *Service) Search(ctx context.Context, params Params) (*Result, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	views, total, err := s.civilians.Search(ctx, civilian.Filter{
		BBox:         params.BBox,
		Tags:         params.Tags,
		MinScore:     params.MinScore,
		Availability: params.Availability,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search profiles")
	}

	rows := make([]Row, len(views))
	for i, view := range views {
		rows[i] = anonymize(view)
	}

	if len(params.Terms) > 0 {
		if err := s.rescore(ctx, views, rows, params.Terms); err != nil {
			return nil, err
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	}

	s.metrics.IncrementSearchesServed()
	return &Result{Results: rows, Total: total, Page: page, Limit: limit}, nil
}

// rescore replaces each row's stored score with its query relevance score.
func (s *Service) rescore(ctx context.Context, views []civModel.View, rows []Row, terms []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rescoreConcurrency)
	for i := range views {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			profile := views[i].Profile
			rows[i].Score = scoring.ScoreForQuery(scoring.Profile{
				EducationLevel: profile.EducationLevel,
				Skills:         profile.Skills,
				FreeText:       profile.FreeText,
				Availability:   string(profile.Availability),
				Resources:      profile.Resources,
				Industry:       profile.Industry,
			}, profile.Tags, terms, s.table)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "rescore results")
	}
	return nil
}

func anonymize(view civModel.View) Row {
	approx := geo.Jitter(geo.Coordinate{Lat: view.User.Lat, Lon: view.User.Lon}, view.User.ID.String())
	profile := view.Profile
	row := Row{
		CivilianID:     view.User.ID,
		EducationLevel: profile.EducationLevel,
		Skills:         profile.Skills,
		Availability:   profile.Availability,
		Score:          profile.Score,
		Tags:           profile.Tags,
		Lat:            approx.Lat,
		Lon:            approx.Lon,
		Status:         profile.Status,
	}
	if row.Skills == nil {
		row.Skills = []string{}
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	return row
}

// Detail is the gated detail view: the disclosure gate decides, redaction
// enforces, and the response carries the verdict.
type Detail struct {
	User        civModel.User     `json:"user"`
	Profile     *civModel.Profile `json:"profile"`
	PIIRevealed bool              `json:"pii_revealed"`
}

func (s *Service) Detail(ctx context.Context, p domain.Principal, civilianID domain.CivilianID) (*Detail, error) {
	user, err := s.civilians.FindUser(ctx, civilianID)
	if err != nil {
		return nil, notFoundOrInternal(err, "civilian not found", "find user")
	}
	profile, err := s.civilians.FindProfile(ctx, civilianID)
	if err != nil {
		return nil, notFoundOrInternal(err, "profile not found", "find profile")
	}

	decision := s.gate.Decide(ctx, p, civilianID)
	view := disclosure.RedactUser(civModel.View{User: user, Profile: &profile}, decision.PIIRevealed)

	return &Detail{
		User:        view.User,
		Profile:     view.Profile,
		PIIRevealed: decision.PIIRevealed,
	}, nil
}

func notFoundOrInternal(err error, notFoundMsg, internalMsg string) error {
	if dErrors.Is(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
