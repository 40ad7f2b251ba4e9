// Package allocation owns the request and allocation lifecycle: authorities
// file info/allocate requests against civilians, and allocations bind a
// civilian to a mission. Active allocations are what the disclosure gate
// consults before revealing PII.
package allocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"civitas/internal/allocation/models"
	"civitas/internal/audit"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
)

// CivilianDirectory is the slice of the civilian module this service needs:
// existence checks and the profile status flip on allocation.
type CivilianDirectory interface {
	Exists(ctx context.Context, id domain.CivilianID) (bool, error)
	ProfileStatus(ctx context.Context, id domain.CivilianID) (domain.Availability, error)
	SetProfileStatus(ctx context.Context, id domain.CivilianID, status domain.Availability) error
}

// Auditor emits allocation lifecycle events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store     Store
	civilians CivilianDirectory
	auditor   Auditor
	logger    *slog.Logger
}

func NewService(store Store, civilians CivilianDirectory, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: store, civilians: civilians, auditor: auditor, logger: logger}
}

type CreateRequestInput struct {
	Type       models.RequestType
	CivilianID domain.CivilianID
	Message    string
}

// CreateRequest files a pending info or allocate request against a civilian.
func (s *Service) CreateRequest(ctx context.Context, p domain.Principal, input CreateRequestInput) (*models.Request, error) {
	exists, err := s.civilians.Exists(ctx, input.CivilianID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check civilian")
	}
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "civilian not found")
	}

	now := time.Now().UTC()
	req := models.Request{
		ID:          domain.RequestID(uuid.New()),
		AuthorityID: p.Subject,
		Type:        input.Type,
		CivilianID:  input.CivilianID,
		Message:     input.Message,
		Status:      models.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create request")
	}

	s.emit(ctx, audit.Event{
		Actor:    p.Subject,
		Action:   audit.ActionRequestCreated,
		Entity:   "request",
		EntityID: req.ID.String(),
		Details: map[string]any{
			"type":        string(req.Type),
			"civilian_id": req.CivilianID.String(),
		},
	})
	return &req, nil
}

type AllocateInput struct {
	CivilianID  domain.CivilianID
	ResourceID  domain.ResourceID
	MissionCode string
}

// Allocate binds a civilian to a mission. Rejects with a conflict when the
// civilian is already allocated; a successful allocation flips the profile
// status to allocated.
func (s *Service) Allocate(ctx context.Context, p domain.Principal, input AllocateInput) (*models.Allocation, error) {
	if input.MissionCode == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mission_code cannot be empty")
	}

	status, err := s.civilians.ProfileStatus(ctx, input.CivilianID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check profile status")
	}
	if status == domain.AvailabilityAllocated {
		return nil, dErrors.New(dErrors.CodeConflict, "civilian is already allocated")
	}

	alloc := models.Allocation{
		ID:          domain.AllocationID(uuid.New()),
		CivilianID:  input.CivilianID,
		ResourceID:  input.ResourceID,
		MissionCode: input.MissionCode,
		Status:      models.AllocationStatusActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateAllocation(ctx, alloc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create allocation")
	}

	if err := s.civilians.SetProfileStatus(ctx, input.CivilianID, domain.AvailabilityAllocated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update profile status")
	}

	s.emit(ctx, audit.Event{
		Actor:    p.Subject,
		Action:   audit.ActionAllocationCreated,
		Entity:   "allocation",
		EntityID: alloc.ID.String(),
		Details: map[string]any{
			"civilian_id":  alloc.CivilianID.String(),
			"mission_code": alloc.MissionCode,
		},
	})
	return &alloc, nil
}

// ListRequests returns the requests filed by the calling authority, newest
// first.
func (s *Service) ListRequests(ctx context.Context, p domain.Principal) ([]models.Request, error) {
	requests, err := s.store.ListRequestsByAuthority(ctx, p.Subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list requests")
	}
	return requests, nil
}

// ListAllocations returns all active allocations, newest first.
func (s *Service) ListAllocations(ctx context.Context) ([]models.Allocation, error) {
	allocations, err := s.store.ListActiveAllocations(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list allocations")
	}
	return allocations, nil
}

// HasActiveAllocation adapts the store for the disclosure gate. Any active
// allocation for the civilian counts, regardless of which authority holds it.
func (s *Service) HasActiveAllocation(ctx context.Context, _ string, civilianID domain.CivilianID) (bool, error) {
	return s.store.HasActiveAllocation(ctx, civilianID)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Warn("allocation audit emit failed", "action", event.Action, "error", err)
	}
}
