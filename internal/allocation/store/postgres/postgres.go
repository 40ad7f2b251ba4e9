package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"civitas/internal/allocation/models"
	"civitas/pkg/domain"
)

// Store persists requests and allocations in PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRequest(ctx context.Context, req models.Request) error {
	query := `
		INSERT INTO requests (id, authority_id, type, civilian_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(req.ID),
		req.AuthorityID,
		string(req.Type),
		uuid.UUID(req.CivilianID),
		req.Message,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (s *Store) ListRequestsByAuthority(ctx context.Context, authorityID string) ([]models.Request, error) {
	query := `
		SELECT id, authority_id, type, civilian_id, message, status, created_at, updated_at
		FROM requests
		WHERE authority_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, authorityID)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		var (
			req      models.Request
			id, civ  uuid.UUID
			reqType  string
			reqState string
		)
		err := rows.Scan(&id, &req.AuthorityID, &reqType, &civ, &req.Message, &reqState, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req.ID = domain.RequestID(id)
		req.CivilianID = domain.CivilianID(civ)
		req.Type = models.RequestType(reqType)
		req.Status = models.RequestStatus(reqState)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return requests, nil
}

func (s *Store) CreateAllocation(ctx context.Context, alloc models.Allocation) error {
	var resourceID *uuid.UUID
	if !alloc.ResourceID.IsNil() {
		rid := uuid.UUID(alloc.ResourceID)
		resourceID = &rid
	}
	query := `
		INSERT INTO allocations (id, civilian_id, resource_id, mission_code, status, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(alloc.ID),
		uuid.UUID(alloc.CivilianID),
		resourceID,
		alloc.MissionCode,
		string(alloc.Status),
		alloc.CreatedAt,
		alloc.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

func (s *Store) ListActiveAllocations(ctx context.Context) ([]models.Allocation, error) {
	query := `
		SELECT id, civilian_id, resource_id, mission_code, status, created_at, completed_at
		FROM allocations
		WHERE status = 'active'
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []models.Allocation
	for rows.Next() {
		var (
			alloc      models.Allocation
			id, civ    uuid.UUID
			resourceID *uuid.UUID
			status     string
		)
		err := rows.Scan(&id, &civ, &resourceID, &alloc.MissionCode, &status, &alloc.CreatedAt, &alloc.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		alloc.ID = domain.AllocationID(id)
		alloc.CivilianID = domain.CivilianID(civ)
		if resourceID != nil {
			alloc.ResourceID = domain.ResourceID(*resourceID)
		}
		alloc.Status = models.AllocationStatus(status)
		allocations = append(allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return allocations, nil
}

func (s *Store) HasActiveAllocation(ctx context.Context, civilianID domain.CivilianID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM allocations WHERE civilian_id = $1 AND status = 'active')`
	if err := s.db.QueryRowContext(ctx, query, uuid.UUID(civilianID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active allocation: %w", err)
	}
	return exists, nil
}
