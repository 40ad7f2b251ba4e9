// Package ports defines the dependencies of the disclosure gate. Interfaces
// live here so the gate stays a pure decision module with swappable edges.
package ports

import (
	"context"

	"civitas/internal/audit"
	"civitas/pkg/domain"
)

// AllocationPort answers whether an authority currently holds an active
// allocation for a civilian.
type AllocationPort interface {
	HasActiveAllocation(ctx context.Context, authority string, civilianID domain.CivilianID) (bool, error)
}

// AuditPort emits disclosure decisions to the audit trail.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
