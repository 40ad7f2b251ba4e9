// Package disclosure decides whether a requester may see a civilian's PII.
// The gate is evaluated fresh on every request and never cached: an
// allocation can end between two calls, and stale reveals are worse than
// repeated lookups.
package disclosure

import (
	"context"
	"log/slog"

	"civitas/internal/audit"
	"civitas/internal/disclosure/metrics"
	"civitas/internal/disclosure/ports"
	"civitas/pkg/domain"
)

// Reasons recorded with each decision.
const (
	ReasonSelfAccess       = "self_access"
	ReasonActiveAllocation = "active_allocation"
	ReasonNoAllocation     = "no_active_allocation"
	ReasonRoleNotPermitted = "role_not_permitted"
	ReasonLookupFailed     = "allocation_lookup_failed"
)

// Decision is the gate's verdict for one evaluation.
type Decision struct {
	PIIRevealed bool
	Reason      string
}

// Gate evaluates disclosure rules against the allocation state. Every
// evaluation is audited, revealed or not.
type Gate struct {
	allocations ports.AllocationPort
	auditor     ports.AuditPort
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewGate(allocations ports.AllocationPort, auditor ports.AuditPort, m *metrics.Metrics, logger *slog.Logger) *Gate {
	return &Gate{allocations: allocations, auditor: auditor, metrics: m, logger: logger}
}

// Decide returns whether the principal may see the civilian's PII. Self
// access is always revealed. Authorities are revealed only while they hold at
// least one active allocation for the civilian. Any allocation lookup error
// hides the PII: the gate fails closed.
func (g *Gate) Decide(ctx context.Context, p domain.Principal, civilianID domain.CivilianID) Decision {
	decision := g.evaluate(ctx, p, civilianID)

	g.metrics.IncrementOutcome(decisionLabel(decision), string(p.Role))
	g.emit(ctx, p, civilianID, decision)

	return decision
}

func (g *Gate) evaluate(ctx context.Context, p domain.Principal, civilianID domain.CivilianID) Decision {
	if p.IsSelf(civilianID) {
		return Decision{PIIRevealed: true, Reason: ReasonSelfAccess}
	}

	if p.Role != domain.RoleAuthority {
		return Decision{PIIRevealed: false, Reason: ReasonRoleNotPermitted}
	}

	active, err := g.allocations.HasActiveAllocation(ctx, p.Subject, civilianID)
	if err != nil {
		g.logger.Warn("allocation lookup failed, hiding PII",
			"authority", p.Subject,
			"civilian_id", civilianID.String(),
			"error", err)
		return Decision{PIIRevealed: false, Reason: ReasonLookupFailed}
	}
	if !active {
		return Decision{PIIRevealed: false, Reason: ReasonNoAllocation}
	}
	return Decision{PIIRevealed: true, Reason: ReasonActiveAllocation}
}

// emit records the evaluation. Audit write failures are logged, not
// propagated; the decision already stands and hiding it would not help.
func (g *Gate) emit(ctx context.Context, p domain.Principal, civilianID domain.CivilianID, d Decision) {
	event := audit.Event{
		Actor:    audit.ActorFrom(p),
		Action:   audit.ActionPIIAccess,
		Entity:   "civilian",
		EntityID: civilianID.String(),
		Decision: decisionLabel(d),
		Reason:   d.Reason,
	}
	if err := g.auditor.Emit(ctx, event); err != nil {
		g.logger.Warn("disclosure audit emit failed",
			"civilian_id", civilianID.String(),
			"error", err)
	}
}

func decisionLabel(d Decision) string {
	if d.PIIRevealed {
		return audit.DecisionRevealed
	}
	return audit.DecisionHidden
}
