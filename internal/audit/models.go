package audit

import (
	"time"

	"civitas/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Decision  string
	Reason    string
	RequestID string
	Details   map[string]any
}

const (
	// Profile events
	ActionProfileSubmitted = "profile_submitted"

	// Disclosure events
	ActionPIIAccess = "pii_access"

	// Coordination events
	ActionRequestCreated    = "request_created"
	ActionAllocationCreated = "allocation_created"

	// Skill registry events
	ActionSkillCreated = "skill_created"
)

const (
	DecisionRevealed = "revealed"
	DecisionHidden   = "hidden"
)

// ActorFrom renders a principal as the audit actor string. Falls back to the
// token subject when the principal has no civilian identity.
func ActorFrom(p domain.Principal) string {
	if !p.CivilianID.IsNil() {
		return p.CivilianID.String()
	}
	return p.Subject
}
