package domain

import (
	"github.com/google/uuid"

	dErrors "civitas/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. Construct via the
// Parse helpers at trust boundaries; direct casting bypasses validation.
type (
	CivilianID   uuid.UUID
	AllocationID uuid.UUID
	RequestID    uuid.UUID
	ResourceID   uuid.UUID
	SkillID      uuid.UUID
)

func (id CivilianID) String() string   { return uuid.UUID(id).String() }
func (id AllocationID) String() string { return uuid.UUID(id).String() }
func (id RequestID) String() string    { return uuid.UUID(id).String() }
func (id ResourceID) String() string   { return uuid.UUID(id).String() }
func (id SkillID) String() string      { return uuid.UUID(id).String() }

func (id CivilianID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id AllocationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ResourceID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SkillID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func ParseCivilianID(s string) (CivilianID, error) {
	u, err := parseUUID(s)
	return CivilianID(u), err
}

func ParseAllocationID(s string) (AllocationID, error) {
	u, err := parseUUID(s)
	return AllocationID(u), err
}

func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s)
	return RequestID(u), err
}

func ParseResourceID(s string) (ResourceID, error) {
	u, err := parseUUID(s)
	return ResourceID(u), err
}

func ParseSkillID(s string) (SkillID, error) {
	u, err := parseUUID(s)
	return SkillID(u), err
}
