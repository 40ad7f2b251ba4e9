package models

import (
	"time"

	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
)

// RequestType distinguishes information requests from allocation requests.
type RequestType string

const (
	RequestTypeInfo     RequestType = "info"
	RequestTypeAllocate RequestType = "allocate"
)

func ParseRequestType(raw string) (RequestType, error) {
	switch RequestType(raw) {
	case RequestTypeInfo, RequestTypeAllocate:
		return RequestType(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "type must be info or allocate")
	}
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
)

// Request tracks an authority asking for information about, or allocation of,
// a civilian.
type Request struct {
	ID          domain.RequestID  `json:"id"`
	AuthorityID string            `json:"authority_id"`
	Type        RequestType       `json:"type"`
	CivilianID  domain.CivilianID `json:"civilian_id"`
	Message     string            `json:"message,omitempty"`
	Status      RequestStatus     `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type AllocationStatus string

const (
	AllocationStatusActive    AllocationStatus = "active"
	AllocationStatusCompleted AllocationStatus = "completed"
	AllocationStatusCancelled AllocationStatus = "cancelled"
)

// Allocation binds a civilian, and optionally one of their resources, to a
// mission. An active allocation is what unlocks PII disclosure.
type Allocation struct {
	ID          domain.AllocationID `json:"id"`
	CivilianID  domain.CivilianID   `json:"civilian_id"`
	ResourceID  domain.ResourceID   `json:"resource_id,omitempty"`
	MissionCode string              `json:"mission_code"`
	Status      AllocationStatus    `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}
