package models

import (
	"time"

	"civitas/internal/scoring"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
)

// User holds the civilian's PII. Everything except the ID is hidden from
// authorities until the disclosure gate reveals it.
type User struct {
	ID          domain.CivilianID `json:"id"`
	FullName    string            `json:"full_name,omitempty"`
	DateOfBirth *time.Time        `json:"dob,omitempty"`
	Address     string            `json:"address,omitempty"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewUser(id domain.CivilianID, fullName string, dob time.Time, address string, lat, lon float64, now time.Time) (*User, error) {
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "full_name cannot be empty")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if lat < -90 || lat > 90 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "lat must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "lon must be between -180 and 180")
	}
	return &User{
		ID:          id,
		FullName:    fullName,
		DateOfBirth: &dob,
		Address:     address,
		Lat:         lat,
		Lon:         lon,
		CreatedAt:   now,
	}, nil
}

// Profile holds the civilian's capabilities, derived score, and availability.
// Score and Tags are recomputed on every submission; they are outputs of the
// scoring engine, never client input.
type Profile struct {
	CivilianID     domain.CivilianID   `json:"civilian_id"`
	EducationLevel string              `json:"education_level"`
	Industry       string              `json:"industry,omitempty"`
	Skills         []string            `json:"skills"`
	FreeText       string              `json:"free_text,omitempty"`
	Availability   domain.Availability `json:"availability"`
	Resources      []scoring.Resource  `json:"resources,omitempty"`
	Score          float64             `json:"capability_score"`
	Tags           []string            `json:"tags"`
	Status         domain.Availability `json:"status"`
	UpdatedAt      time.Time           `json:"last_updated"`
}

// View pairs a user with their profile for responses. Profile is nil for a
// user who registered but never submitted capabilities.
type View struct {
	User    User     `json:"user"`
	Profile *Profile `json:"profile,omitempty"`
}
