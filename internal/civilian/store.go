package civilian

import (
	"context"

	"civitas/internal/civilian/models"
	"civitas/pkg/domain"
)

// BBox is a geographic bounding box filter: min lat, min lon, max lat, max lon.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Filter narrows a profile search. Zero values mean "no constraint"; MinScore
// uses a pointer so 0 remains expressible. Search always excludes profiles
// whose status is not available.
type Filter struct {
	BBox         *BBox
	Tags         []string
	MinScore     *float64
	Availability domain.Availability
	Page         int
	Limit        int
}

// Store is the persistence boundary for civilian users and profiles.
type Store interface {
	UpsertUser(ctx context.Context, user models.User) error
	FindUser(ctx context.Context, id domain.CivilianID) (models.User, error)
	UserExists(ctx context.Context, id domain.CivilianID) (bool, error)

	UpsertProfile(ctx context.Context, profile models.Profile) error
	FindProfile(ctx context.Context, id domain.CivilianID) (models.Profile, error)
	SetProfileStatus(ctx context.Context, id domain.CivilianID, status domain.Availability) error

	// Search returns the matching page of views plus the total match count.
	// Results are ordered by score descending.
	Search(ctx context.Context, filter Filter) ([]models.View, int, error)
}
