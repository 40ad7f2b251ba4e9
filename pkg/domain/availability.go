package domain

// Availability states. The legacy states (immediate/24h/48h/unavailable) still
// appear in stored profiles and rule tables; current submissions use
// available/allocated. Scoring treats unknown states as contributing nothing,
// so both generations coexist without migration.
type Availability string

const (
	AvailabilityImmediate   Availability = "immediate"
	Availability24h         Availability = "24h"
	Availability48h         Availability = "48h"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityAvailable   Availability = "available"
	AvailabilityAllocated   Availability = "allocated"
)

// KnownAvailability reports whether s is any recognized state, legacy or current.
func KnownAvailability(s string) bool {
	switch Availability(s) {
	case AvailabilityImmediate, Availability24h, Availability48h,
		AvailabilityUnavailable, AvailabilityAvailable, AvailabilityAllocated:
		return true
	}
	return false
}
