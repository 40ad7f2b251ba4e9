package disclosure

import "civitas/internal/civilian/models"

// RedactUser returns the view with PII removed unless the gate revealed it.
// Score, tags, and capability fields stay visible either way; hidden views
// carry no coordinates at all. Approximate placement is the anonymized search
// listing's job, not the detail view's.
func RedactUser(view models.View, revealed bool) models.View {
	if revealed {
		return view
	}

	view.User.FullName = ""
	view.User.DateOfBirth = nil
	view.User.Address = ""
	view.User.Lat = 0
	view.User.Lon = 0
	return view
}
