package models

import (
	"strings"
	"unicode"

	"civitas/pkg/domain"
)

// Skill is a registry entry. Canonical skills ship with the system; user
// submitted names are registered as non-canonical.
type Skill struct {
	ID        domain.SkillID `json:"id"`
	Name      string         `json:"name"`
	Canonical bool           `json:"canonical"`
}

// Variant is one skill reference in a profile submission: either a raw name
// or a registry ID, never both.
type Variant struct {
	RawName   string         `json:"name,omitempty"`
	Reference domain.SkillID `json:"id,omitempty"`
}

// Normalize trims, collapses internal whitespace, and Title Cases a skill
// name so "  first   aid " and "First Aid" land on the same registry entry.
func Normalize(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
