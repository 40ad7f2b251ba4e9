package suggest

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// categoryKeywords backs the deterministic fallback suggester. Categories
// mirror the coordination exercise's priority skills; keyword lists cover
// English and Finnish variants.
var categoryKeywords = map[string][]string{
	"drones":        {"drone", "uav", "quadcopter", "fpv", "aerial", "reconnaissance", "drooni", "lennokki"},
	"automation":    {"automation", "robotics", "robot", "plc", "scada", "industrial", "automaatio", "robotiikka"},
	"electrical":    {"electrical", "electrician", "power grid", "generator", "solar", "inverter", "sähkö", "voima"},
	"mechanical":    {"mechanical", "mechanic", "engine", "hydraulic", "pneumatic", "machinery", "mekaanikko", "kone"},
	"cybersecurity": {"cybersecurity", "cyber", "network security", "penetration testing", "firewall", "encryption", "tietoturva"},
	"communications": {
		"radio", "ham", "vhf", "uhf", "satellite", "dispatcher", "viestintä",
	},
	"medical":      {"doctor", "nurse", "paramedic", "medical", "first aid", "ambulance", "surgery", "physician", "lääkäri", "sairaanhoitaja", "ensiapu"},
	"technical":    {"engineer", "software", "hardware", "programming", "developer", "technician", "electronics", "insinööri", "ohjelmointi"},
	"logistics":    {"logistics", "supply", "transport", "warehouse", "inventory", "logistiikka", "kuljetus", "varasto"},
	"construction": {"construction", "carpenter", "welder", "plumber", "builder", "infrastructure", "rakennus", "putkimies"},
	"transport":    {"driver", "pilot", "captain", "truck", "boat", "helicopter", "kuljettaja", "pilotti"},
	"leadership":   {"manager", "supervisor", "team lead", "director", "commander", "esimies", "johtaja", "komentaja"},
	"emergency":    {"emergency", "crisis", "disaster", "rescue", "hazmat", "search and rescue", "hätä", "kriisi", "pelastus"},
	"defense":      {"defense", "military", "army", "navy", "veteran", "tactical", "puolustus", "sotilas", "armeija"},
	"surveillance": {"surveillance", "monitoring", "intelligence", "tracking", "tarkkailu", "valvonta", "tiedustelu"},
}

var (
	experiencePattern = regexp.MustCompile(`\b\d+\s*years?\s*(?:of\s*)?experience\b|\bsenior\b|\bexpert\b|\bveteran\b|\badvanced\b`)
	certifiedPattern  = regexp.MustCompile(`\bcertified\b|\blicensed\b|\bqualified\b|\btrained\b|\bdiploma\b|\bcertificate\b`)
)

// Keyword is the deterministic fallback suggester. It is total, synchronous,
// and dependency-free; the chain falls back to it whenever the LLM backend is
// unreachable or mis-answers.
type Keyword struct{}

func NewKeyword() *Keyword { return &Keyword{} }

func (k *Keyword) Suggest(_ context.Context, text string, _ ProfileContext) []string {
	if len(strings.TrimSpace(text)) < minTextLen {
		return nil
	}
	lower := strings.ToLower(text)

	var raw []string
	// Category names sorted so output order is stable across runs.
	names := make([]string, 0, len(categoryKeywords))
	for name := range categoryKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, keyword := range categoryKeywords[name] {
			if strings.Contains(lower, keyword) {
				raw = append(raw, name)
				break
			}
		}
	}

	if experiencePattern.MatchString(lower) {
		raw = append(raw, "senior")
	}
	if certifiedPattern.MatchString(lower) {
		raw = append(raw, "certified")
	}

	return ValidateTags(raw)
}
