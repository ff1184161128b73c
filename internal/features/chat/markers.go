package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OnboardingComplete is the sentinel the interview prompt asks the model to end with.
const OnboardingComplete = "[ONBOARDING_COMPLETE]"

const dateLayout = "2006-01-02"

// Marker values run to the first closing bracket, so a value cannot contain ']'.
var (
	saveMarkerRe  = regexp.MustCompile(`\[SAVE:([a-zA-Z_]+)=([^\]]*)\]`)
	stripMarkerRe = regexp.MustCompile(`[ \t]*\[SAVE:[^\]]*\]`)
)

// Fact is one captured onboarding answer.
type Fact interface {
	Key() string
}

type EngagementDate struct{ Date time.Time }
type WeddingDate struct{ Date time.Time }
type RelationshipYears struct{ Value string }
type PartnerName struct{ Name string }
type Budget struct{ Amount float64 }
type CompletedTasks struct{ Names []string }

func (EngagementDate) Key() string    { return "engagement_date" }
func (WeddingDate) Key() string       { return "wedding_date" }
func (RelationshipYears) Key() string { return "relationship_years" }
func (PartnerName) Key() string       { return "partner_name" }
func (Budget) Key() string            { return "budget" }
func (CompletedTasks) Key() string    { return "tasks" }

var knownKeys = map[string]bool{
	"engagement_date":    true,
	"wedding_date":       true,
	"relationship_years": true,
	"partner_name":       true,
	"budget":             true,
	"tasks":              true,
}

// RejectedMarker is a marker with a known key whose value could not be parsed.
type RejectedMarker struct {
	Key   string
	Value string
}

// ParseFacts returns the recognized markers in text, first valid occurrence per key.
// Unknown keys are ignored. Known keys with unparseable values are returned as rejected.
func ParseFacts(text string) ([]Fact, []RejectedMarker) {
	seen := make(map[string]bool)
	var facts []Fact
	var rejected []RejectedMarker
	for _, m := range saveMarkerRe.FindAllStringSubmatch(text, -1) {
		key, value := m[1], strings.TrimSpace(m[2])
		if seen[key] || !knownKeys[key] {
			continue
		}
		f := parseFact(key, value)
		if f == nil {
			rejected = append(rejected, RejectedMarker{Key: key, Value: value})
			continue
		}
		seen[key] = true
		facts = append(facts, f)
	}
	return facts, rejected
}

func parseFact(key, value string) Fact {
	switch key {
	case "engagement_date":
		if d, err := time.Parse(dateLayout, value); err == nil {
			return EngagementDate{Date: d}
		}
	case "wedding_date":
		if d, err := time.Parse(dateLayout, value); err == nil {
			return WeddingDate{Date: d}
		}
	case "relationship_years":
		if value != "" {
			return RelationshipYears{Value: value}
		}
	case "partner_name":
		if value != "" {
			return PartnerName{Name: value}
		}
	case "budget":
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(value)
		if amount, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64); err == nil {
			return Budget{Amount: amount}
		}
	case "tasks":
		var names []string
		for _, name := range strings.Split(value, "|") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return CompletedTasks{Names: names}
		}
	}
	return nil
}

// StripMarkers removes every [SAVE:...] substring, recognized or not.
func StripMarkers(text string) string {
	return strings.TrimSpace(stripMarkerRe.ReplaceAllString(text, ""))
}
