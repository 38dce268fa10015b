package location

import (
	"strings"

	"golang.org/x/text/cases"

	"photosort/internal/geocode"
)

// Granularity is how specific a resolved location name is.
type Granularity string

const (
	GranularityCountry      Granularity = "country"
	GranularityNationalPark Granularity = "national_park"
	GranularityMajorCity    Granularity = "major_city"
	GranularityState        Granularity = "state"
	GranularityUnknown      Granularity = "unknown"
)

// Unknown is the location name used when nothing could be resolved.
const Unknown = "Unknown"

// rule maps an address to a location name. match returns false when the rule
// does not apply.
type rule struct {
	granularity Granularity
	match       func(addr geocode.Address, f *folder) (string, bool)
}

// Rules is the ordered granularity rule list. Evaluation stops at the first
// matching rule.
type Rules struct {
	rules []rule
}

type foldedName struct {
	name   string
	folded string
}

// NewRules builds the fixed-priority rule list: foreign country, then
// national park, then major city, then state. Park and city names are tried
// in the order given.
func NewRules(majorCities, nationalParks []string) *Rules {
	f := newFolder()
	parks := foldAll(f, nationalParks)
	cities := foldAll(f, majorCities)

	return &Rules{rules: []rule{
		{granularity: GranularityCountry, match: matchForeignCountry},
		{granularity: GranularityNationalPark, match: matchNationalPark(parks)},
		{granularity: GranularityMajorCity, match: matchMajorCity(cities)},
		{granularity: GranularityState, match: matchState},
	}}
}

// Apply returns the name and granularity of the first matching rule.
func (r *Rules) Apply(addr geocode.Address) (string, Granularity) {
	f := newFolder()
	for _, rl := range r.rules {
		if name, ok := rl.match(addr, f); ok {
			return name, rl.granularity
		}
	}
	return Unknown, GranularityUnknown
}

// IsUnitedStates reports whether a country string denotes the US.
func IsUnitedStates(country string) bool {
	return country == "US" || strings.Contains(country, "United States") || strings.Contains(country, "USA")
}

func matchForeignCountry(addr geocode.Address, _ *folder) (string, bool) {
	if IsUnitedStates(addr.Country) {
		return "", false
	}
	if addr.Country == "" {
		return Unknown, true
	}
	return NormalizeName(addr.Country), true
}

func matchNationalPark(parks []foldedName) func(geocode.Address, *folder) (string, bool) {
	return func(addr geocode.Address, f *folder) (string, bool) {
		county := f.fold(addr.County)
		city := f.fold(addr.City)
		for _, park := range parks {
			if strings.Contains(county, park.folded) || strings.Contains(city, park.folded) {
				return StateAbbreviation(addr.State) + "-" + NormalizeName(park.name), true
			}
		}
		return "", false
	}
}

func matchMajorCity(cities []foldedName) func(geocode.Address, *folder) (string, bool) {
	return func(addr geocode.Address, f *folder) (string, bool) {
		if addr.City == "" {
			return "", false
		}
		city := f.fold(addr.City)
		for _, candidate := range cities {
			if strings.Contains(city, candidate.folded) {
				return StateAbbreviation(addr.State) + "-" + NormalizeName(addr.City), true
			}
		}
		return "", false
	}
}

func matchState(addr geocode.Address, _ *folder) (string, bool) {
	if addr.State == "" {
		return Unknown, true
	}
	return StateAbbreviation(addr.State), true
}

// folder wraps a Unicode case-folding caser. Casers are stateful, so each
// Apply call gets its own.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	if s == "" {
		return ""
	}
	return f.caser.String(s)
}

func foldAll(f *folder, names []string) []foldedName {
	out := make([]foldedName, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, foldedName{name: name, folded: f.fold(name)})
	}
	return out
}
