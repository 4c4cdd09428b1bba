package emission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Coefficient maps a lowercase keyword fragment to an emission coefficient.
type Coefficient struct {
	Keyword string  `yaml:"keyword" mapstructure:"keyword"`
	Value   float64 `yaml:"value" mapstructure:"value"`
}

// Profile is a named, ordered coefficient table. The declared order of
// Coefficients is the tie-break when several keywords match one label.
type Profile struct {
	Name         string        `yaml:"name" mapstructure:"name"`
	Unit         string        `yaml:"unit" mapstructure:"unit"`
	Coefficients []Coefficient `yaml:"coefficients" mapstructure:"coefficients"`
}

// Built-in profile names.
const (
	EmissionFactor = "emission-factor"
	IntensityScore = "intensity-score"
)

// ErrUnknownProfile is returned by Lookup for unregistered profile names.
var ErrUnknownProfile = errors.New("unknown coefficient profile")

// NewProfile builds a profile, lowercasing keywords. Empty keywords are rejected.
func NewProfile(name, unit string, coefs ...Coefficient) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, errors.New("profile name is empty")
	}
	p := Profile{Name: name, Unit: unit, Coefficients: make([]Coefficient, 0, len(coefs))}
	for i, c := range coefs {
		kw := strings.ToLower(strings.TrimSpace(c.Keyword))
		if kw == "" {
			return Profile{}, fmt.Errorf("profile %s: keyword %d is empty", name, i+1)
		}
		p.Coefficients = append(p.Coefficients, Coefficient{Keyword: kw, Value: c.Value})
	}
	return p, nil
}

// CoefficientFor returns the coefficient of the first keyword contained in
// the lowercased product label. Missing or unmatched products resolve to 0,
// which makes "zero-emission" and "unrecognized" indistinguishable; use
// Matches to tell them apart.
func (p Profile) CoefficientFor(product string) float64 {
	c, _ := p.lookup(product)
	return c
}

// Matches reports whether any keyword of the profile occurs in product.
func (p Profile) Matches(product string) bool {
	_, ok := p.lookup(product)
	return ok
}

func (p Profile) lookup(product string) (float64, bool) {
	label := strings.ToLower(strings.TrimSpace(product))
	if label == "" {
		return 0, false
	}
	for _, c := range p.Coefficients {
		if strings.Contains(label, c.Keyword) {
			return c.Value, true
		}
	}
	return 0, false
}

// Keywords returns the keywords in declared order.
func (p Profile) Keywords() []string {
	out := make([]string, len(p.Coefficients))
	for i, c := range p.Coefficients {
		out[i] = c.Keyword
	}
	return out
}

var (
	mu       sync.RWMutex
	registry = map[string]Profile{}
)

// Register adds or replaces a profile in the registry.
func Register(p Profile) {
	mu.Lock()
	defer mu.Unlock()
	registry[p.Name] = p
}

// Lookup returns a registered profile by name (case-insensitive).
func Lookup(name string) (Profile, error) {
	mu.RLock()
	defer mu.RUnlock()
	if p, ok := registry[name]; ok {
		return p, nil
	}
	for k, p := range registry {
		if strings.EqualFold(k, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(namesLocked(), ", "))
}

// MustLookup is like Lookup but panics on an unknown name. Intended for the
// built-in profiles.
func MustLookup(name string) Profile {
	p, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names lists registered profile names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	// Tons of CO2-equivalent per unit of generation.
	Register(mustProfile(EmissionFactor, "tCO2e/unit",
		Coefficient{"coal", 2.20},
		Coefficient{"oil", 2.10},
		Coefficient{"natural gas", 1.60},
		Coefficient{"natural", 1.60},
		Coefficient{"hydro", 0},
		Coefficient{"wind", 0},
		Coefficient{"solar", 0},
	))
	// Same keywords, intensity normalized to coal = 1.
	Register(mustProfile(IntensityScore, "score",
		Coefficient{"coal", 1.0},
		Coefficient{"oil", 0.9545},
		Coefficient{"natural gas", 0.7273},
		Coefficient{"natural", 0.7273},
		Coefficient{"hydro", 0},
		Coefficient{"wind", 0},
		Coefficient{"solar", 0},
	))
}

func mustProfile(name, unit string, coefs ...Coefficient) Profile {
	p, err := NewProfile(name, unit, coefs...)
	if err != nil {
		panic(err)
	}
	return p
}
