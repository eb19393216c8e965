package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidTier is returned for any tier name other than small, middle or pro.
var ErrInvalidTier = errors.New("invalid tier")

// Tier is a project size. Larger tiers include everything smaller ones do.
type Tier int

const (
	Small Tier = iota
	Middle
	Pro
)

var tierNames = [...]string{"small", "middle", "pro"}

// Tiers returns every tier from smallest to largest.
func Tiers() []Tier {
	return []Tier{Small, Middle, Pro}
}

// TierNames returns the tier names from smallest to largest.
func TierNames() []string {
	return slices.Clone(tierNames[:])
}

func (t Tier) String() string {
	if t < Small || t > Pro {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Includes reports whether a project of tier t contains everything other adds.
func (t Tier) Includes(other Tier) bool {
	return t >= other
}

// ParseTier accepts a tier name in any case, ignoring surrounding whitespace.
func ParseTier(s string) (Tier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return Small, fmt.Errorf("%w %q: must be one of %s", ErrInvalidTier, s, strings.Join(tierNames[:], ", "))
}
