// Package promotion implements the rules that place a population into
// organizational layers.
package promotion

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/schema"
)

// Sentinel error kinds for this package.
var (
	ErrUnknownMode = errors.New("unknown promotion mode")
)

// Strategy assigns members of a population to layers. Implementations only
// read the population and return a new Assignment with one entry per layer,
// in layer order. No individual appears in two layers and no layer exceeds
// its capacity.
type Strategy interface {
	Name() string
	Assign(pop model.Population, layers []schema.Layer) model.Assignment
}

// Mode selects the skill-based strategy compared against random promotion.
type Mode string

// Supported modes.
const (
	ModeFlat         Mode = "flat"
	ModeHierarchical Mode = "hierarchical"
)

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{ModeFlat, ModeHierarchical}
}

// ParseMode resolves a mode name, ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFlat:
		return ModeFlat, nil
	case ModeHierarchical:
		return ModeHierarchical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ForMode returns the skill-based strategy for mode.
func ForMode(mode Mode) (Strategy, error) {
	switch mode {
	case ModeFlat:
		return Flat{}, nil
	case ModeHierarchical:
		return Hierarchical{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
}

// rankBy orders candidates by their required-skill score, highest first.
// The sort is stable so equal scores keep candidate order.
func rankBy(candidates []model.Individual, skills []schema.Skill) []model.Individual {
	type scored struct {
		person model.Individual
		score  int
	}
	ranked := make([]scored, len(candidates))
	for i, p := range candidates {
		ranked[i] = scored{person: p, score: p.RequiredScore(skills)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	out := make([]model.Individual, len(ranked))
	for i, r := range ranked {
		out[i] = r.person
	}
	return out
}

// top returns at most n leading members as a new slice.
func top(ranked []model.Individual, n int) []model.Individual {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	out := make([]model.Individual, n)
	copy(out, ranked[:n])
	return out
}
