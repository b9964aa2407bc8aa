package promotion

import (
	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/schema"
)

// Flat fills each layer, in order, with the best remaining candidates by that
// layer's required skills. Selected members leave the pool, so every layer
// draws from the whole workforce minus those already placed.
type Flat struct{}

// Name identifies the strategy.
func (Flat) Name() string { return string(ModeFlat) }

// Assign implements Strategy.
func (Flat) Assign(pop model.Population, layers []schema.Layer) model.Assignment {
	pool := []model.Individual(pop)
	out := make(model.Assignment, 0, len(layers))
	for _, layer := range layers {
		selected := top(rankBy(pool, layer.RequiredSkills), layer.Capacity)
		out = append(out, model.LayerMembers{Layer: layer.Name, Members: selected})
		pool = without(pool, selected)
	}
	return out
}

// without returns the members of pool not in removed, preserving pool order.
func without(pool, removed []model.Individual) []model.Individual {
	gone := make(map[int]struct{}, len(removed))
	for _, p := range removed {
		gone[p.ID] = struct{}{}
	}
	rest := make([]model.Individual, 0, len(pool)-len(removed))
	for _, p := range pool {
		if _, ok := gone[p.ID]; !ok {
			rest = append(rest, p)
		}
	}
	return rest
}

// Hierarchical promotes in cascade: the first layer picks from the whole
// population, each later layer picks only from the previous layer's members.
// Someone strong in a lower layer's skills can reach an upper layer they are
// weak at simply by surviving the previous cut.
//
// Capacities are expected to be non-increasing (see schema.ValidateHierarchy).
// If a layer is larger than its predecessor it receives the whole previous
// layer.
//
// Unlike Flat, an individual is kept in every layer it was promoted through,
// so the member set of layer i+1 is a subset of layer i.
type Hierarchical struct{}

// Name identifies the strategy.
func (Hierarchical) Name() string { return string(ModeHierarchical) }

// Assign implements Strategy.
func (Hierarchical) Assign(pop model.Population, layers []schema.Layer) model.Assignment {
	candidates := []model.Individual(pop)
	out := make(model.Assignment, 0, len(layers))
	for _, layer := range layers {
		selected := top(rankBy(candidates, layer.RequiredSkills), layer.Capacity)
		out = append(out, model.LayerMembers{Layer: layer.Name, Members: selected})
		candidates = selected
	}
	return out
}
