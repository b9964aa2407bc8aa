package promotion

import (
	"math/rand"
	"time"

	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/schema"
)

// Random shuffles the population and cuts it into consecutive chunks sized
// by each layer's capacity. Skills are never consulted. When capacities add
// up to more than the population, later layers get a short or empty chunk.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy drawing from rng. A nil rng is
// replaced by a clock-seeded source.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // simulation, not security
	}
	return &Random{rng: rng}
}

// Name identifies the strategy.
func (r *Random) Name() string { return "random" }

// Assign implements Strategy.
func (r *Random) Assign(pop model.Population, layers []schema.Layer) model.Assignment {
	shuffled := make([]model.Individual, len(pop))
	copy(shuffled, pop)
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out := make(model.Assignment, 0, len(layers))
	index := 0
	for _, layer := range layers {
		members := top(shuffled[index:], layer.Capacity)
		index += len(members)
		out = append(out, model.LayerMembers{Layer: layer.Name, Members: members})
	}
	return out
}
