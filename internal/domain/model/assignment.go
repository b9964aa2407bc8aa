package model

// LayerMembers is the ordered list of individuals placed in one layer.
type LayerMembers struct {
	Layer   string       `json:"layer" yaml:"layer"`
	Members []Individual `json:"members" yaml:"members"`
}

// Assignment maps layers to their members, in layer order.
type Assignment []LayerMembers

// Members returns the members of the named layer, or nil if the layer is absent.
func (a Assignment) Members(layer string) []Individual {
	for _, lm := range a {
		if lm.Layer == layer {
			return lm.Members
		}
	}
	return nil
}

// LayerOf returns the first layer that holds the individual with the given id.
func (a Assignment) LayerOf(id int) (string, bool) {
	for _, lm := range a {
		for _, m := range lm.Members {
			if m.ID == id {
				return lm.Layer, true
			}
		}
	}
	return "", false
}

// Assigned counts members across all layers.
func (a Assignment) Assigned() int {
	n := 0
	for _, lm := range a {
		n += len(lm.Members)
	}
	return n
}
