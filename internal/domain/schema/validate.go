package schema

import "fmt"

// Validate checks that every layer has a unique non-empty name, a positive
// capacity, and a non-empty set of known required skills.
func Validate(layers []Layer) error {
	if len(layers) == 0 {
		return &ConfigurationError{Reason: "no layers defined"}
	}
	seen := make(map[string]struct{}, len(layers))
	for _, l := range layers {
		if l.Name == "" {
			return &ConfigurationError{Reason: "layer name must not be empty"}
		}
		if _, dup := seen[l.Name]; dup {
			return &ConfigurationError{Layer: l.Name, Reason: "duplicate layer name"}
		}
		seen[l.Name] = struct{}{}

		if l.Capacity <= 0 {
			return &ConfigurationError{Layer: l.Name, Reason: fmt.Sprintf("capacity must be positive, got %d", l.Capacity)}
		}
		if len(l.RequiredSkills) == 0 {
			return &ConfigurationError{Layer: l.Name, Reason: "required skills must not be empty"}
		}
		for _, s := range l.RequiredSkills {
			if !s.Valid() {
				return &ConfigurationError{Layer: l.Name, Reason: fmt.Sprintf("references unknown skill %d", int(s))}
			}
		}
	}
	return nil
}

// ValidateHierarchy checks the cascading-promotion precondition: each layer
// selects from the previous layer's members, so capacities must not grow.
func ValidateHierarchy(layers []Layer) error {
	if err := Validate(layers); err != nil {
		return err
	}
	for i := 1; i < len(layers); i++ {
		if layers[i].Capacity > layers[i-1].Capacity {
			return &ConfigurationError{
				Layer:  layers[i].Name,
				Reason: fmt.Sprintf("capacity %d exceeds previous layer %q capacity %d", layers[i].Capacity, layers[i-1].Name, layers[i-1].Capacity),
			}
		}
	}
	return nil
}
