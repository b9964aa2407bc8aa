package schema

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrConfiguration = errors.New("invalid layer configuration")
	ErrUnknownSkill  = errors.New("unknown skill")
)

// ConfigurationError reports a layer definition that cannot be simulated.
type ConfigurationError struct {
	Layer  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Layer == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: layer %q: %s", ErrConfiguration, e.Layer, e.Reason)
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
