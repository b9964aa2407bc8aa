// Package schema defines the fixed skill dimensions and the ordered
// organizational layers every simulation run is evaluated against.
package schema

import (
	"fmt"
	"strings"
)

// Skill is one axis of competence. Values index model.SkillScores.
type Skill int

// The ten skill dimensions, in display order.
const (
	Programming Skill = iota
	IQ
	Leadership
	Communication
	Scheduling
	ClientHandling
	Politics
	OrganizationBuilding
	Strategy
	Finance

	// SkillCount is the number of skill dimensions.
	SkillCount = int(iota)
)

var skillNames = [SkillCount]string{
	"Programming",
	"IQ",
	"Leadership",
	"Communication",
	"Scheduling",
	"ClientHandling",
	"Politics",
	"OrganizationBuilding",
	"Strategy",
	"Finance",
}

// String returns the display name of the skill.
func (s Skill) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Skill(%d)", int(s))
	}
	return skillNames[s]
}

// Valid reports whether s is one of the defined skill dimensions.
func (s Skill) Valid() bool {
	return s >= 0 && int(s) < SkillCount
}

// MarshalText encodes the skill by name.
func (s Skill) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSkill, int(s))
	}
	return []byte(skillNames[s]), nil
}

// UnmarshalText decodes a skill name (case-insensitive).
func (s *Skill) UnmarshalText(text []byte) error {
	parsed, err := ParseSkill(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSkill resolves a skill by name, ignoring case and surrounding space.
func ParseSkill(name string) (Skill, error) {
	name = strings.TrimSpace(name)
	for i, n := range skillNames {
		if strings.EqualFold(n, name) {
			return Skill(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSkill, name)
}

// Skills returns all skill dimensions in display order.
func Skills() []Skill {
	out := make([]Skill, SkillCount)
	for i := range out {
		out[i] = Skill(i)
	}
	return out
}

// Layer is one organizational tier. Layers are processed in slice order:
// index 0 is the entry level, later indices are promoted-into levels.
type Layer struct {
	Name           string  `json:"name" yaml:"name"`
	Capacity       int     `json:"capacity" yaml:"capacity"`
	RequiredSkills []Skill `json:"required_skills" yaml:"required_skills"`
}

// TotalCapacity sums the seat counts of layers.
func TotalCapacity(layers []Layer) int {
	total := 0
	for _, l := range layers {
		total += l.Capacity
	}
	return total
}

// DefaultLayers returns the fixed five-tier organization. A fresh slice is
// returned on every call so callers cannot alter the shared definition.
func DefaultLayers() []Layer {
	return []Layer{
		{Name: "SE", Capacity: 60, RequiredSkills: []Skill{Programming, IQ}},
		{Name: "TL", Capacity: 20, RequiredSkills: []Skill{Leadership, Communication}},
		{Name: "PL", Capacity: 10, RequiredSkills: []Skill{Scheduling, ClientHandling}},
		{Name: "部長", Capacity: 6, RequiredSkills: []Skill{Politics, OrganizationBuilding}},
		{Name: "役員", Capacity: 4, RequiredSkills: []Skill{Strategy, Finance}},
	}
}
