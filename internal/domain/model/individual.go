// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/okian/promosim/internal/domain/schema"
	"gopkg.in/yaml.v3"
)

// SkillScores holds one score in [0, 100] per skill dimension, indexed by schema.Skill.
type SkillScores [schema.SkillCount]int

// Get returns the score for skill.
func (s SkillScores) Get(skill schema.Skill) int {
	return s[skill]
}

// Sum adds the scores of the given skills.
func (s SkillScores) Sum(skills []schema.Skill) int {
	total := 0
	for _, sk := range skills {
		total += s[sk]
	}
	return total
}

// Total adds the scores of every skill dimension.
func (s SkillScores) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// MarshalJSON encodes the scores as a name -> score object.
func (s SkillScores) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, schema.SkillCount)
	for i, v := range s {
		m[schema.Skill(i).String()] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a name -> score object. Missing skills stay zero.
func (s *SkillScores) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out SkillScores
	for name, v := range m {
		sk, err := schema.ParseSkill(name)
		if err != nil {
			return err
		}
		out[sk] = v
	}
	*s = out
	return nil
}

// MarshalYAML encodes the scores as a mapping in skill display order.
func (s SkillScores) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, v := range s {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: schema.Skill(i).String()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v)},
		)
	}
	return node, nil
}

// Individual is one member of a simulated workforce. Individuals are created
// by the population generator and never mutated afterward.
type Individual struct {
	ID     int         `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Scores SkillScores `json:"skill_scores" yaml:"skill_scores"`
}

// DisplayName derives the label shown for the individual with the given id.
func DisplayName(id int) string {
	return fmt.Sprintf("社員%d", id+1)
}

// TotalScore is the sum of all skill scores.
func (p Individual) TotalScore() int {
	return p.Scores.Total()
}

// RequiredScore is the sum of the scores over the given required skills.
func (p Individual) RequiredScore(skills []schema.Skill) int {
	return p.Scores.Sum(skills)
}

type individualView struct {
	ID         int         `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	TotalScore int         `json:"total_score" yaml:"total_score"`
	Scores     SkillScores `json:"skill_scores" yaml:"skill_scores"`
}

// MarshalJSON adds the derived total score to the encoded individual.
func (p Individual) MarshalJSON() ([]byte, error) {
	return json.Marshal(individualView{ID: p.ID, Name: p.Name, TotalScore: p.TotalScore(), Scores: p.Scores})
}

// MarshalYAML adds the derived total score to the encoded individual.
func (p Individual) MarshalYAML() (interface{}, error) {
	return individualView{ID: p.ID, Name: p.Name, TotalScore: p.TotalScore(), Scores: p.Scores}, nil
}

// Population is the ordered workforce of one simulation run.
type Population []Individual

// ByID returns the individual with the given id.
func (p Population) ByID(id int) (Individual, bool) {
	if id >= 0 && id < len(p) && p[id].ID == id {
		return p[id], true
	}
	for _, ind := range p {
		if ind.ID == id {
			return ind, true
		}
	}
	return Individual{}, false
}
