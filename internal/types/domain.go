package types

import (
	"fmt"
)

// Chore is a single recurring task within a group. It is an immutable value:
// two chores are equal exactly when both their ID and Name match, so a Chore
// can key a map.
type Chore struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Validate implements the Validator interface for Chore.
func (c Chore) Validate() error {
	if c.ID == "" {
		return NewAppError(ErrCodeConfigInvalidChore, "chore id must not be empty", nil)
	}
	return nil
}

// ChoreGroup is an ordered roster of people sharing an ordered list of
// chores. Both orders are load-bearing: chore position and roster position
// together determine who does what in a given week.
type ChoreGroup struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Chores []Chore  `json:"chores"`
	People []string `json:"people"`
}

// Validate implements the Validator interface for ChoreGroup.
func (g *ChoreGroup) Validate() error {
	if g.ID == "" {
		return NewAppError(ErrCodeConfigMissingField, "group id must not be empty", nil)
	}
	if len(g.Chores) == 0 {
		return NewAppError(ErrCodeConfigMissingField,
			fmt.Sprintf("group %s has no chores", g.ID), nil)
	}
	if len(g.People) == 0 {
		return NewAppError(ErrCodeConfigMissingField,
			fmt.Sprintf("group %s has no people", g.ID), nil)
	}
	return nil
}

// Chore returns the group's chore with the given id, if present.
func (g *ChoreGroup) Chore(id string) (Chore, bool) {
	for _, c := range g.Chores {
		if c.ID == id {
			return c, true
		}
	}
	return Chore{}, false
}

// Catalog is the parsed contents of one chore configuration file. Groups
// appear in document order.
type Catalog struct {
	Groups []ChoreGroup `json:"groups"`
}

// Group returns the group with the given id, if present.
func (c *Catalog) Group(id string) (*ChoreGroup, bool) {
	for i := range c.Groups {
		if c.Groups[i].ID == id {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// People returns the de-duplicated union of every group's roster, in first
// appearance order.
func (c *Catalog) People() []string {
	seen := make(map[string]struct{})
	var people []string
	for _, g := range c.Groups {
		for _, p := range g.People {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			people = append(people, p)
		}
	}
	return people
}

// Assignment maps each chore in a group to the person responsible for it
// this week. It is total over the group's chores.
type Assignment map[Chore]string

// EndpointTable maps a configuration source (e.g. "chch.yaml") to each
// rostered person's private notification URL.
type EndpointTable map[string]map[string]string
