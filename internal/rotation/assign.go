package rotation

import (
	"fmt"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// Assign computes one group's assignment for the week at the given offset:
// the chore at position i goes to the person at position (i + offset) mod
// len(people). The result is total over the group's chores and the same
// inputs always produce the same output.
func Assign(offset int, group *types.ChoreGroup) (types.Assignment, error) {
	numPeople := len(group.People)
	if numPeople == 0 {
		return nil, types.NewAppError(types.ErrCodeRotationEmptyRoster,
			fmt.Sprintf("group %s has no people to assign", group.ID), nil)
	}

	assignment := make(types.Assignment, len(group.Chores))
	for i, chore := range group.Chores {
		assignment[chore] = group.People[mod(i+offset, numPeople)]
	}
	return assignment, nil
}

// AssignAll computes the assignment for every group in the catalog, keyed by
// group id. Any group with an empty roster fails the whole computation; no
// partial result is returned.
func AssignAll(catalog *types.Catalog, offset int) (map[string]types.Assignment, error) {
	assignments := make(map[string]types.Assignment, len(catalog.Groups))
	for i := range catalog.Groups {
		group := &catalog.Groups[i]
		assignment, err := Assign(offset, group)
		if err != nil {
			return nil, err
		}
		assignments[group.ID] = assignment
	}
	return assignments, nil
}

// mod returns the non-negative remainder of a/b for positive b, so negative
// offsets (instants before the epoch) still index the roster validly.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
