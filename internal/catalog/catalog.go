// Package catalog loads chore configuration files. A catalog file is a YAML
// mapping of group id to group body:
//
//	main:
//	  name: Flat
//	  chores:
//	    - bins
//	    - id: toilet-lounge
//	      name: Toilet + lounge
//	  people:
//	    - Alice
//	    - Bob
//
// Group order and chore order are preserved from the document because both
// drive the rotation. Chore entries may be a bare id or an id/name mapping;
// missing names are derived by title-casing the id.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// groupDoc is the YAML body of one group. Name is a pointer so an absent key
// can be told apart from an explicit empty string: only the absent case gets
// the title-cased default.
type groupDoc struct {
	Name   *string      `yaml:"name"`
	Chores []choreEntry `yaml:"chores"`
	People []string     `yaml:"people"`
}

// choreEntry accepts either a bare chore id or an id/name mapping.
type choreEntry struct {
	ID   string
	Name string
}

// UnmarshalYAML implements yaml.Unmarshaler for the two entry shapes.
func (e *choreEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.ID)
	case yaml.MappingNode:
		var doc struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
		}
		if err := node.Decode(&doc); err != nil {
			return err
		}
		e.ID = doc.ID
		e.Name = doc.Name
		return nil
	default:
		return fmt.Errorf("line %d: chore entry must be a string or a mapping", node.Line)
	}
}

// Load reads and parses the catalog file at path.
func Load(path string) (*types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppError(types.ErrCodeConfigFileNotFound,
				fmt.Sprintf("catalog file %s does not exist", path), err)
		}
		return nil, types.NewAppError(types.ErrCodeConfigParse,
			fmt.Sprintf("failed to read catalog file %s", path), err)
	}
	catalog, err := Parse(data)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails(map[string]any{"path": path})
		}
		return nil, err
	}
	return catalog, nil
}

// Parse decodes catalog YAML. Groups keep document order; a repeated group id
// keeps its first position and takes its last body, matching how duplicate
// mapping keys collapse.
func Parse(data []byte) (*types.Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, types.NewAppError(types.ErrCodeConfigParse, "catalog file is empty", nil)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigParse, "failed to parse catalog YAML", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, types.NewAppError(types.ErrCodeConfigParse, "catalog file is empty", nil)
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, types.NewAppError(types.ErrCodeConfigParse,
			"catalog top level must be a mapping of group id to group body", nil)
	}

	catalog := &types.Catalog{}
	position := make(map[string]int)

	// Mapping content alternates key node, value node.
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]

		var groupID string
		if err := keyNode.Decode(&groupID); err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigParse,
				fmt.Sprintf("line %d: group id must be a string", keyNode.Line), err)
		}

		var doc groupDoc
		if err := valueNode.Decode(&doc); err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigParse,
				fmt.Sprintf("group %s has an invalid body", groupID), err)
		}

		group, err := buildGroup(groupID, doc)
		if err != nil {
			return nil, err
		}

		if at, seen := position[groupID]; seen {
			catalog.Groups[at] = group
			continue
		}
		position[groupID] = len(catalog.Groups)
		catalog.Groups = append(catalog.Groups, group)
	}

	return catalog, nil
}

// buildGroup converts a decoded group body into the domain type, applying
// name defaults and collapsing duplicate chore ids the same way duplicate
// group ids collapse.
func buildGroup(id string, doc groupDoc) (types.ChoreGroup, error) {
	group := types.ChoreGroup{ID: id, People: doc.People}

	if doc.Name != nil {
		group.Name = *doc.Name
	} else {
		group.Name = titleCase(id)
	}

	position := make(map[string]int, len(doc.Chores))
	for _, entry := range doc.Chores {
		chore := types.Chore{ID: entry.ID, Name: entry.Name}
		if chore.Name == "" {
			chore.Name = titleCase(chore.ID)
		}
		if err := chore.Validate(); err != nil {
			var appErr *types.AppError
			if errors.As(err, &appErr) {
				return types.ChoreGroup{}, appErr.WithDetails(map[string]any{"group": id})
			}
			return types.ChoreGroup{}, err
		}
		if at, seen := position[chore.ID]; seen {
			group.Chores[at] = chore
			continue
		}
		position[chore.ID] = len(group.Chores)
		group.Chores = append(group.Chores, chore)
	}

	if err := group.Validate(); err != nil {
		return types.ChoreGroup{}, err
	}
	return group, nil
}

// titleCase capitalizes the letter starting each run of letters and lowers
// the rest, so "toilet-lounge" becomes "Toilet-Lounge" with no spaces added.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}
