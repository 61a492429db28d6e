package notify

import (
	"fmt"
	"strings"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// messageTitle is the ntfy notification title for every message we send.
const messageTitle = "choreworld"

// Message is one notification ready for delivery: the body text plus the
// ntfy Title and Tags headers.
type Message struct {
	Body  string
	Title string
	Tags  []string
}

// PersonChores lists one person's chores for the week.
type PersonChores struct {
	Person string
	Chores []types.Chore
}

// CollectPersonChores groups a week's assignments by person. People appear
// in the order they first pick up a chore: groups in document order, chores
// in listed order. Each person ends up with every chore assigned to them
// across all groups, so they receive a single message.
func CollectPersonChores(catalog *types.Catalog, assignments map[string]types.Assignment) []PersonChores {
	index := make(map[string]int)
	var collected []PersonChores

	for _, group := range catalog.Groups {
		assignment := assignments[group.ID]
		for _, chore := range group.Chores {
			person, ok := assignment[chore]
			if !ok {
				continue
			}
			at, seen := index[person]
			if !seen {
				at = len(collected)
				index[person] = at
				collected = append(collected, PersonChores{Person: person})
			}
			collected[at].Chores = append(collected[at].Chores, chore)
		}
	}

	return collected
}

// ChoreList renders chore names as an English list. One chore is
// lowercased, two are lowercased and joined with "and", three or more keep
// their display casing and get an Oxford comma.
func ChoreList(chores []types.Chore) string {
	names := make([]string, len(chores))
	for i, chore := range chores {
		names[i] = chore.Name
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return strings.ToLower(names[0])
	case 2:
		return strings.ToLower(names[0]) + " and " + strings.ToLower(names[1])
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// WeeklyMessage composes the Sunday-night chore notification for one person.
func WeeklyMessage(person string, chores []types.Chore) Message {
	return Message{
		Body:  fmt.Sprintf("%s, your chores for the week are: %s", person, ChoreList(chores)),
		Title: messageTitle,
		Tags:  []string{"broom", "sparkles"},
	}
}

// BinsMessage composes the collection-night reminder naming this week's
// bin pair.
func BinsMessage(person string, bins BinPair) Message {
	return Message{
		Body:  fmt.Sprintf("%s, %s and %s bins go out tonight!", person, bins.First, bins.Second),
		Title: messageTitle,
		Tags:  []string{"wastebasket", bins.First + "_square", bins.Second + "_square"},
	}
}
