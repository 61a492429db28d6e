package notify

import (
	"time"

	"github.com/choreworld/choreworld.github.io/internal/rotation"
)

// BinPair names the two bins that go out on a given collection night.
// The green bin goes out every week; the second bin alternates between
// red and yellow on the bins epoch's fortnight cycle.
type BinPair struct {
	First  string
	Second string
}

// BinsForWeek returns the bin pair for the week containing the given
// instant, counted from the bins epoch. Odd weeks are red weeks.
func BinsForWeek(epoch, t time.Time) BinPair {
	week := rotation.WeeksBetween(epoch, t)
	if week%2 != 0 {
		return BinPair{First: "green", Second: "red"}
	}
	return BinPair{First: "green", Second: "yellow"}
}
