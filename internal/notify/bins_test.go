package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBinsForWeek(t *testing.T) {
	epoch := time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want BinPair
	}{
		{
			name: "epoch week is a yellow week",
			date: time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC),
			want: BinPair{First: "green", Second: "yellow"},
		},
		{
			name: "later in the epoch week",
			date: time.Date(2023, time.February, 19, 0, 0, 0, 0, time.UTC),
			want: BinPair{First: "green", Second: "yellow"},
		},
		{
			name: "following week alternates to red",
			date: time.Date(2023, time.February, 26, 0, 0, 0, 0, time.UTC),
			want: BinPair{First: "green", Second: "red"},
		},
		{
			name: "two weeks after the epoch is yellow again",
			date: time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC),
			want: BinPair{First: "green", Second: "yellow"},
		},
		{
			name: "the week before the epoch is red",
			date: time.Date(2023, time.February, 12, 0, 0, 0, 0, time.UTC),
			want: BinPair{First: "green", Second: "red"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BinsForWeek(epoch, tt.date))
		})
	}
}
