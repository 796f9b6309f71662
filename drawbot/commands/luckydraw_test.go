package commands

import (
	"testing"
	"time"

	"luckydraw-bot/drawbot/draw"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestFormatTimeLeft(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"expired", -time.Minute, "ending now"},
		{"zero", 0, "ending now"},
		{"seconds", 20 * time.Second, "under a minute"},
		{"minutes", 5 * time.Minute, "5m"},
		{"hours", 2*time.Hour + 30*time.Minute, "2h 30m"},
		{"days", 49*time.Hour + 5*time.Minute, "2d 1h 5m"},
		{"full week", 7 * 24 * time.Hour, "7d 0h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimeLeft(tt.d))
		})
	}
}

func TestHistoryEntryNoWinners(t *testing.T) {
	entry := historyEntry(draw.Campaign{
		ID:           3,
		Prize:        "Sticker Pack",
		EndedAt:      time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Participants: map[snowflake.ID]struct{}{},
		WinnerIDs:    []snowflake.ID{},
	})
	assert.Contains(t, entry, "nobody joined")
	assert.Contains(t, entry, "#3")
}

func TestHistoryEntryMentionsWinners(t *testing.T) {
	entry := historyEntry(draw.Campaign{
		ID:      4,
		Prize:   "Gift Card",
		EndedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Participants: map[snowflake.ID]struct{}{
			snowflake.ID(10): {},
			snowflake.ID(20): {},
		},
		WinnerIDs: []snowflake.ID{20},
	})
	assert.Contains(t, entry, "<@20>")
	assert.Contains(t, entry, "2 entrant(s)")
}
