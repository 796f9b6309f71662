package draw

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Campaign is one lucky-draw instance: a prize, a deadline and a winner quota.
// Participant and creator identities are opaque platform snowflakes; the core
// only relies on equality and stable serialization.
type Campaign struct {
	ID           int64
	Prize        string
	CreatedAt    time.Time
	EndTime      time.Time
	WinnersCount int
	CreatorID    snowflake.ID
	CreatorName  string
	ChannelID    snowflake.ID
	MessageID    snowflake.ID // 0 until the live message has been posted
	Active       bool
	EndedAt      time.Time // zero until the draw has been resolved
	Participants map[snowflake.ID]struct{}
	WinnerIDs    []snowflake.ID
}

// Expired reports whether an active campaign is past its end time.
func (c *Campaign) Expired(now time.Time) bool {
	return c.Active && !now.Before(c.EndTime)
}

// TimeLeft returns the remaining duration, clamped to zero.
func (c *Campaign) TimeLeft(now time.Time) time.Duration {
	left := c.EndTime.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// snapshot returns a value copy that shares no mutable state with the
// registry-owned record.
func (c *Campaign) snapshot() Campaign {
	cp := *c
	cp.Participants = make(map[snowflake.ID]struct{}, len(c.Participants))
	for id := range c.Participants {
		cp.Participants[id] = struct{}{}
	}
	cp.WinnerIDs = make([]snowflake.ID, len(c.WinnerIDs))
	copy(cp.WinnerIDs, c.WinnerIDs)
	return cp
}

func (c *Campaign) clone() *Campaign {
	cp := c.snapshot()
	return &cp
}

// State is the full registry content handed to and from the persistence store.
type State struct {
	LastID int64
	Draws  map[int64]*Campaign
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Draws: make(map[int64]*Campaign)}
}
