package draw

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// JoinStatus is the outcome of a join attempt. The three negative outcomes are
// mutually exclusive so the caller can render the right feedback.
type JoinStatus int

const (
	Joined JoinStatus = iota
	JoinAlreadyEntered
	JoinIsCreator
	JoinNotFound
)

// Registry is the authoritative in-memory map of campaigns. Every mutation
// (id allocation, joins, the active->inactive transition) happens under one
// mutex; campaign volume is low, so a single writer section is preferred over
// finer locking.
type Registry struct {
	mu     sync.Mutex
	draws  map[int64]*Campaign
	lastID int64
	loc    *time.Location
	rng    *rand.Rand
	dirty  chan struct{}
}

// NewRegistry creates an empty registry. Timestamps on new and restored
// campaigns are normalized to loc.
func NewRegistry(loc *time.Location) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	return &Registry{
		draws: make(map[int64]*Campaign),
		loc:   loc,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		dirty: make(chan struct{}, 1),
	}
}

// Restore replaces the registry content with a loaded state. Meant to run once
// at startup, before the schedulers are started.
func (r *Registry) Restore(st *State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID = st.LastID
	r.draws = make(map[int64]*Campaign, len(st.Draws))
	for id, c := range st.Draws {
		cp := c.clone()
		cp.CreatedAt = cp.CreatedAt.In(r.loc)
		cp.EndTime = cp.EndTime.In(r.loc)
		if !cp.EndedAt.IsZero() {
			cp.EndedAt = cp.EndedAt.In(r.loc)
		}
		r.draws[id] = cp
		// The persisted counter must never fall behind the records it covers,
		// or a restart would reissue an id.
		if id > r.lastID {
			r.lastID = id
		}
	}
}

// Dirty exposes the coalescing save signal. The channel holds at most one
// pending signal; the save scheduler drains it once per interval.
func (r *Registry) Dirty() <-chan struct{} {
	return r.dirty
}

// MarkDirty arms the save signal without blocking.
func (r *Registry) MarkDirty() {
	select {
	case r.dirty <- struct{}{}:
	default:
	}
}

// Create validates the inputs and registers a new active campaign. A rejected
// call consumes no id.
func (r *Registry) Create(prize string, minutes int, winners int, creatorID snowflake.ID, creatorName string, channelID snowflake.ID) (Campaign, error) {
	prize = strings.TrimSpace(prize)
	if prize == "" {
		return Campaign{}, ErrEmptyPrize
	}
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return Campaign{}, ErrInvalidDuration
	}
	if winners < MinWinnersCount || winners > MaxWinnersCount {
		return Campaign{}, ErrInvalidWinnersCount
	}

	now := time.Now().In(r.loc)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	c := &Campaign{
		ID:           r.lastID,
		Prize:        prize,
		CreatedAt:    now,
		EndTime:      now.Add(time.Duration(minutes) * time.Minute),
		WinnersCount: winners,
		CreatorID:    creatorID,
		CreatorName:  creatorName,
		ChannelID:    channelID,
		Active:       true,
		Participants: make(map[snowflake.ID]struct{}),
		WinnerIDs:    []snowflake.ID{},
	}
	r.draws[c.ID] = c
	r.MarkDirty()
	return c.snapshot(), nil
}

// Join performs an atomic check-then-add and returns the participant count
// after the attempt. Joining an ended or unknown draw reports JoinNotFound;
// from the participant's point of view the draw is simply gone.
func (r *Registry) Join(id int64, userID snowflake.ID) (int, JoinStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.draws[id]
	if !ok || !c.Active {
		return 0, JoinNotFound
	}
	if userID == c.CreatorID {
		return len(c.Participants), JoinIsCreator
	}
	if _, in := c.Participants[userID]; in {
		return len(c.Participants), JoinAlreadyEntered
	}
	c.Participants[userID] = struct{}{}
	r.MarkDirty()
	return len(c.Participants), Joined
}

// SetMessageID records the live message reference once the campaign message
// has been posted.
func (r *Registry) SetMessageID(id int64, messageID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.draws[id]; ok {
		c.MessageID = messageID
		r.MarkDirty()
	}
}

// Get returns a snapshot of a single campaign.
func (r *Registry) Get(id int64) (Campaign, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.draws[id]
	if !ok {
		return Campaign{}, false
	}
	return c.snapshot(), true
}

// ListActive returns snapshots of all active campaigns, id ascending.
func (r *Registry) ListActive() []Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Campaign
	for _, c := range r.draws {
		if c.Active {
			out = append(out, c.snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListEnded returns snapshots of the most recently ended campaigns, newest
// first. The limit is clamped to [1, MaxHistoryLimit].
func (r *Registry) ListEnded(limit int) []Campaign {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Campaign
	for _, c := range r.draws {
		if !c.Active {
			out = append(out, c.snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// All returns snapshots of every campaign, id ascending.
func (r *Registry) All() []Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Campaign, 0, len(r.draws))
	for _, c := range r.draws {
		out = append(out, c.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Expired returns the ids of active campaigns past their end time, id
// ascending. The expiry scheduler uses this as its sweep snapshot.
func (r *Registry) Expired(now time.Time) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, c := range r.draws {
		if c.Expired(now) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// End performs the one shared active->inactive transition: it flips the
// campaign inactive, draws the winners and stamps the end time, all under the
// registry mutex. Both natural expiry and force-end go through here, so a
// campaign can be resolved at most once; the loser of a race gets
// ErrAlreadyEnded and must not re-announce.
func (r *Registry) End(id int64) (Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.draws[id]
	if !ok {
		return Campaign{}, ErrNotFound
	}
	if !c.Active {
		return Campaign{}, ErrAlreadyEnded
	}
	c.Active = false
	c.EndedAt = time.Now().In(r.loc)
	c.WinnerIDs = SelectWinners(r.rng, participantSlice(c.Participants), c.WinnersCount)
	r.MarkDirty()
	return c.snapshot(), nil
}

// Counts returns the number of active and ended campaigns.
func (r *Registry) Counts() (active int, ended int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.draws {
		if c.Active {
			active++
		} else {
			ended++
		}
	}
	return active, ended
}

// Snapshot returns a deep copy of the full registry content for persistence.
func (r *Registry) Snapshot() *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := &State{
		LastID: r.lastID,
		Draws:  make(map[int64]*Campaign, len(r.draws)),
	}
	for id, c := range r.draws {
		st.Draws[id] = c.clone()
	}
	return st
}

func participantSlice(set map[snowflake.ID]struct{}) []snowflake.ID {
	out := make([]snowflake.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
