package draw

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnouncer struct {
	mu        sync.Mutex
	announced []Campaign
	err       error
	panics    bool
}

func (f *fakeAnnouncer) AnnounceResult(_ context.Context, ended Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("announcer blew up")
	}
	f.announced = append(f.announced, ended)
	return f.err
}

func (f *fakeAnnouncer) results() []Campaign {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Campaign, len(f.announced))
	copy(out, f.announced)
	return out
}

// expire rewinds a campaign's end time so the next sweep picks it up.
func expire(t *testing.T, r *Registry, id int64) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.draws[id]
	require.True(t, ok)
	c.EndTime = time.Now().Add(-time.Minute)
}

func TestSweepEndsExpiredCampaigns(t *testing.T) {
	r := newTestRegistry(t)
	c := mustCreate(t, r, "Gift", 1, 2)
	r.Join(c.ID, snowflake.ID(1))
	r.Join(c.ID, snowflake.ID(2))
	expire(t, r, c.ID)

	announcer := &fakeAnnouncer{}
	s := NewScheduler(r, announcer, time.Minute)
	s.Sweep(context.Background())

	got, ok := r.Get(c.ID)
	require.True(t, ok)
	assert.False(t, got.Active)
	assert.Len(t, got.WinnerIDs, 2)

	results := announcer.results()
	require.Len(t, results, 1)
	assert.Equal(t, c.ID, results[0].ID)
	assert.Equal(t, "Gift", results[0].Prize)
	assert.Len(t, results[0].Participants, 2)
}

func TestSweepSkipsRunningCampaigns(t *testing.T) {
	r := newTestRegistry(t)
	mustCreate(t, r, "Gift", 60, 1)

	announcer := &fakeAnnouncer{}
	NewScheduler(r, announcer, time.Minute).Sweep(context.Background())

	assert.Empty(t, announcer.results())
	active, ended := r.Counts()
	assert.Equal(t, 1, active)
	assert.Equal(t, 0, ended)
}

// A campaign force-ended between the expiry snapshot and the transition must
// not be announced a second time by the sweep.
func TestSweepIdempotentAgainstForceEnd(t *testing.T) {
	r := newTestRegistry(t)
	c := mustCreate(t, r, "Gift", 1, 1)
	r.Join(c.ID, snowflake.ID(1))
	expire(t, r, c.ID)

	_, err := r.End(c.ID)
	require.NoError(t, err)

	announcer := &fakeAnnouncer{}
	NewScheduler(r, announcer, time.Minute).Sweep(context.Background())
	assert.Empty(t, announcer.results())
}

func TestSweepSecondRunAnnouncesNothing(t *testing.T) {
	r := newTestRegistry(t)
	c := mustCreate(t, r, "Gift", 1, 1)
	r.Join(c.ID, snowflake.ID(1))
	expire(t, r, c.ID)

	announcer := &fakeAnnouncer{}
	s := NewScheduler(r, announcer, time.Minute)
	s.Sweep(context.Background())
	s.Sweep(context.Background())

	assert.Len(t, announcer.results(), 1)
}

func TestSweepSurvivesAnnouncerError(t *testing.T) {
	r := newTestRegistry(t)
	first := mustCreate(t, r, "First", 1, 1)
	second := mustCreate(t, r, "Second", 1, 1)
	expire(t, r, first.ID)
	expire(t, r, second.ID)

	announcer := &fakeAnnouncer{err: errors.New("transport down")}
	NewScheduler(r, announcer, time.Minute).Sweep(context.Background())

	// Both campaigns are still resolved even though every announcement failed.
	_, ended := r.Counts()
	assert.Equal(t, 2, ended)
	assert.Len(t, announcer.results(), 2)
}

func TestSweepContainsPanic(t *testing.T) {
	r := newTestRegistry(t)
	c := mustCreate(t, r, "Gift", 1, 1)
	expire(t, r, c.ID)

	announcer := &fakeAnnouncer{panics: true}
	s := NewScheduler(r, announcer, time.Minute)
	require.NotPanics(t, func() { s.Sweep(context.Background()) })

	// The campaign was resolved before the panic; the next sweep still runs
	// and has nothing left to do.
	got, ok := r.Get(c.ID)
	require.True(t, ok)
	assert.False(t, got.Active)
	require.NotPanics(t, func() { s.Sweep(context.Background()) })
}

func TestSchedulerStartAndShutdown(t *testing.T) {
	r := newTestRegistry(t)
	c := mustCreate(t, r, "Gift", 1, 1)
	r.Join(c.ID, snowflake.ID(1))
	expire(t, r, c.ID)

	announcer := &fakeAnnouncer{}
	s := NewScheduler(r, announcer, 10*time.Millisecond)
	s.Start()

	require.Eventually(t, func() bool {
		return len(announcer.results()) == 1
	}, time.Second, 5*time.Millisecond)

	s.Shutdown()
}
