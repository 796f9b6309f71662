package draw

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaverFlushWritesSnapshot(t *testing.T) {
	r := newTestRegistry(t)
	store := NewFileStore(t.TempDir())
	saver := NewSaver(r, store, time.Minute)

	c := mustCreate(t, r, "Gift", 10, 1)
	r.Join(c.ID, snowflake.ID(1))
	saver.Flush()

	got := store.Load()
	require.Len(t, got.Draws, 1)
	assert.Len(t, got.Draws[c.ID].Participants, 1)
}

func TestSaverCoalescesBurstyJoins(t *testing.T) {
	r := newTestRegistry(t)
	store := NewFileStore(t.TempDir())
	saver := NewSaver(r, store, 20*time.Millisecond)

	c := mustCreate(t, r, "Gift", 10, 1)
	for i := 1; i <= 30; i++ {
		r.Join(c.ID, snowflake.ID(i))
	}

	saver.Start()
	require.Eventually(t, func() bool {
		return len(store.Load().Draws) == 1
	}, time.Second, 5*time.Millisecond)
	saver.Close()

	got := store.Load()
	assert.Len(t, got.Draws[c.ID].Participants, 30)
}

func TestSaverIdleIntervalWritesNothing(t *testing.T) {
	r := newTestRegistry(t)
	dir := t.TempDir()
	store := NewFileStore(dir)
	saver := NewSaver(r, store, 10*time.Millisecond)

	// No mutations: the ticker fires but the dirty signal stays unarmed.
	saver.Start()
	time.Sleep(50 * time.Millisecond)

	status := store.Status()
	assert.False(t, status.State.Exists)

	// Close always flushes once, mutations or not.
	saver.Close()
	status = store.Status()
	assert.True(t, status.State.Exists)
}

func TestSaverCloseFlushesPendingMutations(t *testing.T) {
	r := newTestRegistry(t)
	store := NewFileStore(t.TempDir())
	saver := NewSaver(r, store, time.Hour)

	saver.Start()
	c := mustCreate(t, r, "Gift", 10, 1)
	r.Join(c.ID, snowflake.ID(1))
	saver.Close()

	got := store.Load()
	require.Len(t, got.Draws, 1)
	assert.Len(t, got.Draws[c.ID].Participants, 1)
}

func TestSaverFailedWriteReArmsDirty(t *testing.T) {
	r := newTestRegistry(t)
	// Point the store at a path that cannot be written.
	store := NewFileStore("/nonexistent/draw-data")
	saver := NewSaver(r, store, time.Minute)

	mustCreate(t, r, "Gift", 10, 1)
	select {
	case <-r.Dirty():
	default:
		t.Fatal("expected a pending dirty signal")
	}

	saver.Flush()

	select {
	case <-r.Dirty():
	default:
		t.Fatal("failed flush must re-arm the dirty signal for the next cycle")
	}
}
