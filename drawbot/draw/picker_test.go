package draw

import (
	"math/rand"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func ids(vals ...uint64) []snowflake.ID {
	out := make([]snowflake.ID, len(vals))
	for i, v := range vals {
		out[i] = snowflake.ID(v)
	}
	return out
}

func TestSelectWinnersEmptySet(t *testing.T) {
	winners := SelectWinners(testRNG(), nil, 3)
	require.NotNil(t, winners)
	assert.Empty(t, winners)
}

func TestSelectWinnersZeroCount(t *testing.T) {
	winners := SelectWinners(testRNG(), ids(1, 2, 3), 0)
	assert.Empty(t, winners)
}

func TestSelectWinnersCountCappedBySetSize(t *testing.T) {
	participants := ids(1, 2)
	winners := SelectWinners(testRNG(), participants, 5)

	require.Len(t, winners, 2)
	assert.ElementsMatch(t, participants, winners)
}

func TestSelectWinnersDistinct(t *testing.T) {
	participants := ids(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		winners := SelectWinners(rng, participants, 4)

		require.Len(t, winners, 4)
		seen := make(map[snowflake.ID]struct{}, len(winners))
		for _, w := range winners {
			_, dup := seen[w]
			require.False(t, dup, "winner %s drawn twice with seed %d", w, seed)
			seen[w] = struct{}{}
			assert.Contains(t, participants, w)
		}
	}
}

func TestSelectWinnersInputNotModified(t *testing.T) {
	participants := ids(5, 3, 1, 4, 2)
	SelectWinners(testRNG(), participants, 3)
	assert.Equal(t, ids(5, 3, 1, 4, 2), participants)
}

// The result must depend only on set membership and the random source, not on
// the order the caller happens to present the participants in.
func TestSelectWinnersOrderIndependent(t *testing.T) {
	a := SelectWinners(rand.New(rand.NewSource(7)), ids(1, 2, 3, 4, 5), 2)
	b := SelectWinners(rand.New(rand.NewSource(7)), ids(5, 4, 3, 2, 1), 2)
	assert.Equal(t, a, b)
}

func TestSelectWinnersEveryParticipantReachable(t *testing.T) {
	participants := ids(1, 2, 3, 4)
	drawn := make(map[snowflake.ID]int)

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		for _, w := range SelectWinners(rng, participants, 1) {
			drawn[w]++
		}
	}

	for _, p := range participants {
		assert.Greater(t, drawn[p], 0, "participant %s never drawn", p)
	}
}
