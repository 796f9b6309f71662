package draw

import (
	"math/rand"
	"sort"

	"github.com/disgoorg/snowflake/v2"
)

// SelectWinners draws min(count, len(participants)) distinct winners uniformly
// at random without replacement. The input slice is not modified; it is sorted
// into a stable base order first so the result depends only on the membership
// of the set and the random source. An empty participant set yields an empty,
// non-nil result.
func SelectWinners(rng *rand.Rand, participants []snowflake.ID, count int) []snowflake.ID {
	if count > len(participants) {
		count = len(participants)
	}
	if count <= 0 {
		return []snowflake.ID{}
	}

	pool := make([]snowflake.ID, len(participants))
	copy(pool, participants)
	sort.Slice(pool, func(i, j int) bool { return pool[i] < pool[j] })

	winners := make([]snowflake.ID, 0, count)
	for _, idx := range rng.Perm(len(pool))[:count] {
		winners = append(winners, pool[idx])
	}
	return winners
}
