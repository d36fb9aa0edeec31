package brackets

import (
	"math/rand"
	"sync"
	"time"

	"github.com/kmadiyev/kumite/models"
)

// ShufflePolicy decides the seeding order fed into BuildInitialRound. The
// engine never reorders participants itself.
type ShufflePolicy func([]*models.Participant)

// RandomShuffle returns the default policy: uniform random seeding. A zero
// seed picks one from the clock.
func RandomShuffle(seed int64) ShufflePolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func(participants []*models.Participant) {
		mu.Lock()
		defer mu.Unlock()
		rng.Shuffle(len(participants), func(i, j int) {
			participants[i], participants[j] = participants[j], participants[i]
		})
	}
}

// KeepOrder is a no-op policy, used when the caller has already ordered the
// roster (and in deterministic tests).
func KeepOrder([]*models.Participant) {}
