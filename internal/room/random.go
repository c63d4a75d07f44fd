package room

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the randomness used for team splits and creator hand-over.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a Rand safe for concurrent use.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func newTimeSeededRand() Rand {
	return NewRand(time.Now().UnixNano())
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
