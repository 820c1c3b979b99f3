package service

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer isolates random choice behind an injectable capability. The exam
// picker uses it to spread students across equivalent exam variants; tests
// inject a deterministic stub.
type Randomizer interface {
	Intn(n int) int
}

type mathRandomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomizer() Randomizer {
	return &mathRandomizer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *mathRandomizer) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
