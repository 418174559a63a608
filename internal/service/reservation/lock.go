package reservation

import (
	"sync"

	"github.com/google/uuid"
)

// productLocks serializes capacity-increasing writes per treatment product.
// Two concurrent booking attempts against the same product must not both
// pass the capacity check; everything else (reads, other products) stays
// lock-free.
type productLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Acquire locks the product's mutex and returns the unlock function.
func (p *productLocks) Acquire(productID uuid.UUID) func() {
	p.mu.Lock()
	lock, ok := p.locks[productID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[productID] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
