package store

import (
	"strconv"
	"sync"

	"multivendor-client/internal/util"
)

// Resource keys guarded by the sequencer
const (
	KeyCart = "cart"
)

// ProductPriceKey is the sequencer key of a product's price recalculation
func ProductPriceKey(productID int64) string {
	return "product_price:" + strconv.FormatInt(productID, 10)
}

// Sequencer tags requests per resource so that only the response to the most
// recently issued request is applied. Tags never repeat, even across Reset.
type Sequencer struct {
	mu     sync.Mutex
	last   uint64
	latest map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Issue returns a new tag for key, superseding every earlier one
func (q *Sequencer) Issue(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last++
	q.latest[key] = q.last
	return q.last
}

// IsCurrent reports whether tag is still the latest issued for key
func (q *Sequencer) IsCurrent(key string, tag uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.latest[key] == tag
}

// Discard reports whether a response tagged tag must be dropped, and counts it
func (q *Sequencer) Discard(key string, tag uint64) bool {
	if q.IsCurrent(key, tag) {
		return false
	}
	util.StaleResponsesTotal.WithLabelValues(resourceLabel(key)).Inc()
	return true
}

// Reset invalidates every outstanding tag
func (q *Sequencer) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.latest = make(map[string]uint64)
}

func resourceLabel(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
