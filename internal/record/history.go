package record

import "sync"

// DefaultCapacity is the number of runs kept by a History.
const DefaultCapacity = 10

// History keeps the most recent runs, newest first. It is safe for concurrent use.
type History struct {
	mu       sync.RWMutex
	capacity int
	runs     []Record
}

// NewHistory returns a history keeping at most capacity runs.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Add prepends r, evicting the oldest run beyond capacity.
func (h *History) Add(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append([]Record{r.Clone()}, h.runs...)
	if len(h.runs) > h.capacity {
		h.runs = h.runs[:h.capacity]
	}
}

// List returns copies of the stored runs, newest first.
func (h *History) List() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Record, len(h.runs))
	for i, r := range h.runs {
		out[i] = r.Clone()
	}
	return out
}

// Get returns the run with the given id.
func (h *History) Get(id string) (Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.runs {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

// Len returns the number of stored runs.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs)
}

// Ledger is an in-memory CoinSink.
type Ledger struct {
	mu      sync.Mutex
	balance int
}

// AwardCoins adds amount to the balance. Negative amounts are ignored.
func (l *Ledger) AwardCoins(amount int) error {
	if amount <= 0 {
		return nil
	}
	l.mu.Lock()
	l.balance += amount
	l.mu.Unlock()
	return nil
}

// Balance returns the accumulated coins.
func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}
