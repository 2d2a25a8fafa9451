package app

import (
	"sync"

	"cilastudio/internal/app/model"
)

// Board holds the results of one studio session, newest first.
type Board struct {
	mu      sync.RWMutex
	results []model.ContentResult
}

func NewBoard() *Board {
	return &Board{}
}

// Add places a batch ahead of earlier results, keeping the batch's own order.
func (b *Board) Add(results ...model.ContentResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	merged := make([]model.ContentResult, 0, len(results)+len(b.results))
	merged = append(merged, results...)
	b.results = append(merged, b.results...)
}

func (b *Board) Get(id string) (model.ContentResult, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, r := range b.results {
		if r.ID == id {
			return r, true
		}
	}
	return model.ContentResult{}, false
}

// Update applies fn to the stored result in place. It reports false when id is unknown.
func (b *Board) Update(id string, fn func(*model.ContentResult)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.results {
		if b.results[i].ID == id {
			fn(&b.results[i])
			return true
		}
	}
	return false
}

func (b *Board) List() []model.ContentResult {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]model.ContentResult(nil), b.results...)
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.results)
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = nil
}
