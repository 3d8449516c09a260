package events

import (
	"context"
	"fmt"
	"sync"
)

type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
	// Forget drops the counter of a partition that will not publish again.
	Forget(partitionKey string)
}

// memorySequences hands out per-partition counters starting at 1.
type memorySequences struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewSequenceRepository() SequenceRepository {
	return &memorySequences{last: make(map[string]int64)}
}

func (r *memorySequences) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[partitionKey]++
	return r.last[partitionKey], nil
}

func (r *memorySequences) Forget(partitionKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.last, partitionKey)
}
