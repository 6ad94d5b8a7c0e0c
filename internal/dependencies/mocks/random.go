package mocks

import (
	"sync"

	"github.com/mcoot/mastermind-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// fallback counts up once the queue is drained so that rejection
	// sampling callers still terminate
	fallback int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result modulo n. Once the queue is empty
// it returns 0, 1, 2, ... modulo n.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 {
		return 0
	}
	if r.intnIndex >= len(r.IntnResults) {
		result := r.fallback % n
		r.fallback++
		return result
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result % n
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.IntnResults = append(r.IntnResults, values...)
}

// QueueDigits queues each digit of code as an Intn result
func (r *MockRandom) QueueDigits(codes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, code := range codes {
		for i := 0; i < len(code); i++ {
			r.IntnResults = append(r.IntnResults, int(code[i]-'0'))
		}
	}
}

// Remaining returns how many queued results have not been consumed
func (r *MockRandom) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.IntnResults) - r.intnIndex
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.IntnResults = nil
	r.intnIndex = 0
	r.fallback = 0
}
