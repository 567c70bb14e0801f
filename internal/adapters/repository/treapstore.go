// Package repository defines the rank index store interface and errors.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nametrends/nametrends/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: count DESC, then name ASC (deterministic).
// We implement a BST comparator where "less" means ranks earlier
// (i.e., a higher count ranks earlier). This makes in-order traversal
// produce the rank order from most to least popular, and the subtree
// size fields give O(log n) positional rank queries.

// treap node
type node struct {
	name  string
	count int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aCount, aName) should appear before (bCount, bName)
// in the rank order (higher counts first).
func less(aCount int, aName string, bCount int, bName string) bool {
	if aCount != bCount {
		return aCount > bCount // higher count ranks earlier
	}
	return aName < bName // tie-breaker by name asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// countToPriority converts a count to a heap priority. Higher counts get
// higher priorities so the hot part of the ranking stays near the root.
func countToPriority(count int) uint64 {
	const offset = uint64(1) << 32
	return uint64(count) + offset
}

func insert(n *node, name string, count int) *node {
	if n == nil {
		return &node{name: name, count: count, prio: countToPriority(count), size: 1}
	}
	if less(count, name, n.count, n.name) {
		n.left = insert(n.left, name, count)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, name, count)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, name string, count int) *node {
	if n == nil {
		return nil
	}
	if count == n.count && name == n.name {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, name, count)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, name, count)
		}
	} else if less(count, name, n.count, n.name) {
		n.left = deleteNode(n.left, name, count)
	} else {
		n.right = deleteNode(n.right, name, count)
	}
	fix(n)
	return n
}

// position returns the 1-based rank of (count, name) using subtree sizes.
func position(n *node, name string, count int) int {
	rank := 1
	for n != nil {
		if count == n.count && name == n.name {
			return rank + nsize(n.left)
		}
		if less(count, name, n.count, n.name) {
			n = n.left
		} else {
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collectTopN appends up to limit entries in rank order (highest counts first).
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	// In-order traversal: left subtree holds earlier ranks.
	collectTopN(n.left, limit, out)

	if len(*out) < limit {
		*out = append(*out, Entry{Name: n.name, Count: n.count})
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// Snapshot is an immutable view of a fully built index, published once the
// dataset load is complete so reads skip the tree entirely.
type Snapshot struct {
	// RankByName answers rank lookups in O(1).
	RankByName map[string]int

	// Ordered holds every entry in rank order.
	Ordered []Entry
}

// TreapStore implements Store for one (year, sex) rank index.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byName map[string]int // name -> count

	// snapshot is an atomic pointer to a Snapshot struct
	snapshot atomic.Pointer[Snapshot]
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byName: make(map[string]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Add implements Store.Add with O(log n) expected time.
func (s *TreapStore) Add(ctx context.Context, name string, count int) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordIndexUpdateLatency(float64(latency))
	}()

	if count < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_count")
		return ErrInvalidCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byName[name]; ok {
		if old == count {
			return nil
		}
		s.root = deleteNode(s.root, name, old)
	}
	s.byName[name] = count
	s.root = insert(s.root, name, count)

	// Any prior snapshot is stale now.
	s.snapshot.Store(nil)
	return nil
}

// Freeze publishes an immutable snapshot of the current index so subsequent
// reads are O(1)/O(n) map and slice operations.
func (s *TreapStore) Freeze(ctx context.Context) {
	s.mu.RLock()
	ordered := make([]Entry, 0, len(s.byName))
	collectTopN(s.root, len(s.byName), &ordered)
	s.mu.RUnlock()

	rankByName := make(map[string]int, len(ordered))
	for i := range ordered {
		ordered[i].Rank = i + 1
		rankByName[ordered[i].Name] = i + 1
	}

	s.snapshot.Store(&Snapshot{RankByName: rankByName, Ordered: ordered})
}

// Rank returns the current rank and count for a name in O(log n)
// (O(1) once frozen).
func (s *TreapStore) Rank(ctx context.Context, name string) (Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordIndexQueryLatency(float64(latency))
	}()

	if snap := s.snapshot.Load(); snap != nil {
		rank, ok := snap.RankByName[name]
		if !ok {
			metrics.RecordErrorByComponent("repository", "not_found")
			return Entry{}, ErrNotFound
		}
		return snap.Ordered[rank-1], nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count, ok := s.byName[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	rank := position(s.root, name, count)
	if rank == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{Rank: rank, Name: name, Count: count}, nil
}

// TopN returns the top N entries ordered by count desc, name asc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordIndexQueryLatency(float64(latency))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	if snap := s.snapshot.Load(); snap != nil {
		if n > len(snap.Ordered) {
			n = len(snap.Ordered)
		}
		out := make([]Entry, n)
		copy(out, snap.Ordered[:n])
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// All returns every entry in rank order.
func (s *TreapStore) All(ctx context.Context) []Entry {
	if snap := s.snapshot.Load(); snap != nil {
		out := make([]Entry, len(snap.Ordered))
		copy(out, snap.Ordered)
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.byName))
	collectTopN(s.root, len(s.byName), &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Count returns the total number of names in the index.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
