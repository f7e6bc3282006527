package otp

import (
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
)

// record is a single active passcode for an email address.
type record struct {
	code      string
	expiresAt time.Time
	attempts  int
}

type shard struct {
	mu      sync.Mutex
	records map[string]*record
}

// shardedStore spreads records over murmur3-hashed shards so that issue and
// verify for unrelated emails never contend on the same lock.
type shardedStore struct {
	shards []*shard
}

func newShardedStore(n int) *shardedStore {
	if n < 1 {
		n = 1
	}
	s := &shardedStore{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]*record)}
	}
	return s
}

func (s *shardedStore) shardFor(email string) *shard {
	h := murmur3.Sum64([]byte(email))
	return s.shards[h%uint64(len(s.shards))]
}

// put stores a fresh record for email, overwriting any prior one.
func (s *shardedStore) put(email string, r record) {
	sh := s.shardFor(email)
	sh.mu.Lock()
	sh.records[email] = &r
	sh.mu.Unlock()
}

// update runs fn with the shard lock held. fn receives the current record
// (nil when absent) and returns whether the record should be kept.
func (s *shardedStore) update(email string, fn func(r *record) (keep bool)) {
	sh := s.shardFor(email)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if keep := fn(sh.records[email]); !keep {
		delete(sh.records, email)
	}
}

// active counts live records; used by tests and stats.
func (s *shardedStore) active() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.records)
		sh.mu.Unlock()
	}
	return total
}
