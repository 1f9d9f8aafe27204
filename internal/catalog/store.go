package catalog

import (
	"sync/atomic"
	"time"

	"github.com/starford/ansuz/internal/taxonomy"
)

// Snapshot bundles one ingestion run's catalog with its tag index. A snapshot
// is immutable once published.
type Snapshot struct {
	Catalog     *Catalog
	Tags        taxonomy.Index
	Fingerprint string
	BuiltAt     time.Time
}

// Store holds the currently published snapshot. Publish replaces it in a
// single indivisible step; readers always observe either the previous
// complete snapshot or the new one, never a partial build.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates an empty Store. Current returns nil until the first
// successful ingestion run publishes.
func NewStore() *Store {
	return &Store{}
}

// Current returns the published snapshot, or nil when no run has succeeded yet.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Publish atomically swaps in snap as the current snapshot.
func (s *Store) Publish(snap *Snapshot) {
	s.cur.Store(snap)
}
