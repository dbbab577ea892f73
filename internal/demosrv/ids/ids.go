// Package ids generates identifiers for the demo backend.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ComplaintNumber returns a short human-facing complaint reference like
// "RG-5K3QT9". References sort roughly by creation time.
func ComplaintNumber() string {
	id := New()
	return "RG-" + id[len(id)-6:]
}
