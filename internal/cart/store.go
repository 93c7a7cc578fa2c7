package cart

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront-client/internal/api"
	"github.com/safar/go-storefront-client/internal/models"
	"github.com/safar/go-storefront-client/internal/session"
)

// Store holds the cart as last reconciled with the backend. The server
// response is the single writer of quantity and total; the client never
// increments or decrements these fields itself.
//
// Every applied refetch carries a monotonically increasing sequence number.
// A response whose sequence is older than the last applied one is stale and
// is discarded rather than merged, so two in-flight operations always
// resolve to the newest completed refetch.
type Store struct {
	client  *api.Client
	session *session.Session

	seq uint64

	mu      sync.Mutex
	items   []models.CartItem
	total   decimal.Decimal
	applied uint64

	inflight map[string]bool
}

func New(client *api.Client, sess *session.Session) *Store {
	s := &Store{
		client:   client,
		session:  sess,
		total:    decimal.Zero,
		inflight: make(map[string]bool),
	}

	// The cart lives and dies with the user.
	sess.Subscribe(func(user *models.User) {
		if user == nil {
			s.Clear()
		}
	})

	return s
}

// Snapshot returns a copy of the reconciled cart.
func (s *Store) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.Cart {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return models.Cart{Items: items, Total: s.total}
}

// Clear empties the cart locally and invalidates every refetch already in
// flight. Used on logout and after a successful order submission.
func (s *Store) Clear() {
	seq := s.nextSeq()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.total = decimal.Zero
	if seq > s.applied {
		s.applied = seq
	}
}

func (s *Store) nextSeq() uint64 {
	return atomic.AddUint64(&s.seq, 1)
}

// apply installs a refetched snapshot unless a newer one has already been
// applied.
func (s *Store) apply(seq uint64, cart models.Cart) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}

	s.items = make([]models.CartItem, len(cart.Items))
	copy(s.items, cart.Items)
	s.total = cart.Total
	s.applied = seq
	return true
}

func (s *Store) acquire(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[productID] {
		return false
	}
	s.inflight[productID] = true
	return true
}

func (s *Store) release(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, productID)
}
