package catalog

import (
	"sync"

	"github.com/safar/go-storefront-client/internal/models"
)

// Store holds the raw product set fetched from the backend. No business
// logic beyond storage and change notification; view computation lives in
// the pure functions of this package.
type Store struct {
	mu        sync.RWMutex
	products  []models.Product
	listeners []func()
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the entire product set. Products are immutable from the
// client's perspective, so a refetch always replaces wholesale.
func (s *Store) Replace(products []models.Product) {
	s.mu.Lock()
	s.products = make([]models.Product, len(products))
	copy(s.products, products)
	listeners := s.listeners
	s.mu.Unlock()

	for _, notify := range listeners {
		notify()
	}
}

// Products returns a copy of the held set.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products
}

// Subscribe registers a callback invoked after every Replace.
func (s *Store) Subscribe(notify func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, notify)
}
