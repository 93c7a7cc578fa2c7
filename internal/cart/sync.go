package cart

import (
	"context"
	"errors"

	"github.com/safar/go-storefront-client/internal/api"
	"github.com/safar/go-storefront-client/internal/models"
)

// ErrMutationInFlight means the same cart item already has an outstanding
// remote call. The double-submit guard: the triggering affordance should be
// disabled, and a second call through anyway is rejected, not queued.
var ErrMutationInFlight = errors.New("cart mutation already in flight for this item")

// Fetch reconciles the local cart from the backend. Idempotent. With no
// user present it yields an empty cart with zero total without touching the
// network; that is a user-state gate, not an error path.
func (s *Store) Fetch(ctx context.Context) (models.Cart, error) {
	if !s.session.Authenticated() {
		s.Clear()
		return s.Snapshot(), nil
	}

	seq := s.nextSeq()
	cart, err := s.client.Cart(ctx)
	if err != nil {
		return s.Snapshot(), err
	}

	s.apply(seq, cart)
	return s.Snapshot(), nil
}

// Increase adds one unit of the product remotely and reconciles from the
// server's cart. The local state is never incremented directly; on any
// failure it is left exactly as it was before the call.
func (s *Store) Increase(ctx context.Context, productID string) (models.Cart, error) {
	return s.mutate(ctx, productID, func(ctx context.Context) error {
		return s.client.AddToCart(ctx, productID)
	})
}

// Decrease removes one unit of the product remotely. Decreasing below one
// is the server's to interpret as removal.
func (s *Store) Decrease(ctx context.Context, productID string) (models.Cart, error) {
	return s.mutate(ctx, productID, func(ctx context.Context) error {
		return s.client.RemoveFromCart(ctx, productID, false)
	})
}

// RemoveCompletely deletes the whole line regardless of quantity.
func (s *Store) RemoveCompletely(ctx context.Context, productID string) (models.Cart, error) {
	return s.mutate(ctx, productID, func(ctx context.Context) error {
		return s.client.RemoveFromCart(ctx, productID, true)
	})
}

// mutate runs one remote mutation followed by a full refetch, so the pair
// appears atomic to the consumer: no intermediate, unreconciled state is
// ever observable. The sequence number is claimed before the mutation
// starts, which also invalidates any refetch that was issued earlier but
// lands later.
func (s *Store) mutate(ctx context.Context, productID string, call func(context.Context) error) (models.Cart, error) {
	if !s.session.Authenticated() {
		return s.Snapshot(), api.ErrUnauthenticated
	}

	if !s.acquire(productID) {
		return s.Snapshot(), ErrMutationInFlight
	}
	defer s.release(productID)

	seq := s.nextSeq()

	if err := call(ctx); err != nil {
		return s.Snapshot(), err
	}

	cart, err := s.client.Cart(ctx)
	if err != nil {
		// The mutation may have landed; the next successful Fetch
		// reconciles. Until then the pre-call state stands.
		return s.Snapshot(), err
	}

	s.apply(seq, cart)
	return s.Snapshot(), nil
}
