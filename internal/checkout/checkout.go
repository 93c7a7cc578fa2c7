package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/safar/go-storefront-client/internal/api"
	"github.com/safar/go-storefront-client/internal/cart"
	"github.com/safar/go-storefront-client/internal/session"
)

// PaymentMethodCashOnDelivery is the only payment method the storefront
// offers; the backend expects it verbatim.
const PaymentMethodCashOnDelivery = "Cash on Delivery"

// CandidateOrder is the user-entered checkout form prior to submission.
type CandidateOrder struct {
	Name     string
	Email    string
	Location string
	Phone    string
}

// ValidationError reports checkout fields that were empty. No network call
// is made when validation fails.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Orchestrator validates a candidate order, submits it, and clears the
// cart on success. Failure leaves the cart untouched; retries are the
// user's decision and reuse the same idempotency key.
type Orchestrator struct {
	client  *api.Client
	session *session.Session
	cart    *cart.Store

	mu         sync.Mutex
	attempt    CandidateOrder
	attemptKey string
}

func New(client *api.Client, sess *session.Session, cartStore *cart.Store) *Orchestrator {
	return &Orchestrator{client: client, session: sess, cart: cartStore}
}

// Submit places the order. The payload is customer and delivery metadata
// plus the fixed payment method; the backend uses its own stored cart for
// the line items.
func (o *Orchestrator) Submit(ctx context.Context, order CandidateOrder) error {
	if !o.session.Authenticated() {
		return api.ErrUnauthenticated
	}

	if err := validate(order); err != nil {
		return err
	}

	key := o.idempotencyKey(order)

	err := o.client.PlaceOrder(ctx, api.PlaceOrderRequest{
		Name:          order.Name,
		Email:         order.Email,
		Location:      order.Location,
		Phone:         order.Phone,
		PaymentMethod: PaymentMethodCashOnDelivery,
	}, key)
	if err != nil {
		// Keep the key so a manual retry of this attempt dedupes
		// server-side even if the first submission actually landed.
		return err
	}

	o.resetKey()
	o.cart.Clear()
	return nil
}

func validate(order CandidateOrder) error {
	var missing []string
	if order.Name == "" {
		missing = append(missing, "name")
	}
	if order.Email == "" {
		missing = append(missing, "email")
	}
	if order.Location == "" {
		missing = append(missing, "location")
	}
	if order.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// idempotencyKey returns the key for the current attempt. A new key is
// generated when the candidate order changes; resubmitting the same
// candidate reuses the previous one.
func (o *Orchestrator) idempotencyKey(order CandidateOrder) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.attemptKey == "" || order != o.attempt {
		o.attemptKey = uuid.NewString()
		o.attempt = order
	}
	return o.attemptKey
}

func (o *Orchestrator) resetKey() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attemptKey = ""
	o.attempt = CandidateOrder{}
}
