// Package apitest provides an in-process stand-in for the storefront
// backend. Tests drive the real client against it over HTTP, cookie
// credential included.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront-client/internal/models"
)

const sessionCookie = "storefront_session"

type cartHold struct {
	arrived chan struct{}
	release chan struct{}
}

// Server mimics the backend's REST surface: catalog, profile, cart
// mutations with server-computed totals, order placement and history.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	products  []models.Product
	user      *models.User
	password  string
	loggedIn  bool
	cartItems []models.CartItem
	cartTotal decimal.Decimal
	orders    []models.Order
	requests  map[string]int
	failures  map[string]int
	orderKeys []string
	hold      *cartHold
}

func New() *Server {
	s := &Server{
		cartTotal: decimal.Zero,
		requests:  make(map[string]int),
		failures:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// SeedProducts sets the catalog served by GET /products.
func (s *Server) SeedProducts(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product(nil), products...)
}

// SeedAccount registers the single account the server accepts.
func (s *Server) SeedAccount(user models.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.password = password
}

// SeedCart sets the server-side cart and recomputes its total.
func (s *Server) SeedCart(items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartItems = append([]models.CartItem(nil), items...)
	s.recomputeTotal()
}

// OverrideCartTotal forces the reported total, regardless of the items.
// Lets tests prove the client trusts the server's total over its own math.
func (s *Server) OverrideCartTotal(total decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartTotal = total
}

// FailNext makes the next n requests to path fail with a 500.
func (s *Server) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

// Requests returns how many requests hit path.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// Cart returns the server-side cart state.
func (s *Server) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartSnapshotLocked()
}

// Orders returns the orders placed so far.
func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// OrderKeys returns the Idempotency-Key header of every placeorder call.
func (s *Server) OrderKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.orderKeys...)
}

// HoldNextCartGet delays the next GET /user/cart response. The response
// body is rendered from the cart state at arrival time, so releasing it
// later serves a genuinely stale snapshot. arrived is closed once the
// request is in the handler; release lets it finish.
func (s *Server) HoldNextCartGet() (arrived <-chan struct{}, release func()) {
	h := &cartHold{arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.hold = h
	s.mu.Unlock()
	return h.arrived, func() { close(h.release) }
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	s.mu.Lock()
	s.requests[path]++
	if path == "/order/placeorder" {
		s.orderKeys = append(s.orderKeys, r.Header.Get("Idempotency-Key"))
	}
	if n := s.failures[path]; n > 0 {
		s.failures[path] = n - 1
		s.mu.Unlock()
		http.Error(w, "induced failure", http.StatusInternalServerError)
		return
	}
	s.mu.Unlock()

	switch {
	case path == "/products" && r.Method == http.MethodGet:
		s.mu.Lock()
		products := append([]models.Product(nil), s.products...)
		s.mu.Unlock()
		respondJSON(w, http.StatusOK, products)

	case path == "/user/login" && r.Method == http.MethodPost:
		s.handleLogin(w, r)

	case path == "/user/register" && r.Method == http.MethodPost:
		s.handleRegister(w, r)

	case path == "/user/logout" && r.Method == http.MethodPost:
		s.mu.Lock()
		s.loggedIn = false
		s.mu.Unlock()
		respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})

	case path == "/user/profile" && r.Method == http.MethodGet:
		if !s.authed(r) {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		user := *s.user
		s.mu.Unlock()
		respondJSON(w, http.StatusOK, user)

	case path == "/user/cart" && r.Method == http.MethodGet:
		s.handleCartGet(w, r)

	case strings.HasPrefix(path, "/user/addtocart/") && r.Method == http.MethodPost:
		s.handleAddToCart(w, r, strings.TrimPrefix(path, "/user/addtocart/"))

	case strings.HasPrefix(path, "/user/removefromcart/") && r.Method == http.MethodPost:
		s.handleRemoveFromCart(w, r, strings.TrimPrefix(path, "/user/removefromcart/"))

	case path == "/order/placeorder" && r.Method == http.MethodPost:
		s.handlePlaceOrder(w, r)

	case path == "/user/orders" && r.Method == http.MethodGet:
		if !s.authed(r) {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		orders := append([]models.Order(nil), s.orders...)
		s.mu.Unlock()
		respondJSON(w, http.StatusOK, orders)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	ok := s.user != nil && req.Email == s.user.Email && req.Password == s.password
	if ok {
		s.loggedIn = true
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "token", Path: "/"})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.user = &models.User{ID: "user-1", FullName: req.FullName, Email: req.Email}
	s.password = req.Password
	s.loggedIn = true
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "token", Path: "/"})
	respondJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	if !s.authed(r) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	body := s.cartSnapshotLocked()
	hold := s.hold
	s.hold = nil
	s.mu.Unlock()

	if hold != nil {
		close(hold.arrived)
		<-hold.release
	}

	respondJSON(w, http.StatusOK, body)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request, productID string) {
	if !s.authed(r) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var product *models.Product
	for i := range s.products {
		if s.products[i].ID == productID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	for i := range s.cartItems {
		if s.cartItems[i].ProductID == productID {
			s.cartItems[i].Quantity++
			s.recomputeTotal()
			respondJSON(w, http.StatusOK, map[string]string{"message": "added"})
			return
		}
	}

	s.cartItems = append(s.cartItems, models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
		Image:     product.Image,
	})
	s.recomputeTotal()
	respondJSON(w, http.StatusOK, map[string]string{"message": "added"})
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request, productID string) {
	if !s.authed(r) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req struct {
		RemoveCompletely bool `json:"removeCompletely"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cartItems {
		if s.cartItems[i].ProductID != productID {
			continue
		}
		if req.RemoveCompletely || s.cartItems[i].Quantity <= 1 {
			s.cartItems = append(s.cartItems[:i], s.cartItems[i+1:]...)
		} else {
			s.cartItems[i].Quantity--
		}
		s.recomputeTotal()
		respondJSON(w, http.StatusOK, map[string]string{"message": "removed"})
		return
	}

	http.Error(w, "item not in cart", http.StatusNotFound)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	if !s.authed(r) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Location      string `json:"location"`
		Phone         string `json:"phone"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Location == "" || req.Phone == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := models.Order{
		ID:        fmt.Sprintf("order-%d", len(s.orders)+1),
		Status:    models.OrderStatusPending,
		Total:     s.cartTotal,
		OrderDate: time.Now().UTC(),
	}
	for _, item := range s.cartItems {
		order.Items = append(order.Items, models.OrderItem{
			Quantity: item.Quantity,
			Product: models.OrderProductSnapshot{
				ID:    item.ProductID,
				Name:  item.Name,
				Price: item.Price,
				Image: item.Image,
			},
		})
	}
	s.orders = append(s.orders, order)
	s.cartItems = nil
	s.recomputeTotal()

	respondJSON(w, http.StatusCreated, map[string]string{"message": "order placed"})
}

func (s *Server) authed(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Server) cartSnapshotLocked() models.Cart {
	return models.Cart{
		Items: append([]models.CartItem(nil), s.cartItems...),
		Total: s.cartTotal,
	}
}

func (s *Server) recomputeTotal() {
	total := decimal.Zero
	for _, item := range s.cartItems {
		total = total.Add(item.Subtotal())
	}
	s.cartTotal = total
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
