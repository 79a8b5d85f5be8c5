package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/storefront/internal/app/handlers"
	"github.com/linemk/storefront/internal/cart"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	token       string
	loginErr    error
	registerErr error
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeAuthService) Register(ctx context.Context, username, password, email, realName, address string) error {
	return f.registerErr
}

type fakeCatalogService struct {
	products map[int64]*models.Product
	addID    int64
	addErr   error
}

func (f *fakeCatalogService) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", storage.ErrProductNotFound)
	}
	return p, nil
}

func (f *fakeCatalogService) AddProduct(ctx context.Context, name, category string, price int, image string) (int64, error) {
	return f.addID, f.addErr
}

type fakeCheckoutService struct {
	orderID int64
	err     error
	// captured arguments for assertions
	gotUsername string
	clearCart   bool
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, username string, c *cart.Cart, name, email, address string) (int64, error) {
	f.gotUsername = username
	if f.err != nil {
		return 0, f.err
	}
	if f.clearCart {
		c.Clear()
	}
	return f.orderID, nil
}

type fakeOrderService struct {
	orders    []*models.Order
	statusErr error
	metrics   *service.OrderMetrics
}

func (f *fakeOrderService) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderService) ListUserOrders(ctx context.Context, username string) ([]*models.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderService) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	return f.statusErr
}

func (f *fakeOrderService) Metrics(ctx context.Context) (*service.OrderMetrics, error) {
	return f.metrics, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestAuthHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token"}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "alice", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.AuthResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "test-token", resp.Token)
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	handler := handlers.AuthHandler(testLogger(), &fakeAuthService{})

	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(`{"username": "alice",`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthHandler_ValidationError(t *testing.T) {
	handler := handlers.AuthHandler(testLogger(), &fakeAuthService{})

	// password below the minimum length
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(`{"username": "alice", "password": "short"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthHandler_LoginError(t *testing.T) {
	handler := handlers.AuthHandler(testLogger(), &fakeAuthService{loginErr: assert.AnError})

	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(`{"username": "alice", "password": "password123"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegisterHandler_Conflict(t *testing.T) {
	handler := handlers.RegisterHandler(testLogger(), &fakeAuthService{
		registerErr: fmt.Errorf("register: %w", storage.ErrUserAlreadyExists),
	})

	req := httptest.NewRequest("POST", "/api/register", bytes.NewBufferString(`{"username": "bob", "password": "password123"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

// cartRouter wires a handler behind the cart session middleware the way the
// server does, returning the manager so tests can reach into the session.
func cartRouter(method, pattern string, h http.HandlerFunc) (*chi.Mux, *cart.Manager) {
	manager := cart.NewManager(time.Hour)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.CartSession(manager))
		r.Method(method, pattern, h)
	})
	return r, manager
}

func TestAddToCartHandler_Success(t *testing.T) {
	catalog := &fakeCatalogService{products: map[int64]*models.Product{
		1: {ID: 1, Name: "ProductA", Price: 100},
	}}
	router, _ := cartRouter("POST", "/api/cart/add", handlers.AddToCartHandler(testLogger(), catalog))

	req := httptest.NewRequest("POST", "/api/cart/add", bytes.NewBufferString(`{"product_id": 1}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CartResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Lines, 1)
	assert.Equal(t, 1, resp.Lines[0].Quantity)
	assert.Equal(t, 100, resp.Total)
	assert.Equal(t, "100", resp.TotalDisplay)

	// the middleware must have issued a session cookie
	cookies := rr.Result().Cookies()
	assert.NotEmpty(t, cookies)
	assert.Equal(t, jwtmiddleware.CartCookieName, cookies[0].Name)
}

func TestAddToCartHandler_UnknownProduct(t *testing.T) {
	catalog := &fakeCatalogService{products: map[int64]*models.Product{}}
	router, _ := cartRouter("POST", "/api/cart/add", handlers.AddToCartHandler(testLogger(), catalog))

	req := httptest.NewRequest("POST", "/api/cart/add", bytes.NewBufferString(`{"product_id": 42}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateCartHandler_RemovesLine(t *testing.T) {
	router, manager := cartRouter("POST", "/api/cart/update", handlers.UpdateCartHandler(testLogger()))

	id, c := manager.Create()
	c.AddItem(models.Product{ID: 1, Name: "ProductA", Price: 100})

	req := httptest.NewRequest("POST", "/api/cart/update", bytes.NewBufferString(`{"product_id": 1, "delta": -1}`))
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CartCookieName, Value: id})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CartResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Empty(t, resp.Lines)
	assert.Equal(t, 0, resp.Total)
}

func TestClearCartHandler(t *testing.T) {
	router, manager := cartRouter("POST", "/api/cart/clear", handlers.ClearCartHandler(testLogger()))

	id, c := manager.Create()
	c.AddItem(models.Product{ID: 1, Name: "ProductA", Price: 100})
	c.AddItem(models.Product{ID: 2, Name: "ProductB", Price: 50})

	req := httptest.NewRequest("POST", "/api/cart/clear", nil)
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CartCookieName, Value: id})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, c.Len())
}

func checkoutRequest(t *testing.T, sessionID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{"name": "Alice", "email": "alice@example.com", "address": "1 Main St"}`))
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CartCookieName, Value: sessionID})
	ctx := context.WithValue(req.Context(), jwtmiddleware.UsernameKey, "alice")
	return req.WithContext(ctx)
}

func TestCheckoutHandler_Success(t *testing.T) {
	svc := &fakeCheckoutService{orderID: 7, clearCart: true}
	router, manager := cartRouter("POST", "/api/checkout", handlers.CheckoutHandler(testLogger(), svc))

	id, c := manager.Create()
	c.AddItem(models.Product{ID: 1, Name: "ProductA", Price: 100})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, checkoutRequest(t, id))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "alice", svc.gotUsername)
	assert.Equal(t, 0, c.Len())

	var resp handlers.CheckoutResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.OrderID)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	svc := &fakeCheckoutService{err: fmt.Errorf("checkout: %w", service.ErrEmptyCart)}
	router, manager := cartRouter("POST", "/api/checkout", handlers.CheckoutHandler(testLogger(), svc))

	id, _ := manager.Create()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, checkoutRequest(t, id))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_IncompleteRecipient(t *testing.T) {
	svc := &fakeCheckoutService{err: fmt.Errorf("checkout: %w", service.ErrIncompleteRecipientInfo)}
	router, manager := cartRouter("POST", "/api/checkout", handlers.CheckoutHandler(testLogger(), svc))

	id, _ := manager.Create()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, checkoutRequest(t, id))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_NoUsernameInContext(t *testing.T) {
	svc := &fakeCheckoutService{}
	router, manager := cartRouter("POST", "/api/checkout", handlers.CheckoutHandler(testLogger(), svc))

	id, _ := manager.Create()
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{}`))
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CartCookieName, Value: id})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSetStatusHandler_Success(t *testing.T) {
	svc := &fakeOrderService{}
	r := chi.NewRouter()
	r.Post("/api/admin/orders/{id}/status", handlers.SetStatusHandler(testLogger(), svc))

	req := httptest.NewRequest("POST", "/api/admin/orders/7/status", bytes.NewBufferString(`{"status": "Shipped"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSetStatusHandler_UnknownLabel(t *testing.T) {
	svc := &fakeOrderService{statusErr: fmt.Errorf("set status: %w", service.ErrUnknownStatus)}
	r := chi.NewRouter()
	r.Post("/api/admin/orders/{id}/status", handlers.SetStatusHandler(testLogger(), svc))

	req := httptest.NewRequest("POST", "/api/admin/orders/7/status", bytes.NewBufferString(`{"status": "Refunded"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSetStatusHandler_NotFound(t *testing.T) {
	svc := &fakeOrderService{statusErr: fmt.Errorf("set status: %w", storage.ErrOrderNotFound)}
	r := chi.NewRouter()
	r.Post("/api/admin/orders/{id}/status", handlers.SetStatusHandler(testLogger(), svc))

	req := httptest.NewRequest("POST", "/api/admin/orders/404/status", bytes.NewBufferString(`{"status": "Shipped"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSetStatusHandler_BadID(t *testing.T) {
	svc := &fakeOrderService{}
	r := chi.NewRouter()
	r.Post("/api/admin/orders/{id}/status", handlers.SetStatusHandler(testLogger(), svc))

	req := httptest.NewRequest("POST", "/api/admin/orders/abc/status", bytes.NewBufferString(`{"status": "Shipped"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddProductHandler_ValidationError(t *testing.T) {
	handler := handlers.AddProductHandler(testLogger(), &fakeCatalogService{})

	// zero price fails the gt=0 tag
	req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewBufferString(`{"name": "lamp", "category": "office", "price": 0, "image": "https://example.com/l.png"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddProductHandler_Success(t *testing.T) {
	handler := handlers.AddProductHandler(testLogger(), &fakeCatalogService{addID: 10})

	req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewBufferString(`{"name": "lamp", "category": "office", "price": 500, "image": "https://example.com/l.png"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp handlers.AddProductResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.ID)
}

func TestMetricsHandler_Success(t *testing.T) {
	svc := &fakeOrderService{metrics: &service.OrderMetrics{
		TotalRevenue:   1450,
		RevenueDisplay: "1,450",
		OrderCount:     3,
	}}
	handler := handlers.MetricsHandler(testLogger(), svc)

	req := httptest.NewRequest("GET", "/api/admin/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp service.OrderMetrics
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1450, resp.TotalRevenue)
	assert.Equal(t, "1,450", resp.RevenueDisplay)
	assert.Equal(t, 3, resp.OrderCount)
}

func TestAdminOrdersHandler_Success(t *testing.T) {
	svc := &fakeOrderService{orders: []*models.Order{
		{ID: 2, OrderDate: time.Now(), Username: "bob", CustomerName: "Bob", TotalAmount: 900, ItemsSummary: "hub x1", Status: models.StatusShipped},
		{ID: 1, OrderDate: time.Now(), Username: "alice", CustomerName: "Alice", TotalAmount: 250, ItemsSummary: "ProductA x2", Status: models.StatusProcessing},
	}}
	handler := handlers.AdminOrdersHandler(testLogger(), svc)

	req := httptest.NewRequest("GET", "/api/admin/orders", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []handlers.OrderView
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(2), resp[0].ID)
	assert.Equal(t, "900", resp[0].TotalDisplay)
	assert.Equal(t, "Shipped", resp[0].Status)
}
