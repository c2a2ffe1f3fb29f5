package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/storefront"
	"github.com/imrishuroy/go-storefront/internal/webhook"
)

const productsJSON = `{
  "products": [
    {"id": "P1", "name": "Grind Hoodie", "price": 150, "images": ["/img/p1.jpg"], "category": "hoodies", "sizes": ["M", "L"]},
    {"id": "P2", "name": "Core Tee", "price": 150, "images": ["/img/p2.jpg"], "category": "tshirts"}
  ],
  "categories": [
    {"id": "all", "name": "All Products", "filter": null},
    {"id": "hoodies", "name": "Hoodies", "filter": "hoodies"}
  ]
}`

type hookRecorder struct {
	mu     sync.Mutex
	bodies map[string][]json.RawMessage
}

func (h *hookRecorder) get(path string) []json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bodies[path]
}

type testServer struct {
	router *gin.Engine
	hooks  *hookRecorder
}

func newTestServer(t *testing.T, catalogStatus int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(catalogStatus)
		_, _ = io.WriteString(w, productsJSON)
	}))
	t.Cleanup(catalogSrv.Close)

	hooks := &hookRecorder{bodies: map[string][]json.RawMessage{}}
	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		hooks.mu.Lock()
		hooks.bodies[r.URL.Path] = append(hooks.bodies[r.URL.Path], b)
		hooks.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(hookSrv.Close)

	cfg := config.Default()
	cfg.Catalog.URL = catalogSrv.URL
	cfg.Webhooks.OrderURL = hookSrv.URL + "/order"
	cfg.Webhooks.ReturnURL = hookSrv.URL + "/return"
	cfg.Checkout.OrderProcessingDelay = 0
	cfg.Checkout.FormSubmitDelay = 0

	app := storefront.New(cfg, storefront.Deps{
		Loader: catalog.NewLoader(cfg.Catalog.URL, catalogSrv.Client()),
		Sink:   webhook.NewHTTPSink(hookSrv.Client(), webhook.Policy{}, nil),
	})
	_ = app.LoadCatalog(context.Background())

	return &testServer{router: NewRouter(app), hooks: hooks}
}

type reply struct {
	Code          int
	SessionID     string
	Body          map[string]json.RawMessage
	Notifications []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
}

func (ts *testServer) do(t *testing.T, method, path, sessionID string, body any) reply {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	r := reply{Code: w.Code, SessionID: w.Header().Get(SessionHeader)}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r.Body), w.Body.String())
	if raw, ok := r.Body["notifications"]; ok {
		require.NoError(t, json.Unmarshal(raw, &r.Notifications))
	}
	return r
}

func (r reply) messages() []string {
	out := []string{}
	for _, n := range r.Notifications {
		out = append(out, n.Type+": "+n.Message)
	}
	return out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type cartJSON struct {
	Items []struct {
		ID       string  `json:"id"`
		Quantity int     `json:"quantity"`
		Size     *string `json:"size"`
	} `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func TestHealthAndConfig(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)

	r := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, r.Code)

	r = ts.do(t, http.MethodGet, "/config", "", nil)
	assert.Equal(t, http.StatusOK, r.Code)
	settings := decode[map[string]bool](t, r.Body["settings"])
	assert.True(t, settings["lazyLoading"])
	assert.Equal(t, `"EGP"`, string(r.Body["currency"]))

	r = ts.do(t, http.MethodGet, "/categories", "", nil)
	assert.Len(t, decode[[]catalog.Category](t, r.Body["categories"]), 2)
}

func TestSessionIDIssuedAndReused(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)

	first := ts.do(t, http.MethodPost, "/cart/items", "", map[string]any{"productId": "P1"})
	require.Equal(t, http.StatusCreated, first.Code)
	_, err := uuid.Parse(first.SessionID)
	require.NoError(t, err)

	again := ts.do(t, http.MethodGet, "/cart", first.SessionID, nil)
	assert.Equal(t, first.SessionID, again.SessionID)
	assert.Equal(t, 1, decode[cartJSON](t, again.Body["cart"]).Count)

	bogus := ts.do(t, http.MethodGet, "/cart", "../../etc/passwd", nil)
	assert.NotEqual(t, "../../etc/passwd", bogus.SessionID)
	assert.Zero(t, decode[cartJSON](t, bogus.Body["cart"]).Count)
}

func TestSessionCookie(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/wishlist/P1/toggle", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Header().Get(SessionHeader))
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"="+id)

	r := ts.do(t, http.MethodGet, "/wishlist", id, nil)
	assert.Len(t, decode[[]map[string]any](t, r.Body["products"]), 1)
}

func TestCartRoutes(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)
	sid := uuid.NewString()

	r := ts.do(t, http.MethodPost, "/cart/items", sid, map[string]any{"productId": "P1", "quantity": 2, "size": "M"})
	require.Equal(t, http.StatusCreated, r.Code)
	assert.Equal(t, []string{"success: Grind Hoodie added to cart!"}, r.messages())
	c := decode[cartJSON](t, r.Body["cart"])
	require.Len(t, c.Items, 1)
	assert.Equal(t, "P1_M_default", c.Items[0].ID)
	require.NotNil(t, c.Items[0].Size)
	assert.Equal(t, "M", *c.Items[0].Size)

	r = ts.do(t, http.MethodPost, "/cart/items", sid, map[string]any{"productId": "nope"})
	assert.Equal(t, http.StatusNotFound, r.Code)
	assert.Equal(t, []string{"error: Product not found"}, r.messages())

	r = ts.do(t, http.MethodPost, "/cart/items/P1_M_default/adjust", sid, map[string]any{"delta": 1})
	assert.Equal(t, 3, decode[cartJSON](t, r.Body["cart"]).Count)

	r = ts.do(t, http.MethodPut, "/cart/items/P1_M_default", sid, map[string]any{"quantity": 5})
	c = decode[cartJSON](t, r.Body["cart"])
	assert.Equal(t, 5, c.Count)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(750)))

	r = ts.do(t, http.MethodPut, "/cart/items/P1_M_default", sid, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = ts.do(t, http.MethodDelete, "/cart/items/P1_M_default", sid, nil)
	assert.Empty(t, decode[cartJSON](t, r.Body["cart"]).Items)

	r = ts.do(t, http.MethodPost, "/cart/items", sid, `{"productId":`)
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, `"invalid_request_body"`, string(r.Body["error"]))
}

func TestProductsRoutes(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)
	sid := uuid.NewString()

	r := ts.do(t, http.MethodGet, "/products?category=hoodies", sid, nil)
	assert.Len(t, decode[[]map[string]any](t, r.Body["products"]), 1)

	r = ts.do(t, http.MethodGet, "/products", sid, nil)
	assert.Len(t, decode[[]map[string]any](t, r.Body["products"]), 2)

	r = ts.do(t, http.MethodGet, "/products/P2", sid, nil)
	p := decode[map[string]any](t, r.Body["product"])
	assert.Equal(t, "Core Tee", p["name"])
	assert.Equal(t, false, p["wishlisted"])

	r = ts.do(t, http.MethodGet, "/products/missing", sid, nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)
	sid := uuid.NewString()

	r := ts.do(t, http.MethodPost, "/checkout", sid, nil)
	assert.Equal(t, http.StatusConflict, r.Code)
	assert.Equal(t, []string{"warning: Your cart is empty"}, r.messages())

	ts.do(t, http.MethodPost, "/cart/items", sid, map[string]any{"productId": "P1", "quantity": 2})
	ts.do(t, http.MethodPost, "/cart/items", sid, map[string]any{"productId": "P2"})

	r = ts.do(t, http.MethodPost, "/checkout", sid, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, `"open"`, string(decode[map[string]json.RawMessage](t, r.Body["checkout"])["phase"]))

	contact := map[string]string{"firstName": "Mona", "lastName": "Adel", "email": "mona@", "phone": "+20 100 123 4567"}
	r = ts.do(t, http.MethodPost, "/checkout/contact", sid, contact)
	assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
	assert.Equal(t, []string{"error: Please enter a valid email address"}, r.messages())

	contact["email"] = "mona@example.com"
	r = ts.do(t, http.MethodPost, "/checkout/contact", sid, contact)
	require.Equal(t, http.StatusOK, r.Code)

	r = ts.do(t, http.MethodPost, "/checkout/submit", sid, map[string]string{"cardNumber": "4111", "expiryDate": "1/29", "cvv": "1", "cardName": "M"})
	assert.Equal(t, http.StatusConflict, r.Code)
	assert.Equal(t, `"wrong_checkout_step"`, string(r.Body["error"]))

	r = ts.do(t, http.MethodPost, "/checkout/shipping", sid, map[string]string{"address": "1 Nile St", "city": "Cairo", "state": "Cairo", "zipCode": "11511", "country": "EG"})
	require.Equal(t, http.StatusOK, r.Code)

	r = ts.do(t, http.MethodPost, "/checkout/submit", sid, map[string]string{"cardNumber": "4111 1111 1111 4242", "expiryDate": "12/29", "cvv": "123", "cardName": "Mona Adel"})
	require.Equal(t, http.StatusCreated, r.Code)
	confirmation := decode[map[string]any](t, r.Body["confirmation"])
	assert.Equal(t, "450.00 EGP", confirmation["total"])
	assert.Equal(t, float64(2), confirmation["items"])

	hooks := ts.hooks.get("/order")
	require.Len(t, hooks, 1)
	var sent struct {
		ID       string            `json:"id"`
		Total    decimal.Decimal   `json:"total"`
		Customer map[string]string `json:"customer"`
	}
	assert.Contains(t, string(hooks[0]), `"total":450`)
	require.NoError(t, json.Unmarshal(hooks[0], &sent))
	assert.Equal(t, confirmation["orderId"], sent.ID)
	assert.True(t, sent.Total.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, "4242", sent.Customer["cardLast4"])
	assert.NotContains(t, sent.Customer, "cvv")

	r = ts.do(t, http.MethodGet, "/cart", sid, nil)
	assert.Zero(t, decode[cartJSON](t, r.Body["cart"]).Count)

	r = ts.do(t, http.MethodDelete, "/checkout", sid, nil)
	assert.Equal(t, `"closed"`, string(decode[map[string]json.RawMessage](t, r.Body["checkout"])["phase"]))
}

func TestFormRoutes(t *testing.T) {
	ts := newTestServer(t, http.StatusOK)
	sid := uuid.NewString()

	r := ts.do(t, http.MethodPost, "/api/newsletter", sid, map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
	assert.Equal(t, []string{"error: Please enter a valid email address"}, r.messages())

	r = ts.do(t, http.MethodPost, "/api/newsletter", sid, map[string]string{"email": "fan@example.com"})
	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, []string{"success: Successfully subscribed to newsletter!"}, r.messages())

	r = ts.do(t, http.MethodPost, "/api/contact", sid, map[string]string{"name": "Mona", "email": "mona@example.com", "message": "Hello"})
	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, []string{"success: Message sent successfully! We'll get back to you soon."}, r.messages())

	r = ts.do(t, http.MethodPost, "/returns", sid, map[string]string{"orderId": "GC-1", "email": "mona@example.com", "reason": "size", "description": "<i>too</i> small"})
	assert.Equal(t, http.StatusAccepted, r.Code)
	assert.Equal(t, []string{"success: Return request submitted successfully!"}, r.messages())
	hooks := ts.hooks.get("/return")
	require.Len(t, hooks, 1)
	assert.Contains(t, string(hooks[0]), `"description":"too small"`)

	r = ts.do(t, http.MethodPost, "/exchanges", sid, map[string]string{"orderId": "GC-1", "email": "mona@example.com", "reason": "size", "newSize": "L"})
	assert.Equal(t, http.StatusAccepted, r.Code)
	assert.Equal(t, []string{"success: Exchange request submitted successfully!"}, r.messages())
	assert.Empty(t, ts.hooks.get("/exchange"))
}

func TestCatalogFailureOverHTTP(t *testing.T) {
	ts := newTestServer(t, http.StatusInternalServerError)
	sid := uuid.NewString()

	r := ts.do(t, http.MethodGet, "/products", sid, nil)
	assert.Empty(t, decode[[]map[string]any](t, r.Body["products"]))
	assert.Equal(t, []string{"error: Failed to load products. Please check your connection and try again."}, r.messages())

	r = ts.do(t, http.MethodGet, "/notifications", sid, nil)
	assert.Empty(t, r.Notifications)

	r = ts.do(t, http.MethodPost, "/catalog/reload", sid, nil)
	assert.Equal(t, http.StatusBadGateway, r.Code)

	r = ts.do(t, http.MethodGet, "/categories", "", nil)
	assert.Len(t, decode[[]catalog.Category](t, r.Body["categories"]), 1)
}
