package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productsvc "github.com/angelmondragon/inventory-backend/internal/products"
	"github.com/angelmondragon/inventory-backend/pkg/config"
	"github.com/angelmondragon/inventory-backend/pkg/db/dbtest"
	"github.com/angelmondragon/inventory-backend/pkg/logger"
	"github.com/angelmondragon/inventory-backend/pkg/metrics"
	"github.com/angelmondragon/inventory-backend/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubState struct {
	err error
}

func (s stubState) Err() error {
	return s.err
}

type countingLimiter struct {
	hits map[string]int64
}

func (c *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	c.hits[scope]++
	return c.hits[scope] <= limit, c.hits[scope], nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test"},
		CORS: config.CORSConfig{AllowedOrigins: "http://localhost:3000"},
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	catalog := productsvc.NewCatalog(productsvc.DefaultSeed())
	state := productsvc.Bootstrap(ctx, productsvc.BootstrapParams{Sessions: client, Seed: catalog.Items()})
	require.False(t, state.Degraded())

	svc, err := productsvc.NewService(productsvc.ServiceParams{Sessions: client, Catalog: catalog})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return NewRouter(testConfig(), logger.Nop(), client, state, reg, metrics.NewHTTPMetrics(reg), svc, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestIndex(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Inventory Management System", decode[types.MessageBody](t, rec).Message)
}

func TestListReturnsSeedProducts(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, productsvc.DefaultSeed(), decode[[]productsvc.ProductDTO](t, rec))
}

func TestGetProduct(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, productsvc.DefaultSeed()[0], decode[productsvc.ProductDTO](t, rec))

	rec = do(t, h, http.MethodGet, "/products/404", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product not found", decode[types.ErrorBody](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/products/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[types.ErrorEnvelope](t, rec).Error.Code)
}

func TestCreateThenGetStaysNotFound(t *testing.T) {
	h := newTestServer(t)
	body := `{"id":5,"name":"Keyboard","description":"Mechanical","price":89.5,"quantity":0}`

	rec := do(t, h, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, productsvc.ProductDTO{ID: 5, Name: "Keyboard", Description: "Mechanical", Price: 89.5}, decode[productsvc.ProductDTO](t, rec))

	rec = do(t, h, http.MethodGet, "/products/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product not found", decode[types.ErrorBody](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/products", "")
	assert.Len(t, decode[[]productsvc.ProductDTO](t, rec), 5)
}

func TestCreateIgnoresUnknownFields(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/products", `{"id":7,"name":"K","description":"d","price":1,"quantity":1,"sku":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, productsvc.ProductDTO{ID: 7, Name: "K", Description: "d", Price: 1, Quantity: 1}, decode[productsvc.ProductDTO](t, rec))

	rec = do(t, h, http.MethodGet, "/products", "")
	assert.Contains(t, decode[[]productsvc.ProductDTO](t, rec), productsvc.ProductDTO{ID: 7, Name: "K", Description: "d", Price: 1, Quantity: 1})

	rec = do(t, h, http.MethodPut, "/products/3", `{"id":3,"name":"H","description":"d","price":2,"quantity":4,"color":"red"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "H", decode[productsvc.ProductDTO](t, rec).Name)
}

func TestCreateRequiresJSONTypes(t *testing.T) {
	h := newTestServer(t)
	for _, body := range []string{
		`{"id":"9","name":"K","description":"d","price":1,"quantity":1}`,
		`{"id":9,"name":"K","description":"d","price":1,"quantity":10.0}`,
	} {
		rec := do(t, h, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
	}
	rec := do(t, h, http.MethodGet, "/products", "")
	assert.Len(t, decode[[]productsvc.ProductDTO](t, rec), 4)
}

func TestCreateRejectsIncompleteBody(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/products", `{"id":6,"name":"Cable"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decode[types.ErrorEnvelope](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "quantity")
	assert.Contains(t, details, "description")
}

func TestCreateDuplicateIsServerError(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/products", `{"id":1,"name":"Dup","description":"d","price":1,"quantity":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode[types.ErrorEnvelope](t, rec).Error.Code)
}

func TestUpdateProduct(t *testing.T) {
	h := newTestServer(t)
	body := `{"id":2,"name":"Smartphone Pro","description":"Updated","price":799.99,"quantity":30}`
	want := productsvc.ProductDTO{ID: 2, Name: "Smartphone Pro", Description: "Updated", Price: 799.99, Quantity: 30}

	rec := do(t, h, http.MethodPut, "/products/2", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, decode[productsvc.ProductDTO](t, rec))

	rec = do(t, h, http.MethodGet, "/products/2", "")
	assert.Equal(t, want, decode[productsvc.ProductDTO](t, rec))

	rec = do(t, h, http.MethodPut, "/products/9", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product not found", decode[types.ErrorBody](t, rec).Error)
}

func TestDeleteProductTwice(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted", decode[types.MessageBody](t, rec).Message)

	rec = do(t, h, http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product not found", decode[types.ErrorBody](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/products", "")
	assert.Len(t, decode[[]productsvc.ProductDTO](t, rec), 3)
}

func TestHealthEndpoints(t *testing.T) {
	build := func(state stubState, pinger stubPinger) http.Handler {
		return NewRouter(testConfig(), logger.Nop(), pinger, state, nil, metrics.NewHTTPMetrics(nil), nil, nil)
	}

	rec := do(t, build(stubState{}, stubPinger{}), http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Inventory-Env"))

	rec = do(t, build(stubState{}, stubPinger{}), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, build(stubState{err: errors.New("could not create tables")}, stubPinger{}), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "DEPENDENCY_ERROR", decode[types.ErrorEnvelope](t, rec).Error.Code)

	rec = do(t, build(stubState{}, stubPinger{err: errors.New("dial tcp")}), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/products", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRateLimitAppliesToProductRoutesOnly(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 1, Window: time.Minute}
	limiter := &countingLimiter{hits: map[string]int64{}}
	svc, err := productsvc.NewService(productsvc.ServiceParams{
		Sessions: dbtest.NewSQLite(t),
		Catalog:  productsvc.NewCatalog(nil),
	})
	require.NoError(t, err)
	h := NewRouter(cfg, logger.Nop(), stubPinger{}, stubState{}, nil, metrics.NewHTTPMetrics(nil), svc, limiter)

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodGet, "/health/live", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product not found", decode[types.ErrorBody](t, rec).Error)
	rec = do(t, h, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode[types.ErrorEnvelope](t, rec).Error.Code)
}

type panickingService struct {
	productsvc.Service
}

func (panickingService) ListProducts(context.Context) ([]productsvc.ProductDTO, error) {
	panic("list exploded")
}

func TestPanicIsLoggedAndCounted(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	reg := prometheus.NewRegistry()
	h := NewRouter(testConfig(), logg, stubPinger{}, stubState{}, reg, metrics.NewHTTPMetrics(reg), panickingService{}, nil)

	rec := do(t, h, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode[types.ErrorEnvelope](t, rec).Error.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	out := buf.String()
	assert.Contains(t, out, `"message":"request.complete"`)
	assert.Contains(t, out, `"status":500`)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/products/",status="500"} 1`)
}
