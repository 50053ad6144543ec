package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petmart/petmart/internal/auth"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/search"
	"github.com/petmart/petmart/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeHealth struct{}

func (fakeHealth) HealthCheck(ctx context.Context) error { return nil }

// fakeUserStore implements UserStore with per-test function fields.
type fakeUserStore struct {
	create         func(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error)
	getByID        func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	getByEmail     func(ctx context.Context, email string) (*models.User, error)
	updatePassword func(ctx context.Context, id primitive.ObjectID, password string) (*models.User, error)
	search         func(ctx context.Context, q store.UserQuery) (search.Result[models.User], error)
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	return f.create(ctx, name, email, password, isAdmin)
}

func (f *fakeUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.getByID(ctx, id)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.getByEmail(ctx, email)
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, password string) (*models.User, error) {
	return f.updatePassword(ctx, id, password)
}

func (f *fakeUserStore) Search(ctx context.Context, q store.UserQuery) (search.Result[models.User], error) {
	return f.search(ctx, q)
}

// fakeProductStore implements ProductStore with per-test function fields.
type fakeProductStore struct {
	create        func(ctx context.Context, in store.ProductInput) (*models.Product, error)
	all           func(ctx context.Context) ([]models.Product, error)
	getByID       func(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	getBySlug     func(ctx context.Context, slug string) (*models.Product, error)
	categories    func(ctx context.Context) ([]string, error)
	adminSearch   func(ctx context.Context, q store.AdminProductQuery) (search.Result[models.Product], error)
	catalogSearch func(ctx context.Context, q store.CatalogQuery) (search.Result[models.Product], error)
}

func (f *fakeProductStore) Create(ctx context.Context, in store.ProductInput) (*models.Product, error) {
	return f.create(ctx, in)
}

func (f *fakeProductStore) All(ctx context.Context) ([]models.Product, error) {
	return f.all(ctx)
}

func (f *fakeProductStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return f.getByID(ctx, id)
}

func (f *fakeProductStore) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return f.getBySlug(ctx, slug)
}

func (f *fakeProductStore) Categories(ctx context.Context) ([]string, error) {
	return f.categories(ctx)
}

func (f *fakeProductStore) AdminSearch(ctx context.Context, q store.AdminProductQuery) (search.Result[models.Product], error) {
	return f.adminSearch(ctx, q)
}

func (f *fakeProductStore) CatalogSearch(ctx context.Context, q store.CatalogQuery) (search.Result[models.Product], error) {
	return f.catalogSearch(ctx, q)
}

// fakeOrderStore implements OrderStore with per-test function fields.
type fakeOrderStore struct {
	create            func(ctx context.Context, order models.Order) (*models.Order, error)
	forUser           func(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	getByID           func(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	pay               func(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error)
	setDeliveryStatus func(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	search            func(ctx context.Context, q store.OrderQuery) (search.Outcome[models.Order], error)
	expandOwners      func(ctx context.Context, orders []models.Order) ([]models.ExpandedOrder, error)
}

func (f *fakeOrderStore) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	return f.create(ctx, order)
}

func (f *fakeOrderStore) ForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return f.forUser(ctx, userID)
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return f.getByID(ctx, id)
}

func (f *fakeOrderStore) Pay(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	return f.pay(ctx, id, result)
}

func (f *fakeOrderStore) SetDeliveryStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	return f.setDeliveryStatus(ctx, id, status)
}

func (f *fakeOrderStore) Search(ctx context.Context, q store.OrderQuery) (search.Outcome[models.Order], error) {
	return f.search(ctx, q)
}

func (f *fakeOrderStore) ExpandOwners(ctx context.Context, orders []models.Order) ([]models.ExpandedOrder, error) {
	return f.expandOwners(ctx, orders)
}

type testEnv struct {
	server   *Server
	tokens   *auth.Tokens
	users    *fakeUserStore
	products *fakeProductStore
	orders   *fakeOrderStore
}

func newTestEnv() *testEnv {
	tokens := auth.NewTokens("test-secret", time.Hour)
	users := &fakeUserStore{}
	products := &fakeProductStore{}
	orders := &fakeOrderStore{}
	return &testEnv{
		server:   NewServer(fakeHealth{}, users, products, orders, tokens),
		tokens:   tokens,
		users:    users,
		products: products,
		orders:   orders,
	}
}

func (e *testEnv) tokenFor(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, err := e.tokens.Generate(&models.User{
		ID:      primitive.NewObjectID(),
		Name:    "tester",
		Email:   "tester@example.com",
		IsAdmin: isAdmin,
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
