package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubCartRepo struct {
	mu       sync.Mutex
	carts    map[string]*domain.Cart
	products map[primitive.ObjectID]*catalog.Product
	addCalls int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts:    make(map[string]*domain.Cart),
		products: make(map[primitive.ObjectID]*catalog.Product),
	}
}

func (r *stubCartRepo) Create(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart.ID = primitive.NewObjectID()
	r.carts[cart.ID.Hex()] = cart
	return nil
}

func (r *stubCartRepo) GetProducts(_ context.Context, cartID string) ([]*domain.LineItemView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	items := make([]*domain.LineItemView, 0, len(cart.Products))
	for _, it := range cart.Products {
		items = append(items, &domain.LineItemView{Product: r.products[it.ProductID], Quantity: it.Quantity})
	}
	return items, nil
}

func (r *stubCartRepo) AddItem(_ context.Context, cartID string, productID primitive.ObjectID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addCalls++
	cart, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	cart.AddItem(productID, qty)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) error { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *stubCartRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newStubCartRepo()
	app := application.NewCartApplicationService(repo, nopPublisher{}, nil)

	r := gin.New()
	carthttp.NewCartHandler(app).RegisterRoutes(r)
	return r, repo
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func createCart(t *testing.T, r http.Handler) domain.Cart {
	t.Helper()
	rr := do(t, r, http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cart))
	return cart
}

func TestCreateCart(t *testing.T) {
	r, _ := setupRouter(t)

	rr := do(t, r, http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["userId"])
	assert.Equal(t, []any{}, body["products"])
}

func TestAddProductMergesQuantity(t *testing.T) {
	r, repo := setupRouter(t)
	product := &catalog.Product{ID: primitive.NewObjectID(), Title: "Mate", Price: 4, Thumbnails: []string{}}
	repo.products[product.ID] = product

	cart := createCart(t, r)
	path := "/api/carts/" + cart.ID.Hex() + "/product/" + product.ID.Hex()

	rr := do(t, r, http.MethodPost, path, `{"quantidade":"2"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"`+carthttp.AddedMessage+`"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, path, `{"quantidade":3}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, http.MethodGet, "/api/carts/"+cart.ID.Hex(), "")
	require.Equal(t, http.StatusOK, rr.Code)

	var items []struct {
		Product  *catalog.Product `json:"productId"`
		Quantity int              `json:"quantity"`
		Subtotal string           `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, product.ID, items[0].Product.ID)
	assert.Equal(t, "20.00", items[0].Subtotal)
}

func TestAddProductQuantityAlias(t *testing.T) {
	r, repo := setupRouter(t)
	cart := createCart(t, r)
	pid := primitive.NewObjectID().Hex()

	rr := do(t, r, http.MethodPost, "/api/carts/"+cart.ID.Hex()+"/product/"+pid, `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, repo.carts[cart.ID.Hex()].Products, 1)
	assert.Equal(t, 4, repo.carts[cart.ID.Hex()].Products[0].Quantity)
}

func TestAddProductInvalidQuantity(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not a number", body: `{"quantidade":"abc"}`},
		{name: "zero", body: `{"quantidade":0}`},
		{name: "negative", body: `{"quantidade":-2}`},
		{name: "missing", body: `{}`},
		{name: "empty body", body: ""},
		{name: "malformed json", body: `{"quantidade":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo := setupRouter(t)
			cart := createCart(t, r)
			path := "/api/carts/" + cart.ID.Hex() + "/product/" + primitive.NewObjectID().Hex()

			rr := do(t, r, http.MethodPost, path, tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)

			assert.Zero(t, repo.addCalls)
			assert.Empty(t, repo.carts[cart.ID.Hex()].Products)
		})
	}
}

func TestAddProductInvalidProductID(t *testing.T) {
	r, repo := setupRouter(t)
	cart := createCart(t, r)

	rr := do(t, r, http.MethodPost, "/api/carts/"+cart.ID.Hex()+"/product/not-an-id", `{"quantidade":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, repo.addCalls)
}

func TestCartNotFound(t *testing.T) {
	r, _ := setupRouter(t)
	missing := primitive.NewObjectID().Hex()

	rr := do(t, r, http.MethodGet, "/api/carts/"+missing, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"cart not found"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/api/carts/"+missing+"/product/"+primitive.NewObjectID().Hex(), `{"quantidade":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
