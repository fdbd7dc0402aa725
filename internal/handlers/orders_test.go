package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
)

type orderFixture struct {
	handler *OrderHandler
	users   *fakeUsers
	flowers *fakeFlowers
	orders  *fakeOrders
	carts   *fakeCarts
	events  *fakeEvents
}

func newOrderFixture() *orderFixture {
	users := newFakeUsers()
	flowers := newFakeFlowers()
	orders := &fakeOrders{}
	carts := newFakeCarts()
	events := &fakeEvents{}
	return &orderFixture{
		handler: &OrderHandler{Orders: orders, Flowers: flowers, Users: users, Carts: carts, Events: events},
		users:   users,
		flowers: flowers,
		orders:  orders,
		carts:   carts,
		events:  events,
	}
}

func testCustomer() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com", Role: models.RoleCustomer}
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	fx := newOrderFixture()
	customer := testCustomer()

	tulip := fx.flowers.add(models.Flower{Name: "Spring Tulip Centerpiece", Price: 65.99, InStock: true})
	rose := fx.flowers.add(models.Flower{Name: "Romantic Rose Bouquet", Price: 89.99, InStock: true})

	req := jsonRequest(t, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"flowerId": tulip.Hex(), "quantity": 2},
			{"flowerId": rose.Hex(), "quantity": 1, "customizations": "white ribbon"},
		},
		"deliveryDate":    "2027-06-10",
		"deliveryAddress": "12 Chapel Lane",
	})
	w := httptest.NewRecorder()
	fx.handler.Create(w, asUser(req, customer))

	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeBody(t, w, &order)
	assert.InDelta(t, 221.97, order.TotalAmount, 0.001)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Spring Tulip Centerpiece", order.Items[0].Name)
	assert.InDelta(t, 65.99, order.Items[0].PriceAtPurchase, 0.001)
	assert.Equal(t, "white ribbon", order.Items[1].Customizations)

	// A later price change must not touch the placed order.
	flower, err := fx.flowers.GetFlowerByID(req.Context(), tulip)
	require.NoError(t, err)
	flower.Price = 199.99
	require.NoError(t, fx.flowers.UpdateFlower(req.Context(), flower))

	stored, err := fx.orders.GetOrderByID(req.Context(), order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 65.99, stored.Items[0].PriceAtPurchase, 0.001)

	require.Len(t, fx.events.created, 1)
	assert.Equal(t, order.ID, fx.events.created[0].ID)
}

func TestCreateOrderClearsCart(t *testing.T) {
	fx := newOrderFixture()
	customer := testCustomer()
	rose := fx.flowers.add(models.Flower{Name: "Romantic Rose Bouquet", Price: 89.99, InStock: true})

	cart, err := fx.carts.GetOrCreateCart(nil, customer.ID)
	require.NoError(t, err)
	cart.Items = []models.CartItem{{FlowerID: rose, Name: "Romantic Rose Bouquet", Price: 89.99, Quantity: 1}}
	cart.RecomputeTotal()
	require.NoError(t, fx.carts.SaveCart(nil, cart))

	req := jsonRequest(t, http.MethodPost, "/api/orders", map[string]interface{}{
		"items":           []map[string]interface{}{{"flowerId": rose.Hex(), "quantity": 1}},
		"deliveryDate":    "2027-06-10",
		"deliveryAddress": "12 Chapel Lane",
	})
	w := httptest.NewRecorder()
	fx.handler.Create(w, asUser(req, customer))
	require.Equal(t, http.StatusCreated, w.Code)

	after, err := fx.carts.GetOrCreateCart(nil, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Zero(t, after.Total)
}

func TestCreateOrderValidation(t *testing.T) {
	fx := newOrderFixture()
	customer := testCustomer()
	wilted := fx.flowers.add(models.Flower{Name: "Winter Peony", Price: 50, InStock: false})

	tests := []struct {
		name    string
		body    map[string]interface{}
		message string
	}{
		{
			"empty items",
			map[string]interface{}{
				"items":           []map[string]interface{}{},
				"deliveryDate":    "2027-06-10",
				"deliveryAddress": "12 Chapel Lane",
			},
			"Order must have at least one item",
		},
		{
			"missing address",
			map[string]interface{}{
				"items":        []map[string]interface{}{{"flowerId": wilted.Hex(), "quantity": 1}},
				"deliveryDate": "2027-06-10",
			},
			"Delivery address is required",
		},
		{
			"unknown flower",
			map[string]interface{}{
				"items":           []map[string]interface{}{{"flowerId": primitive.NewObjectID().Hex(), "quantity": 1}},
				"deliveryDate":    "2027-06-10",
				"deliveryAddress": "12 Chapel Lane",
			},
			"Flower not found",
		},
		{
			"out of stock",
			map[string]interface{}{
				"items":           []map[string]interface{}{{"flowerId": wilted.Hex(), "quantity": 1}},
				"deliveryDate":    "2027-06-10",
				"deliveryAddress": "12 Chapel Lane",
			},
			`"Winter Peony" is out of stock`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			fx.handler.Create(w, asUser(jsonRequest(t, http.MethodPost, "/api/orders", tt.body), customer))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
		})
	}

	assert.Empty(t, fx.orders.orders, "no order should be persisted on rejection")
	assert.Empty(t, fx.events.created)
}

func TestGetOrderOwnership(t *testing.T) {
	fx := newOrderFixture()
	owner := testCustomer()
	stranger := testCustomer()
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	order := &models.Order{CustomerID: owner.ID, Status: models.OrderStatusPending}
	require.NoError(t, fx.orders.CreateOrder(nil, order))

	get := func(user *models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.Hex(), nil)
		req.SetPathValue("id", order.ID.Hex())
		w := httptest.NewRecorder()
		fx.handler.Get(w, asUser(req, user))
		return w
	}

	assert.Equal(t, http.StatusOK, get(owner).Code)
	assert.Equal(t, http.StatusOK, get(admin).Code)

	w := get(stranger)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", errorMessage(t, w))
}

func TestUpdateOrderStatus(t *testing.T) {
	fx := newOrderFixture()
	order := &models.Order{CustomerID: primitive.NewObjectID(), Status: models.OrderStatusPending}
	require.NoError(t, fx.orders.CreateOrder(nil, order))

	patch := func(id, status string) *httptest.ResponseRecorder {
		req := jsonRequest(t, http.MethodPatch, "/api/orders/"+id+"/status", map[string]string{"status": status})
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		fx.handler.UpdateStatus(w, req)
		return w
	}

	w := patch(order.ID.Hex(), "shipped")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", errorMessage(t, w))

	w = patch(primitive.NewObjectID().Hex(), "confirmed")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = patch(order.ID.Hex(), "confirmed")
	require.Equal(t, http.StatusOK, w.Code)
	stored, err := fx.orders.GetOrderByID(nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	require.Len(t, fx.events.statusUpdates, 1)
	assert.Equal(t, order.ID.Hex(), fx.events.statusUpdates[0])
}

func TestListAllOrdersPaginates(t *testing.T) {
	fx := newOrderFixture()
	customer := testCustomer()
	fx.users.users[customer.ID] = customer

	for i := 0; i < 12; i++ {
		require.NoError(t, fx.orders.CreateOrder(nil, &models.Order{
			CustomerID: customer.ID, Status: models.OrderStatusPending, TotalAmount: 10,
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/all?page=2&limit=10", nil)
	w := httptest.NewRecorder()
	fx.handler.ListAll(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Orders     []models.Order `json:"orders"`
		Total      int            `json:"total"`
		Page       int            `json:"page"`
		TotalPages int            `json:"totalPages"`
	}
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, "Ana", resp.Orders[0].CustomerName)
	assert.Equal(t, "ana@example.com", resp.Orders[0].CustomerEmail)
}

func TestListMineEmpty(t *testing.T) {
	fx := newOrderFixture()
	w := httptest.NewRecorder()
	fx.handler.ListMine(w, asUser(httptest.NewRequest(http.MethodGet, "/api/orders", nil), testCustomer()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
