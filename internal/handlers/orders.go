package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrdersByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	ListAllOrders(ctx context.Context, limit, offset int64) ([]models.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}

// FlowerGetter is the slice of the catalog order placement needs.
type FlowerGetter interface {
	GetFlowerByID(ctx context.Context, id primitive.ObjectID) (*models.Flower, error)
}

// UserDirectory resolves customer ids to users for display decoration.
type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

type CartClearer interface {
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// OrderEvents publishes order lifecycle events. Implementations must be
// best-effort; a nil OrderHandler.Events disables publishing entirely.
type OrderEvents interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusUpdated(ctx context.Context, orderID string, status models.OrderStatus)
}

type OrderHandler struct {
	Orders  OrderStore
	Flowers FlowerGetter
	Users   UserDirectory
	Carts   CartClearer
	Events  OrderEvents
}

type orderItemInput struct {
	FlowerID       string `json:"flowerId"`
	Quantity       int    `json:"quantity"`
	Customizations string `json:"customizations"`
}

type createOrderRequest struct {
	Items               []orderItemInput `json:"items"`
	DeliveryDate        string           `json:"deliveryDate"`
	DeliveryAddress     string           `json:"deliveryAddress"`
	SpecialInstructions string           `json:"specialInstructions"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Create places an order: each referenced flower must exist and be in stock,
// and its price is snapshotted into the line at this instant. The loop is
// sequential and nothing is written until the final insert, so a failure
// partway through leaves no partial order behind.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	customer := CurrentUser(r)

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Order must have at least one item")
		return
	}
	if req.DeliveryAddress == "" {
		respondError(w, http.StatusBadRequest, "Delivery address is required")
		return
	}
	deliveryDate, err := parseDate(req.DeliveryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid delivery date")
		return
	}

	var totalAmount float64
	var items []models.OrderItem
	for _, item := range req.Items {
		if item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
			return
		}
		flowerID, err := primitive.ObjectIDFromHex(item.FlowerID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid flower ID")
			return
		}

		flower, err := h.Flowers.GetFlowerByID(r.Context(), flowerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "Flower not found")
				return
			}
			respondServerError(w, err)
			return
		}
		if !flower.InStock {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("%q is out of stock", flower.Name))
			return
		}

		totalAmount += flower.Price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			FlowerID:        flower.ID,
			Name:            flower.Name,
			Quantity:        item.Quantity,
			Customizations:  item.Customizations,
			PriceAtPurchase: flower.Price,
		})
	}

	order := &models.Order{
		CustomerID:          customer.ID,
		Items:               items,
		TotalAmount:         totalAmount,
		Status:              models.OrderStatusPending,
		DeliveryDate:        deliveryDate,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
	}

	if err := h.Orders.CreateOrder(r.Context(), order); err != nil {
		respondServerError(w, err)
		return
	}

	if h.Events != nil {
		h.Events.OrderCreated(r.Context(), order)
	}

	// The ordered lines came out of the cart; start the next one fresh.
	if h.Carts != nil {
		if err := h.Carts.ClearCart(r.Context(), customer.ID); err != nil {
			respondServerError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	customer := CurrentUser(r)
	orders, err := h.Orders.ListOrdersByCustomer(r.Context(), customer.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// ListAll is the admin view: paginated, newest first, decorated with each
// customer's name and email.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10 // Default limit
	}
	offset := (page - 1) * limit

	orders, err := h.Orders.ListAllOrders(r.Context(), int64(limit), int64(offset))
	if err != nil {
		respondServerError(w, err)
		return
	}

	total, err := h.Orders.CountOrders(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	if err := h.decorateCustomers(r.Context(), orders); err != nil {
		respondServerError(w, err)
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func (h *OrderHandler) decorateCustomers(ctx context.Context, orders []models.Order) error {
	ids := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool)
	for _, order := range orders {
		if !seen[order.CustomerID] {
			seen[order.CustomerID] = true
			ids = append(ids, order.CustomerID)
		}
	}

	users, err := h.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		if user, ok := users[orders[i].CustomerID]; ok {
			orders[i].CustomerName = user.Name
			orders[i].CustomerEmail = user.Email
		}
	}
	return nil
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondServerError(w, err)
		return
	}

	user := CurrentUser(r)
	if user.Role != models.RoleAdmin && order.CustomerID != user.ID {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus overwrites the order status. Only enum membership is checked;
// there is no transition graph, an admin may set any status at any time.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status := models.OrderStatus(req.Status)
	if !models.ValidOrderStatus(status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.Orders.UpdateOrderStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondServerError(w, err)
		return
	}

	if h.Events != nil {
		h.Events.OrderStatusUpdated(r.Context(), id.Hex(), status)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Order updated", "status": string(status)})
}
