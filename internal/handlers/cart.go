package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

type CartStore interface {
	GetOrCreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// CartHandler serves the server-persisted cart, the single source of truth
// for a user's pending lines across devices. Stock is not checked here; it
// is checked at order placement.
type CartHandler struct {
	Carts   CartStore
	Flowers FlowerGetter
}

type addToCartRequest struct {
	FlowerID string `json:"flowerId"`
	Quantity int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	cart, err := h.Carts.GetOrCreateCart(r.Context(), user.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	cart.RecomputeTotal()
	respondJSON(w, http.StatusOK, cart)
}

// Add puts a flower in the cart, snapshotting its price, name and image at
// add-time. Adding a flower already in the cart bumps that line's quantity.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}
	flowerID, err := primitive.ObjectIDFromHex(req.FlowerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	flower, err := h.Flowers.GetFlowerByID(r.Context(), flowerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flower not found")
			return
		}
		respondServerError(w, err)
		return
	}

	cart, err := h.Carts.GetOrCreateCart(r.Context(), user.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].FlowerID == flowerID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			FlowerID: flower.ID,
			Name:     flower.Name,
			Price:    flower.Price,
			Image:    flower.ImageURL,
			Quantity: req.Quantity,
		})
	}

	cart.RecomputeTotal()
	if err := h.Carts.SaveCart(r.Context(), cart); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	flowerID, err := primitive.ObjectIDFromHex(r.PathValue("flowerId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.Carts.GetOrCreateCart(r.Context(), user.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}

	index := -1
	for i := range cart.Items {
		if cart.Items[i].FlowerID == flowerID {
			index = i
			break
		}
	}
	if index == -1 {
		respondError(w, http.StatusNotFound, "Item not found in cart")
		return
	}

	if req.Quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	} else {
		cart.Items[index].Quantity = req.Quantity
	}

	cart.RecomputeTotal()
	if err := h.Carts.SaveCart(r.Context(), cart); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	flowerID, err := primitive.ObjectIDFromHex(r.PathValue("flowerId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	cart, err := h.Carts.GetOrCreateCart(r.Context(), user.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}

	index := -1
	for i := range cart.Items {
		if cart.Items[i].FlowerID == flowerID {
			index = i
			break
		}
	}
	if index == -1 {
		respondError(w, http.StatusNotFound, "Item not found in cart")
		return
	}

	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	cart.RecomputeTotal()
	if err := h.Carts.SaveCart(r.Context(), cart); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if err := h.Carts.ClearCart(r.Context(), user.ID); err != nil {
		respondServerError(w, err)
		return
	}

	cart, err := h.Carts.GetOrCreateCart(r.Context(), user.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
