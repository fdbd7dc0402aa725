package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewByCustomerAndFlower(ctx context.Context, customerID, flowerID primitive.ObjectID) (*models.Review, error)
	ListReviewsByFlower(ctx context.Context, flowerID primitive.ObjectID) ([]models.Review, error)
	ListReviewsByUser(ctx context.Context, customerID primitive.ObjectID) ([]models.Review, error)
	RatingsForFlower(ctx context.Context, flowerID primitive.ObjectID) ([]int, error)
}

// DeliveredChecker answers whether a customer ever had the flower delivered.
type DeliveredChecker interface {
	HasDeliveredOrderWithFlower(ctx context.Context, customerID, flowerID primitive.ObjectID) (bool, error)
}

// RatingWriter carries the recomputed aggregate back onto the flower.
type RatingWriter interface {
	UpdateFlowerRating(ctx context.Context, id primitive.ObjectID, average float64, count int) error
}

type ReviewHandler struct {
	Reviews ReviewStore
	Orders  DeliveredChecker
	Flowers RatingWriter
	Users   UserDirectory
}

type createReviewRequest struct {
	FlowerID string   `json:"flowerId"`
	Rating   int      `json:"rating"`
	Comment  string   `json:"comment"`
	Images   []string `json:"images"`
}

// meanRating averages ratings; zero reviews average to zero.
func meanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	return float64(sum) / float64(len(ratings))
}

// Create accepts a review only from a customer whose delivered order
// contains the flower, once per (customer, flower). After the insert the
// flower's aggregate is recomputed from every review on record.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	customer := CurrentUser(r)

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	flowerID, err := primitive.ObjectIDFromHex(req.FlowerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	delivered, err := h.Orders.HasDeliveredOrderWithFlower(r.Context(), customer.ID, flowerID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if !delivered {
		respondError(w, http.StatusBadRequest, "You can only review flowers from delivered orders")
		return
	}

	if _, err := h.Reviews.GetReviewByCustomerAndFlower(r.Context(), customer.ID, flowerID); err == nil {
		respondError(w, http.StatusBadRequest, "You have already reviewed this flower")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondServerError(w, err)
		return
	}

	review := &models.Review{
		CustomerID: customer.ID,
		FlowerID:   flowerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Images:     req.Images,
	}
	if err := h.Reviews.CreateReview(r.Context(), review); err != nil {
		if errors.Is(err, store.ErrDuplicateReview) {
			// The unique index caught a concurrent duplicate.
			respondError(w, http.StatusBadRequest, "You have already reviewed this flower")
			return
		}
		respondServerError(w, err)
		return
	}

	ratings, err := h.Reviews.RatingsForFlower(r.Context(), flowerID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if err := h.Flowers.UpdateFlowerRating(r.Context(), flowerID, meanRating(ratings), len(ratings)); err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListForFlower(w http.ResponseWriter, r *http.Request) {
	flowerID, err := primitive.ObjectIDFromHex(r.PathValue("flowerId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	reviews, err := h.Reviews.ListReviewsByFlower(r.Context(), flowerID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if err := h.decorateReviewers(r.Context(), reviews); err != nil {
		respondServerError(w, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	customer := CurrentUser(r)
	reviews, err := h.Reviews.ListReviewsByUser(r.Context(), customer.ID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	for i := range reviews {
		reviews[i].CustomerName = customer.Name
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) decorateReviewers(ctx context.Context, reviews []models.Review) error {
	ids := make([]primitive.ObjectID, 0, len(reviews))
	seen := make(map[primitive.ObjectID]bool)
	for _, review := range reviews {
		if !seen[review.CustomerID] {
			seen[review.CustomerID] = true
			ids = append(ids, review.CustomerID)
		}
	}

	users, err := h.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range reviews {
		if user, ok := users[reviews[i].CustomerID]; ok {
			reviews[i].CustomerName = user.Name
		}
	}
	return nil
}
