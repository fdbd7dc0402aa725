package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

// In-memory stand-ins for the Mongo store, shared across handler tests.

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	result := make(map[primitive.ObjectID]models.User)
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			result[id] = *user
		}
	}
	return result, nil
}

type fakeFlowers struct {
	flowers map[primitive.ObjectID]*models.Flower
}

func newFakeFlowers() *fakeFlowers {
	return &fakeFlowers{flowers: make(map[primitive.ObjectID]*models.Flower)}
}

func (f *fakeFlowers) add(flower models.Flower) primitive.ObjectID {
	if flower.ID.IsZero() {
		flower.ID = primitive.NewObjectID()
	}
	f.flowers[flower.ID] = &flower
	return flower.ID
}

func (f *fakeFlowers) ListFlowers(_ context.Context, _ store.ListOptions) ([]models.Flower, error) {
	var all []models.Flower
	for _, flower := range f.flowers {
		all = append(all, *flower)
	}
	return all, nil
}

func (f *fakeFlowers) GetFlowerByID(_ context.Context, id primitive.ObjectID) (*models.Flower, error) {
	if flower, ok := f.flowers[id]; ok {
		copied := *flower
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeFlowers) FeaturedBySeason(_ context.Context) (map[models.Season][]models.FlowerSummary, error) {
	featured := make(map[models.Season][]models.FlowerSummary)
	for _, season := range models.CanonicalSeasons() {
		featured[season] = []models.FlowerSummary{}
	}
	return featured, nil
}

func (f *fakeFlowers) PopularFlowers(_ context.Context, _ int64) ([]models.Flower, error) {
	return f.ListFlowers(context.Background(), store.ListOptions{})
}

func (f *fakeFlowers) CreateFlower(_ context.Context, flower *models.Flower) error {
	flower.ID = primitive.NewObjectID()
	flower.CreatedAt = time.Now()
	copied := *flower
	f.flowers[flower.ID] = &copied
	return nil
}

func (f *fakeFlowers) UpdateFlower(_ context.Context, flower *models.Flower) error {
	if _, ok := f.flowers[flower.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *flower
	f.flowers[flower.ID] = &copied
	return nil
}

func (f *fakeFlowers) DeleteFlower(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.flowers[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.flowers, id)
	return nil
}

func (f *fakeFlowers) UpdateFlowerImage(_ context.Context, id primitive.ObjectID, imageURL string) error {
	flower, ok := f.flowers[id]
	if !ok {
		return store.ErrNotFound
	}
	flower.ImageURL = imageURL
	return nil
}

func (f *fakeFlowers) UpdateFlowerRating(_ context.Context, id primitive.ObjectID, average float64, count int) error {
	flower, ok := f.flowers[id]
	if !ok {
		return store.ErrNotFound
	}
	flower.AverageRating = average
	flower.ReviewCount = count
	return nil
}

func (f *fakeFlowers) CountFlowers(_ context.Context) (int64, error) {
	return int64(len(f.flowers)), nil
}

type fakeOrders struct {
	orders []*models.Order
}

func (f *fakeOrders) CreateOrder(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrders) ListOrdersByCustomer(_ context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	var result []models.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrders) ListAllOrders(_ context.Context, limit, offset int64) ([]models.Order, error) {
	var result []models.Order
	for i := offset; i < int64(len(f.orders)) && int64(len(result)) < limit; i++ {
		result = append(result, *f.orders[i])
	}
	return result, nil
}

func (f *fakeOrders) CountOrders(_ context.Context) (int64, error) {
	return int64(len(f.orders)), nil
}

func (f *fakeOrders) GetOrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	for _, order := range f.orders {
		if order.ID == id {
			copied := *order
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	for _, order := range f.orders {
		if order.ID == id {
			order.Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeOrders) HasDeliveredOrderWithFlower(_ context.Context, customerID, flowerID primitive.ObjectID) (bool, error) {
	for _, order := range f.orders {
		if order.CustomerID != customerID || order.Status != models.OrderStatusDelivered {
			continue
		}
		for _, item := range order.Items {
			if item.FlowerID == flowerID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeOrders) OrdersByStatus(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, order := range f.orders {
		counts[string(order.Status)]++
	}
	return counts, nil
}

func (f *fakeOrders) TotalRevenue(_ context.Context) (float64, error) {
	var total float64
	for _, order := range f.orders {
		if order.Status != models.OrderStatusCancelled {
			total += order.TotalAmount
		}
	}
	return total, nil
}

type fakeReviews struct {
	reviews []*models.Review
}

func (f *fakeReviews) CreateReview(_ context.Context, review *models.Review) error {
	for _, existing := range f.reviews {
		if existing.CustomerID == review.CustomerID && existing.FlowerID == review.FlowerID {
			return store.ErrDuplicateReview
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviews) GetReviewByCustomerAndFlower(_ context.Context, customerID, flowerID primitive.ObjectID) (*models.Review, error) {
	for _, review := range f.reviews {
		if review.CustomerID == customerID && review.FlowerID == flowerID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeReviews) ListReviewsByFlower(_ context.Context, flowerID primitive.ObjectID) ([]models.Review, error) {
	var result []models.Review
	for _, review := range f.reviews {
		if review.FlowerID == flowerID {
			result = append(result, *review)
		}
	}
	return result, nil
}

func (f *fakeReviews) ListReviewsByUser(_ context.Context, customerID primitive.ObjectID) ([]models.Review, error) {
	var result []models.Review
	for _, review := range f.reviews {
		if review.CustomerID == customerID {
			result = append(result, *review)
		}
	}
	return result, nil
}

func (f *fakeReviews) RatingsForFlower(_ context.Context, flowerID primitive.ObjectID) ([]int, error) {
	var ratings []int
	for _, review := range f.reviews {
		if review.FlowerID == flowerID {
			ratings = append(ratings, review.Rating)
		}
	}
	return ratings, nil
}

type fakeCarts struct {
	carts map[primitive.ObjectID]*models.Cart
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func (f *fakeCarts) GetOrCreateCart(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		copied := *cart
		copied.Items = append([]models.CartItem(nil), cart.Items...)
		return &copied, nil
	}
	cart := &models.Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.carts[userID] = cart
	copied := *cart
	return &copied, nil
}

func (f *fakeCarts) SaveCart(_ context.Context, cart *models.Cart) error {
	copied := *cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	copied.UpdatedAt = time.Now()
	f.carts[cart.UserID] = &copied
	return nil
}

func (f *fakeCarts) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	if cart, ok := f.carts[userID]; ok {
		cart.Items = []models.CartItem{}
		cart.Total = 0
	}
	return nil
}

type fakeConsultations struct {
	consultations []*models.Consultation
}

func (f *fakeConsultations) CreateConsultation(_ context.Context, consultation *models.Consultation) error {
	consultation.ID = primitive.NewObjectID()
	consultation.CreatedAt = time.Now()
	f.consultations = append(f.consultations, consultation)
	return nil
}

func (f *fakeConsultations) ListAllConsultations(_ context.Context) ([]models.Consultation, error) {
	var result []models.Consultation
	for _, consultation := range f.consultations {
		result = append(result, *consultation)
	}
	return result, nil
}

func (f *fakeConsultations) ListConsultationsByUser(_ context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	var result []models.Consultation
	for _, consultation := range f.consultations {
		if consultation.UserID != nil && *consultation.UserID == userID {
			result = append(result, *consultation)
		}
	}
	return result, nil
}

func (f *fakeConsultations) UpdateConsultationStatus(_ context.Context, id primitive.ObjectID, status models.ConsultationStatus) error {
	for _, consultation := range f.consultations {
		if consultation.ID == id {
			consultation.Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeConsultations) CountConsultationsByStatus(_ context.Context, status models.ConsultationStatus) (int64, error) {
	var count int64
	for _, consultation := range f.consultations {
		if consultation.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeEvents struct {
	created       []*models.Order
	statusUpdates []string
}

func (f *fakeEvents) OrderCreated(_ context.Context, order *models.Order) {
	f.created = append(f.created, order)
}

func (f *fakeEvents) OrderStatusUpdated(_ context.Context, orderID string, _ models.OrderStatus) {
	f.statusUpdates = append(f.statusUpdates, orderID)
}

// asUser attaches an authenticated user the way Authenticate does.
func asUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}
