package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/desivar/bridebloom/internal/models"
)

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	res, err := s.reviews.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return err
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetReviewByCustomerAndFlower(ctx context.Context, customerID, flowerID primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.reviews.FindOne(ctx, bson.M{"customerId": customerID, "flowerId": flowerID}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (s *Store) ListReviewsByFlower(ctx context.Context, flowerID primitive.ObjectID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.reviews.Find(ctx, bson.M{"flowerId": flowerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Store) ListReviewsByUser(ctx context.Context, customerID primitive.ObjectID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.reviews.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingsForFlower returns every rating for the flower. The caller averages
// them; the aggregate is recomputed from scratch on each review write.
func (s *Store) RatingsForFlower(ctx context.Context, flowerID primitive.ObjectID) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	cursor, err := s.reviews.Find(ctx, bson.M{"flowerId": flowerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []int
	for cursor.Next(ctx) {
		var row struct {
			Rating int `bson:"rating"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ratings = append(ratings, row.Rating)
	}
	return ratings, cursor.Err()
}
