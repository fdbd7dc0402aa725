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

// GetOrCreateCart returns the user's cart, creating an empty one on first
// use. One cart per user, enforced by the unique userId index.
func (s *Store) GetOrCreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	cart = models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.carts.InsertOne(ctx, &cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race to a concurrent first request; read theirs.
			err = s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
			if err != nil {
				return nil, err
			}
			return &cart, nil
		}
		return nil, err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return &cart, nil
}

// SaveCart replaces the cart document, upserting by user id.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := s.carts.ReplaceOne(ctx, bson.M{"userId": cart.UserID}, cart, opts)
	return err
}

func (s *Store) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"items":     []models.CartItem{},
		"total":     0,
		"updatedAt": time.Now(),
	}}
	_, err := s.carts.UpdateOne(ctx, bson.M{"userId": userID}, update)
	return err
}
