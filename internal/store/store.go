package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateReview = errors.New("review already exists")
)

type Store struct {
	client        *mongo.Client
	users         *mongo.Collection
	flowers       *mongo.Collection
	orders        *mongo.Collection
	reviews       *mongo.Collection
	carts         *mongo.Collection
	consultations *mongo.Collection
}

func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}

	db := client.Database(database)
	return &Store{
		client:        client,
		users:         db.Collection("users"),
		flowers:       db.Collection("flowers"),
		orders:        db.Collection("orders"),
		reviews:       db.Collection("reviews"),
		carts:         db.Collection("carts"),
		consultations: db.Collection("consultations"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the write paths rely on. The unique
// (customerId, flowerId) review index backs the one-review-per-flower rule.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.reviews.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "flowerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = s.flowers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "season", Value: 1}, {Key: "popularity", Value: -1}},
	})
	if err != nil {
		return err
	}

	slog.Debug("Indexes ensured")
	return nil
}
