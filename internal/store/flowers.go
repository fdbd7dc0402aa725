package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/desivar/bridebloom/internal/models"
)

// Sort keys accepted by the catalog listing.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPopular   = "popular"
)

// ListOptions narrows the catalog listing. Zero values mean "no filter".
type ListOptions struct {
	Season   models.Season
	Category models.Category
	Color    string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	SortBy   string
}

// flowerFilter builds the conjunctive Mongo filter for a listing. The price
// range is inclusive on both bounds; search is a case-insensitive substring
// match on the name.
func flowerFilter(opts ListOptions) bson.M {
	filter := bson.M{}
	if opts.Season != "" {
		filter["season"] = opts.Season
	}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Color != "" {
		filter["colors"] = opts.Color
	}
	if opts.MinPrice != nil || opts.MaxPrice != nil {
		price := bson.M{}
		if opts.MinPrice != nil {
			price["$gte"] = *opts.MinPrice
		}
		if opts.MaxPrice != nil {
			price["$lte"] = *opts.MaxPrice
		}
		filter["price"] = price
	}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(opts.Search), "$options": "i"}
	}
	return filter
}

// flowerSort maps a sort key to a Mongo sort document, defaulting to newest
// first.
func flowerSort(sortBy string) bson.D {
	switch sortBy {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case SortPopular:
		return bson.D{{Key: "popularity", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (s *Store) ListFlowers(ctx context.Context, opts ListOptions) ([]models.Flower, error) {
	cursor, err := s.flowers.Find(ctx, flowerFilter(opts), options.Find().SetSort(flowerSort(opts.SortBy)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flowers []models.Flower
	if err := cursor.All(ctx, &flowers); err != nil {
		return nil, err
	}
	return flowers, nil
}

func (s *Store) GetFlowerByID(ctx context.Context, id primitive.ObjectID) (*models.Flower, error) {
	var flower models.Flower
	err := s.flowers.FindOne(ctx, bson.M{"_id": id}).Decode(&flower)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &flower, nil
}

// FeaturedBySeason returns the top three flowers by popularity for each
// canonical season, projected down to the homepage fields.
func (s *Store) FeaturedBySeason(ctx context.Context) (map[models.Season][]models.FlowerSummary, error) {
	featured := make(map[models.Season][]models.FlowerSummary)
	for _, season := range models.CanonicalSeasons() {
		opts := options.Find().
			SetSort(bson.D{{Key: "popularity", Value: -1}}).
			SetLimit(3).
			SetProjection(bson.M{"name": 1, "price": 1, "imageUrl": 1})

		cursor, err := s.flowers.Find(ctx, bson.M{"season": season}, opts)
		if err != nil {
			return nil, err
		}

		summaries := []models.FlowerSummary{}
		if err := cursor.All(ctx, &summaries); err != nil {
			return nil, err
		}
		featured[season] = summaries
	}
	return featured, nil
}

func (s *Store) PopularFlowers(ctx context.Context, limit int64) ([]models.Flower, error) {
	opts := options.Find().SetSort(bson.D{{Key: "popularity", Value: -1}}).SetLimit(limit)
	cursor, err := s.flowers.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flowers []models.Flower
	if err := cursor.All(ctx, &flowers); err != nil {
		return nil, err
	}
	return flowers, nil
}

func (s *Store) CreateFlower(ctx context.Context, flower *models.Flower) error {
	if flower.CreatedAt.IsZero() {
		flower.CreatedAt = time.Now()
	}
	res, err := s.flowers.InsertOne(ctx, flower)
	if err != nil {
		return err
	}
	flower.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) UpdateFlower(ctx context.Context, flower *models.Flower) error {
	update := bson.M{"$set": bson.M{
		"name":        flower.Name,
		"description": flower.Description,
		"price":       flower.Price,
		"season":      flower.Season,
		"category":    flower.Category,
		"colors":      flower.Colors,
		"imageUrl":    flower.ImageURL,
		"inStock":     flower.InStock,
		"popularity":  flower.Popularity,
	}}
	res, err := s.flowers.UpdateOne(ctx, bson.M{"_id": flower.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFlower removes a flower. Orders and reviews referencing it keep
// their snapshots and dangling ids; there is no referential-integrity check.
func (s *Store) DeleteFlower(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.flowers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateFlowerImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	res, err := s.flowers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"imageUrl": imageURL}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFlowerRating is written only by the review pipeline.
func (s *Store) UpdateFlowerRating(ctx context.Context, id primitive.ObjectID, average float64, count int) error {
	update := bson.M{"$set": bson.M{"averageRating": average, "reviewCount": count}}
	res, err := s.flowers.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountFlowers(ctx context.Context) (int64, error) {
	return s.flowers.CountDocuments(ctx, bson.M{})
}
