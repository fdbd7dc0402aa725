package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/desivar/bridebloom/internal/models"
)

func (s *Store) CreateConsultation(ctx context.Context, consultation *models.Consultation) error {
	if consultation.CreatedAt.IsZero() {
		consultation.CreatedAt = time.Now()
	}
	if consultation.Status == "" {
		consultation.Status = models.ConsultationStatusPending
	}
	res, err := s.consultations.InsertOne(ctx, consultation)
	if err != nil {
		return err
	}
	consultation.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) ListAllConsultations(ctx context.Context) ([]models.Consultation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.consultations.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var consultations []models.Consultation
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

func (s *Store) ListConsultationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.consultations.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var consultations []models.Consultation
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

func (s *Store) UpdateConsultationStatus(ctx context.Context, id primitive.ObjectID, status models.ConsultationStatus) error {
	res, err := s.consultations.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountConsultationsByStatus(ctx context.Context, status models.ConsultationStatus) (int64, error) {
	return s.consultations.CountDocuments(ctx, bson.M{"status": status})
}
