package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

type ConsultationStore interface {
	CreateConsultation(ctx context.Context, consultation *models.Consultation) error
	ListAllConsultations(ctx context.Context) ([]models.Consultation, error)
	ListConsultationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error)
	UpdateConsultationStatus(ctx context.Context, id primitive.ObjectID, status models.ConsultationStatus) error
}

type ConsultationHandler struct {
	Consultations ConsultationStore

	// Identify resolves an optional bearer token so a booking made while
	// logged in is linked to the account. Anonymous bookings are fine.
	Identify func(r *http.Request) *models.User
}

type createConsultationRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	WeddingDate   string `json:"weddingDate"`
	PreferredDate string `json:"preferredDate"`
	Message       string `json:"message"`
}

func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createConsultationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if req.WeddingDate == "" {
		respondError(w, http.StatusBadRequest, "Wedding date is required")
		return
	}
	weddingDate, err := parseDate(req.WeddingDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid wedding date")
		return
	}

	consultation := &models.Consultation{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		WeddingDate: weddingDate,
		Message:     req.Message,
		Status:      models.ConsultationStatusPending,
	}
	if req.PreferredDate != "" {
		preferred, err := parseDate(req.PreferredDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid preferred date")
			return
		}
		consultation.PreferredDate = &preferred
	}
	if h.Identify != nil {
		if user := h.Identify(r); user != nil {
			consultation.UserID = &user.ID
		}
	}

	if err := h.Consultations.CreateConsultation(r.Context(), consultation); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, consultation)
}

// List shows an admin every consultation and a customer only their own.
func (h *ConsultationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var consultations []models.Consultation
	var err error
	if user.Role == models.RoleAdmin {
		consultations, err = h.Consultations.ListAllConsultations(r.Context())
	} else {
		consultations, err = h.Consultations.ListConsultationsByUser(r.Context(), user.ID)
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	if consultations == nil {
		consultations = []models.Consultation{}
	}
	respondJSON(w, http.StatusOK, consultations)
}

func (h *ConsultationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid consultation ID")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status := models.ConsultationStatus(req.Status)
	if !models.ValidConsultationStatus(status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.Consultations.UpdateConsultationStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Consultation not found")
			return
		}
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Consultation updated", "status": string(status)})
}
