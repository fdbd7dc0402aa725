package handlers

import (
	"context"
	"net/http"

	"github.com/desivar/bridebloom/internal/models"
)

type CatalogCounter interface {
	CountFlowers(ctx context.Context) (int64, error)
}

type OrderStatsSource interface {
	CountOrders(ctx context.Context) (int64, error)
	OrdersByStatus(ctx context.Context) (map[string]int, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

type ConsultationCounter interface {
	CountConsultationsByStatus(ctx context.Context, status models.ConsultationStatus) (int64, error)
}

// AdminHandler serves the back-office dashboard numbers.
type AdminHandler struct {
	Flowers       CatalogCounter
	Orders        OrderStatsSource
	Consultations ConsultationCounter
}

type dashboardStats struct {
	TotalFlowers         int64          `json:"totalFlowers"`
	TotalOrders          int64          `json:"totalOrders"`
	OrdersByStatus       map[string]int `json:"ordersByStatus"`
	PendingConsultations int64          `json:"pendingConsultations"`
	TotalRevenue         float64        `json:"totalRevenue"` // cancelled orders excluded
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := dashboardStats{}

	var err error
	if stats.TotalFlowers, err = h.Flowers.CountFlowers(ctx); err != nil {
		respondServerError(w, err)
		return
	}
	if stats.TotalOrders, err = h.Orders.CountOrders(ctx); err != nil {
		respondServerError(w, err)
		return
	}
	if stats.OrdersByStatus, err = h.Orders.OrdersByStatus(ctx); err != nil {
		respondServerError(w, err)
		return
	}
	if stats.PendingConsultations, err = h.Consultations.CountConsultationsByStatus(ctx, models.ConsultationStatusPending); err != nil {
		respondServerError(w, err)
		return
	}
	if stats.TotalRevenue, err = h.Orders.TotalRevenue(ctx); err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
