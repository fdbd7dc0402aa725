package handlers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

type FlowerStore interface {
	ListFlowers(ctx context.Context, opts store.ListOptions) ([]models.Flower, error)
	GetFlowerByID(ctx context.Context, id primitive.ObjectID) (*models.Flower, error)
	FeaturedBySeason(ctx context.Context) (map[models.Season][]models.FlowerSummary, error)
	PopularFlowers(ctx context.Context, limit int64) ([]models.Flower, error)
	CreateFlower(ctx context.Context, flower *models.Flower) error
	UpdateFlower(ctx context.Context, flower *models.Flower) error
	DeleteFlower(ctx context.Context, id primitive.ObjectID) error
	UpdateFlowerImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
}

type FlowerHandler struct {
	Flowers   FlowerStore
	UploadDir string
}

// flowerInput enumerates every settable field; nothing from the request body
// reaches the model unchecked.
type flowerInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Season      string   `json:"season"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
	ImageURL    string   `json:"imageUrl"`
	InStock     *bool    `json:"inStock"`
	Popularity  *int     `json:"popularity"`
}

func (in *flowerInput) validate() string {
	if in.Name == "" {
		return "Name is required"
	}
	if in.Price == nil {
		return "Price is required"
	}
	if *in.Price < 0 {
		return "Price must not be negative"
	}
	if !models.ValidSeason(models.Season(in.Season)) {
		return "Invalid season specified"
	}
	if !models.ValidCategory(models.Category(in.Category)) {
		return "Invalid category specified"
	}
	return ""
}

func (in *flowerInput) apply(flower *models.Flower) {
	flower.Name = in.Name
	flower.Description = in.Description
	flower.Price = *in.Price
	flower.Season = models.Season(in.Season)
	flower.Category = models.Category(in.Category)
	flower.Colors = in.Colors
	flower.ImageURL = in.ImageURL
	flower.InStock = true
	if in.InStock != nil {
		flower.InStock = *in.InStock
	}
	if in.Popularity != nil {
		flower.Popularity = *in.Popularity
	}
}

// parseListOptions reads catalog filters off the query string.
func parseListOptions(r *http.Request) (store.ListOptions, string) {
	query := r.URL.Query()
	opts := store.ListOptions{
		Season:   models.Season(query.Get("season")),
		Category: models.Category(query.Get("category")),
		Color:    query.Get("color"),
		Search:   query.Get("search"),
		SortBy:   query.Get("sortBy"),
	}
	if opts.Season != "" && !models.ValidSeason(opts.Season) {
		return opts, "Invalid season specified"
	}
	if opts.Category != "" && !models.ValidCategory(opts.Category) {
		return opts, "Invalid category specified"
	}
	if raw := query.Get("minPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, "Invalid minPrice"
		}
		opts.MinPrice = &value
	}
	if raw := query.Get("maxPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, "Invalid maxPrice"
		}
		opts.MaxPrice = &value
	}
	return opts, ""
}

func (h *FlowerHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, problem := parseListOptions(r)
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	flowers, err := h.Flowers.ListFlowers(r.Context(), opts)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if flowers == nil {
		flowers = []models.Flower{}
	}
	respondJSON(w, http.StatusOK, flowers)
}

func (h *FlowerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	flower, err := h.Flowers.GetFlowerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flower not found")
			return
		}
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flower)
}

// Seasons powers the homepage: three most popular flowers per season.
func (h *FlowerHandler) Seasons(w http.ResponseWriter, r *http.Request) {
	featured, err := h.Flowers.FeaturedBySeason(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, featured)
}

func (h *FlowerHandler) BySeason(w http.ResponseWriter, r *http.Request) {
	season := models.Season(r.PathValue("season"))
	if !models.ValidSeason(season) {
		respondError(w, http.StatusBadRequest, "Invalid season specified")
		return
	}

	opts, problem := parseListOptions(r)
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}
	opts.Season = season

	flowers, err := h.Flowers.ListFlowers(r.Context(), opts)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if flowers == nil {
		flowers = []models.Flower{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":  season,
		"count":   len(flowers),
		"flowers": flowers,
	})
}

func (h *FlowerHandler) Popular(w http.ResponseWriter, r *http.Request) {
	flowers, err := h.Flowers.PopularFlowers(r.Context(), 10)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flowers)
}

func (h *FlowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in flowerInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if problem := in.validate(); problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	var flower models.Flower
	in.apply(&flower)

	if err := h.Flowers.CreateFlower(r.Context(), &flower); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, &flower)
}

func (h *FlowerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	var in flowerInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if problem := in.validate(); problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	flower, err := h.Flowers.GetFlowerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flower not found")
			return
		}
		respondServerError(w, err)
		return
	}

	// An update without an imageUrl keeps the stored one.
	existingImage := flower.ImageURL
	in.apply(flower)
	if in.ImageURL == "" {
		flower.ImageURL = existingImage
	}
	if err := h.Flowers.UpdateFlower(r.Context(), flower); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flower)
}

func (h *FlowerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	if err := h.Flowers.DeleteFlower(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flower not found")
			return
		}
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Flower deleted"})
}

// UploadImage accepts a multipart photo, resizes it to a web-friendly width
// and points the flower's imageUrl at the stored copy.
func (h *FlowerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flower ID")
		return
	}

	if _, err := h.Flowers.GetFlowerByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flower not found")
			return
		}
		respondServerError(w, err)
		return
	}

	// 1. Parse Multipart Form
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		respondError(w, http.StatusBadRequest, "File too large. Max 10MB.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	// 2. Decode and optimize
	var img image.Image
	ext := filepath.Ext(header.Filename)
	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpeg", ".jpg":
		img, err = jpeg.Decode(file)
	default:
		respondError(w, http.StatusBadRequest, "Unsupported image format. Only PNG, JPG, JPEG are allowed.")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}

	// Resize image (max width 800px, preserve aspect ratio)
	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join(h.UploadDir, filename)

	out, err := os.Create(uploadPath)
	if err != nil {
		respondServerError(w, err)
		return
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		respondServerError(w, err)
		return
	}

	// 3. Point the flower at the stored copy
	imageURL := "/uploads/" + filename
	if err := h.Flowers.UpdateFlowerImage(r.Context(), id, imageURL); err != nil {
		respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
