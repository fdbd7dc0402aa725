package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/desivar/bridebloom/internal/auth"
	"github.com/desivar/bridebloom/internal/models"
	"github.com/desivar/bridebloom/internal/store"
)

// bcryptCost matches the cost the shop has always hashed with.
const bcryptCost = 10

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type AuthHandler struct {
	Users    UserStore
	Secret   []byte
	TokenTTL time.Duration
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	WeddingDate string `json:"weddingDate"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// parseDate accepts the two date shapes clients send.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleAdmin {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	var weddingDate *time.Time
	if req.WeddingDate != "" {
		parsed, err := parseDate(req.WeddingDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid wedding date")
			return
		}
		weddingDate = &parsed
	}
	if role == models.RoleCustomer && weddingDate == nil {
		respondError(w, http.StatusBadRequest, "Wedding date is required for customers")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		respondServerError(w, err)
		return
	}

	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hashed),
		Role:        role,
		Phone:       req.Phone,
		Address:     req.Address,
		WeddingDate: weddingDate,
	}

	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		respondServerError(w, err)
		return
	}

	token, err := auth.Sign(h.Secret, user.ID.Hex(), string(user.Role), h.TokenTTL)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Same response for unknown email and wrong password.
	user, err := h.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondServerError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.Sign(h.Secret, user.ID.Hex(), string(user.Role), h.TokenTTL)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CurrentUser(r))
}

// Logout is advisory: tokens are stateless and stay valid until expiry, the
// client just discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

type contextKey string

const userContextKey contextKey = "user"

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// lookup resolves a bearer token to its user, stripping nothing: the model
// never serializes the password hash.
func (h *AuthHandler) lookup(r *http.Request) (*models.User, int, string) {
	token := bearerToken(r)
	if token == "" {
		return nil, http.StatusUnauthorized, "Authentication required"
	}

	claims, err := auth.Verify(h.Secret, token)
	if err != nil {
		return nil, http.StatusForbidden, "Invalid or expired token"
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, http.StatusForbidden, "Invalid or expired token"
	}

	user, err := h.Users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived the account.
			return nil, http.StatusNotFound, "User not found"
		}
		return nil, http.StatusInternalServerError, "Something went wrong!"
	}
	return user, 0, ""
}

// Authenticate ensures the request carries a valid bearer token and attaches
// the user to the request context.
func (h *AuthHandler) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, status, message := h.lookup(r)
		if user == nil {
			respondError(w, status, message)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// Identify resolves the user when a valid token accompanies the request and
// returns nil otherwise. Used by endpoints that are public but link a user
// when one is known.
func (h *AuthHandler) Identify(r *http.Request) *models.User {
	user, _, _ := h.lookup(r)
	return user
}

// RequireAdmin gates admin-only mutations. Must run inside Authenticate.
func (h *AuthHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil || user.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}
