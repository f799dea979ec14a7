package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"budget-api/internal/api"
	"budget-api/internal/middleware"
	"budget-api/internal/models"
	"budget-api/internal/password"
	"budget-api/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store defines the user persistence the handlers need.
type Store interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
	SetSavingPercent(ctx context.Context, id primitive.ObjectID, percent float64) (int64, error)
}

// Handler holds user HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

// Register creates a new user with a bcrypt-hashed password. Uniqueness is
// checked by lookup first, with the unique index backstopping the race
// between concurrent registrations of the same name.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		api.WriteError(w, err)
		return
	}

	existing, err := h.store.FindUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("register: find user: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if existing != nil {
		api.WriteError(w, api.Conflict("Username already exists"))
		return
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		api.WriteError(w, api.Internal("internal error"))
		return
	}

	err = h.store.InsertUser(r.Context(), &models.User{
		Username: req.Username,
		Password: hashed,
	})
	if errors.Is(err, store.ErrDuplicate) {
		api.WriteError(w, api.Conflict("Username already exists"))
		return
	}
	if err != nil {
		log.Printf("register: insert user: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}

	api.Success(w, "User registered successfully")
}

// Login verifies credentials and returns the stored user's id. No token or
// session is issued; owner-scoped routes take the id in the path.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.Validation("invalid request body"))
		return
	}

	user, err := h.store.FindUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("login: find user: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if user == nil || !password.Verify(req.Password, user.Password) {
		api.WriteError(w, api.Unauthorized("Invalid credentials"))
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Welcome back, %s!", user.Username),
		"user_id": user.ID.Hex(),
	})
}

// UpdateSavingPercent sets the user's saving target percentage.
func (h *Handler) UpdateSavingPercent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.SavingPercentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		api.WriteError(w, err)
		return
	}

	matched, err := h.store.SetSavingPercent(r.Context(), userID, *req.Percent)
	if err != nil {
		log.Printf("saving-percent: update user: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if matched == 0 {
		api.WriteError(w, api.NotFound("User not found"))
		return
	}

	api.Success(w, "Saving percent updated")
}
