package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"budget-api/internal/api"
)

// Context key type to avoid collisions.
type contextKey string

const userIDKey contextKey = "user_id"

// ValidateUserID parses the {userID} path parameter into an ObjectID once
// at the boundary and injects it into the request context. Malformed ids
// are rejected before any store query. It does not authenticate: every
// owner-scoped operation trusts the id the client puts in the path.
func ValidateUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
		if err != nil {
			api.WriteError(w, api.Validation("invalid user id"))
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, oid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the ObjectID stored by ValidateUserID.
func UserID(r *http.Request) primitive.ObjectID {
	oid, _ := r.Context().Value(userIDKey).(primitive.ObjectID)
	return oid
}
