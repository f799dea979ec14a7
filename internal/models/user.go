package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"budget-api/internal/api"
)

// User is a document in the users collection. The password field holds the
// bcrypt digest, never the plaintext.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Password      string             `bson:"password"`
	SavingPercent *float64           `bson:"saving_percent,omitempty"`
}

// RegisterRequest is the JSON body for POST /users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if len(r.Username) < 3 || len(r.Username) > 30 {
		return api.Validation("username must be 3-30 characters")
	}
	if len(r.Password) < 6 {
		return api.Validation("password must be at least 6 characters")
	}
	return nil
}

// LoginRequest is the JSON body for POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SavingPercentRequest is the JSON body for PUT /users/{userID}/saving-percent.
type SavingPercentRequest struct {
	Percent *float64 `json:"percent"`
}

func (r *SavingPercentRequest) Validate() error {
	if r.Percent == nil || *r.Percent < 0 || *r.Percent > 100 {
		return api.Validation("percent must be between 0 and 100")
	}
	return nil
}
