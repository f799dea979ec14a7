package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"budget-api/internal/api"
)

// Expense is a document in the expenses collection. Note is a pointer so an
// omitted note round-trips as null, matching the stored shape.
type Expense struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"user_id"`
	Amount   float64            `bson:"amount"`
	Category string             `bson:"category"`
	Date     time.Time          `bson:"date"`
	Note     *string            `bson:"note"`
}

// ExpenseRequest is the JSON body for expense create and update.
type ExpenseRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     Date    `json:"date"`
	Note     *string `json:"note"`
}

func (r *ExpenseRequest) Validate() error {
	if r.Amount <= 0 {
		return api.Validation("amount must be greater than 0")
	}
	if len(r.Category) < 1 || len(r.Category) > 50 {
		return api.Validation("category must be 1-50 characters")
	}
	if r.Date.IsZero() {
		return api.Validation("date is required")
	}
	if r.Note != nil && len(*r.Note) > 200 {
		return api.Validation("note must be at most 200 characters")
	}
	return nil
}

// Document builds the stored expense for the given owner, with the date
// normalized to midnight UTC.
func (r *ExpenseRequest) Document(userID primitive.ObjectID) *Expense {
	return &Expense{
		UserID:   userID,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     r.Date.Midnight(),
		Note:     r.Note,
	}
}
