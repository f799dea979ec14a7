package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"budget-api/internal/api"
)

// Income is a document in the incomes collection.
type Income struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id"`
	Amount float64            `bson:"amount"`
	Date   time.Time          `bson:"date"`
	Source string             `bson:"source"`
}

// IncomeRequest is the JSON body for income create and update.
type IncomeRequest struct {
	Amount float64 `json:"amount"`
	Date   Date    `json:"date"`
	Source string  `json:"source"`
}

// Validate applies the schema constraints: amount strictly positive, date
// required, source defaulting to "other". The handlers additionally carry
// their own amount < 0 check, so zero is rejected here and never there.
func (r *IncomeRequest) Validate() error {
	if r.Amount <= 0 {
		return api.Validation("amount must be greater than 0")
	}
	if r.Date.IsZero() {
		return api.Validation("date is required")
	}
	if r.Source == "" {
		r.Source = "other"
	}
	return nil
}

// Document builds the stored income for the given owner, with the date
// normalized to midnight UTC.
func (r *IncomeRequest) Document(userID primitive.ObjectID) *Income {
	return &Income{
		UserID: userID,
		Amount: r.Amount,
		Date:   r.Date.Midnight(),
		Source: r.Source,
	}
}
