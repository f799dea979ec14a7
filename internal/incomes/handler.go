package incomes

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"budget-api/internal/api"
	"budget-api/internal/middleware"
	"budget-api/internal/models"
	"budget-api/internal/period"
	"budget-api/internal/store"
)

// Store defines the persistence the income handlers need. The saving
// summary reads across incomes, expenses and users.
type Store interface {
	InsertIncome(ctx context.Context, income *models.Income) error
	ListIncomes(ctx context.Context, userID primitive.ObjectID, w *store.Window) ([]models.Income, error)
	UpdateIncome(ctx context.Context, incomeID, userID primitive.ObjectID, income *models.Income) (int64, error)
	DeleteIncome(ctx context.Context, incomeID, userID primitive.ObjectID) (int64, error)
	ListExpenses(ctx context.Context, userID primitive.ObjectID, w *store.Window, category string) ([]models.Expense, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Handler holds income HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

// incomeRow is the listing shape: ids as hex strings, date as a full
// RFC 3339 timestamp. Expense listings render date-only; the asymmetry is
// long-standing API behavior.
type incomeRow struct {
	ID     string  `json:"_id"`
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Source string  `json:"source"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Add stores a new income with the date normalized to midnight.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.IncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		api.WriteError(w, err)
		return
	}
	// Redundant with schema validation, which already rejects amount <= 0.
	// Kept because the API has always had both checks.
	if req.Amount < 0 {
		api.WriteError(w, api.Validation("Income amount cannot be negative"))
		return
	}

	if err := h.store.InsertIncome(r.Context(), req.Document(userID)); err != nil {
		log.Printf("add income: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}

	api.Success(w, "Income added")
}

// List returns the user's incomes, optionally restricted to a calendar
// month when both year and month are given.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var window *store.Window
	yearStr, monthStr := r.URL.Query().Get("year"), r.URL.Query().Get("month")
	if yearStr != "" && monthStr != "" {
		year, yerr := strconv.Atoi(yearStr)
		month, merr := strconv.Atoi(monthStr)
		if yerr != nil || merr != nil {
			api.WriteError(w, api.Validation("Invalid month/year combination"))
			return
		}
		start, end, err := period.MonthRange(year, month)
		if err != nil {
			api.WriteError(w, api.Validation("Invalid month/year combination"))
			return
		}
		window = &store.Window{Start: start, End: end}
	}

	incomes, err := h.store.ListIncomes(r.Context(), userID, window)
	if err != nil {
		log.Printf("list incomes: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if len(incomes) == 0 {
		api.WriteError(w, api.NotFound("No income data found for the given period"))
		return
	}

	rows := make([]incomeRow, 0, len(incomes))
	for _, in := range incomes {
		rows = append(rows, incomeRow{
			ID:     in.ID.Hex(),
			UserID: in.UserID.Hex(),
			Amount: in.Amount,
			Date:   in.Date.Format(time.RFC3339),
			Source: in.Source,
		})
	}
	api.WriteJSON(w, http.StatusOK, rows)
}

// Update replaces the income matched by (incomeID, userID). A $set with
// identical values modifies nothing, so updating a row to its current
// values is indistinguishable from updating a missing row.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	incomeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "incomeID"))
	if err != nil {
		api.WriteError(w, api.Validation("invalid income id"))
		return
	}

	var req models.IncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		api.WriteError(w, err)
		return
	}
	if req.Amount < 0 {
		api.WriteError(w, api.Validation("Income amount cannot be negative"))
		return
	}

	modified, err := h.store.UpdateIncome(r.Context(), incomeID, userID, req.Document(userID))
	if err != nil {
		log.Printf("update income: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if modified == 0 {
		api.WriteError(w, api.NotFound("Income not found or unchanged"))
		return
	}

	api.Success(w, "Income updated")
}

// Delete removes the income matched by (incomeID, userID).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	incomeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "incomeID"))
	if err != nil {
		api.WriteError(w, api.Validation("invalid income id"))
		return
	}

	deleted, err := h.store.DeleteIncome(r.Context(), incomeID, userID)
	if err != nil {
		log.Printf("delete income: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if deleted == 0 {
		api.WriteError(w, api.NotFound("Income not found"))
		return
	}

	api.Success(w, "Income deleted")
}

// SavingSummary sums incomes and expenses over a rolling window ending now
// and reports the net. An empty window is not an error: the totals are
// simply zero. All money values are rounded to two decimals.
func (h *Handler) SavingSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	months, err := period.Parse(r.URL.Query().Get("period"))
	if err != nil {
		api.WriteError(w, api.Validation(err.Error()))
		return
	}

	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		log.Printf("saving summary: find user: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if user == nil {
		api.WriteError(w, api.NotFound("User not found"))
		return
	}

	start, end := period.Window(time.Now().UTC(), months)
	window := &store.Window{Start: start, End: end, IncludeEnd: true}

	incomes, err := h.store.ListIncomes(r.Context(), userID, window)
	if err != nil {
		log.Printf("saving summary: list incomes: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	expenses, err := h.store.ListExpenses(r.Context(), userID, window, "")
	if err != nil {
		log.Printf("saving summary: list expenses: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}

	var totalIncome, totalExpenses float64
	for _, in := range incomes {
		totalIncome += in.Amount
	}
	for _, ex := range expenses {
		totalExpenses += ex.Amount
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period_start":   start.Format("2006-01-02"),
		"period_end":     end.Format("2006-01-02"),
		"total_income":   round2(totalIncome),
		"total_expenses": round2(totalExpenses),
		"net_saved":      round2(totalIncome - totalExpenses),
	})
}
