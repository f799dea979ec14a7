package expenses

import (
	"context"
	"encoding/json"
	"log"
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

// Store defines the persistence the expense handlers need.
type Store interface {
	InsertExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, userID primitive.ObjectID, w *store.Window, category string) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, expenseID, userID primitive.ObjectID, expense *models.Expense) (int64, error)
	DeleteExpense(ctx context.Context, expenseID, userID primitive.ObjectID) (int64, error)
}

// Handler holds expense HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

// expenseRow is the listing shape: ids as hex strings, date rendered
// date-only (income listings render the full timestamp; the asymmetry is
// long-standing API behavior).
type expenseRow struct {
	ID       string  `json:"_id"`
	UserID   string  `json:"user_id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Note     *string `json:"note"`
}

// Add stores a new expense with the date normalized to midnight.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.ExpenseRequest
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
		api.WriteError(w, api.Validation("Expense amount cannot be negative"))
		return
	}

	if err := h.store.InsertExpense(r.Context(), req.Document(userID)); err != nil {
		log.Printf("add expense: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}

	api.Success(w, "Expense added")
}

// List returns the user's expenses, optionally restricted to a calendar
// month and to an exact category match.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var window *store.Window
	yearStr, monthStr := r.URL.Query().Get("year"), r.URL.Query().Get("month")
	if yearStr != "" && monthStr != "" {
		year, yerr := strconv.Atoi(yearStr)
		month, merr := strconv.Atoi(monthStr)
		if yerr != nil || merr != nil {
			api.WriteError(w, api.Validation("Year and month must be valid integers"))
			return
		}
		start, end, err := period.MonthRange(year, month)
		if err != nil {
			api.WriteError(w, api.Validation("Year and month must be valid integers"))
			return
		}
		window = &store.Window{Start: start, End: end}
	}
	category := r.URL.Query().Get("category")

	expenses, err := h.store.ListExpenses(r.Context(), userID, window, category)
	if err != nil {
		log.Printf("list expenses: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if len(expenses) == 0 {
		api.WriteError(w, api.NotFound("No expenses found for the given criteria"))
		return
	}

	rows := make([]expenseRow, 0, len(expenses))
	for _, ex := range expenses {
		rows = append(rows, expenseRow{
			ID:       ex.ID.Hex(),
			UserID:   ex.UserID.Hex(),
			Amount:   ex.Amount,
			Category: ex.Category,
			Date:     ex.Date.Format("2006-01-02"),
			Note:     ex.Note,
		})
	}
	api.WriteJSON(w, http.StatusOK, rows)
}

// Update replaces the expense matched by (expenseID, userID). As with
// incomes, an update that changes nothing reports not found.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	expenseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "expenseID"))
	if err != nil {
		api.WriteError(w, api.Validation("invalid expense id"))
		return
	}

	var req models.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		api.WriteError(w, err)
		return
	}
	if req.Amount < 0 {
		api.WriteError(w, api.Validation("Expense amount cannot be negative"))
		return
	}

	modified, err := h.store.UpdateExpense(r.Context(), expenseID, userID, req.Document(userID))
	if err != nil {
		log.Printf("update expense: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if modified == 0 {
		api.WriteError(w, api.NotFound("Expense not found or unchanged"))
		return
	}

	api.Success(w, "Expense updated")
}

// Delete removes the expense matched by (expenseID, userID).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	expenseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "expenseID"))
	if err != nil {
		api.WriteError(w, api.Validation("invalid expense id"))
		return
	}

	deleted, err := h.store.DeleteExpense(r.Context(), expenseID, userID)
	if err != nil {
		log.Printf("delete expense: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if deleted == 0 {
		api.WriteError(w, api.NotFound("Expense not found"))
		return
	}

	api.Success(w, "Expense deleted")
}

// Summary totals the user's expenses over a rolling window ending now.
// Unlike the saving summary, an empty window is a 404 and the total is not
// rounded; the period bounds are rendered as full timestamps.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	months, err := period.Parse(r.URL.Query().Get("period"))
	if err != nil {
		api.WriteError(w, api.Validation(err.Error()))
		return
	}

	start, end := period.Window(time.Now().UTC(), months)
	window := &store.Window{Start: start, End: end, IncludeEnd: true}

	expenses, err := h.store.ListExpenses(r.Context(), userID, window, "")
	if err != nil {
		log.Printf("expense summary: %v", err)
		api.WriteError(w, api.Internal("database error"))
		return
	}
	if len(expenses) == 0 {
		api.WriteError(w, api.NotFound("No expense data available for that period"))
		return
	}

	var total float64
	for _, ex := range expenses {
		total += ex.Amount
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period_start":   start.Format(time.RFC3339),
		"period_end":     end.Format(time.RFC3339),
		"total_expenses": total,
		"num_expenses":   len(expenses),
	})
}
