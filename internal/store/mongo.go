// Package store is the MongoDB client for the four budget collections:
// users, incomes, expenses and categories (the last is reserved and not
// queried by any handler yet).
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"budget-api/internal/models"
)

// ErrDuplicate reports a unique-index violation on insert.
var ErrDuplicate = errors.New("duplicate key")

// Connect creates and pings a Mongo client. The caller owns the client and
// must Disconnect it at shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Mongo handles budget document CRUD in MongoDB.
type Mongo struct {
	db         *mongo.Database
	users      *mongo.Collection
	incomes    *mongo.Collection
	expenses   *mongo.Collection
	categories *mongo.Collection
}

func New(db *mongo.Database) *Mongo {
	return &Mongo{
		db:         db,
		users:      db.Collection("users"),
		incomes:    db.Collection("incomes"),
		expenses:   db.Collection("expenses"),
		categories: db.Collection("categories"),
	}
}

// EnsureIndexes creates the unique username index. The register handler does
// a lookup-then-insert, so the index is what actually closes the race
// between two concurrent registrations of the same name.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// CollectionNames lists the database's collections for the health check.
func (s *Mongo) CollectionNames(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.M{})
}

// Window bounds a date query. Listing queries use [Start, End); summary
// queries set IncludeEnd for [Start, End].
type Window struct {
	Start      time.Time
	End        time.Time
	IncludeEnd bool
}

func (w *Window) filter() bson.M {
	upper := "$lt"
	if w.IncludeEnd {
		upper = "$lte"
	}
	return bson.M{"$gte": w.Start, upper: w.End}
}

// ── Users ────────────────────────────────────────────────

// FindUserByUsername returns nil without error when no user matches.
func (s *Mongo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return &u, nil
}

// FindUserByID returns nil without error when no user matches.
func (s *Mongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return &u, nil
}

func (s *Mongo) InsertUser(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("mongo insert user: %w", err)
	}
	return nil
}

// SetSavingPercent updates the user's saving percent and reports how many
// documents matched.
func (s *Mongo) SetSavingPercent(ctx context.Context, id primitive.ObjectID, percent float64) (int64, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"saving_percent": percent}},
	)
	if err != nil {
		return 0, fmt.Errorf("mongo update user: %w", err)
	}
	return res.MatchedCount, nil
}

// ── Incomes ──────────────────────────────────────────────

func (s *Mongo) InsertIncome(ctx context.Context, income *models.Income) error {
	_, err := s.incomes.InsertOne(ctx, income)
	if err != nil {
		return fmt.Errorf("mongo insert income: %w", err)
	}
	return nil
}

// ListIncomes returns the user's incomes, restricted to the window when one
// is given.
func (s *Mongo) ListIncomes(ctx context.Context, userID primitive.ObjectID, w *Window) ([]models.Income, error) {
	query := bson.M{"user_id": userID}
	if w != nil {
		query["date"] = w.filter()
	}
	cur, err := s.incomes.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mongo find incomes: %w", err)
	}
	defer cur.Close(ctx)

	var incomes []models.Income
	if err := cur.All(ctx, &incomes); err != nil {
		return nil, fmt.Errorf("mongo decode incomes: %w", err)
	}
	return incomes, nil
}

// UpdateIncome replaces the document's fields by (incomeID, userID) match
// and reports the modified count. A $set with identical values modifies
// nothing, so "unchanged" and "missing" both report zero.
func (s *Mongo) UpdateIncome(ctx context.Context, incomeID, userID primitive.ObjectID, income *models.Income) (int64, error) {
	res, err := s.incomes.UpdateOne(ctx,
		bson.M{"_id": incomeID, "user_id": userID},
		bson.M{"$set": bson.M{
			"amount":  income.Amount,
			"date":    income.Date,
			"source":  income.Source,
			"user_id": userID,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("mongo update income: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Mongo) DeleteIncome(ctx context.Context, incomeID, userID primitive.ObjectID) (int64, error) {
	res, err := s.incomes.DeleteOne(ctx, bson.M{"_id": incomeID, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("mongo delete income: %w", err)
	}
	return res.DeletedCount, nil
}

// ── Expenses ─────────────────────────────────────────────

func (s *Mongo) InsertExpense(ctx context.Context, expense *models.Expense) error {
	_, err := s.expenses.InsertOne(ctx, expense)
	if err != nil {
		return fmt.Errorf("mongo insert expense: %w", err)
	}
	return nil
}

// ListExpenses returns the user's expenses, restricted to the window and to
// an exact category match when given.
func (s *Mongo) ListExpenses(ctx context.Context, userID primitive.ObjectID, w *Window, category string) ([]models.Expense, error) {
	query := bson.M{"user_id": userID}
	if w != nil {
		query["date"] = w.filter()
	}
	if category != "" {
		query["category"] = category
	}
	cur, err := s.expenses.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mongo find expenses: %w", err)
	}
	defer cur.Close(ctx)

	var expenses []models.Expense
	if err := cur.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("mongo decode expenses: %w", err)
	}
	return expenses, nil
}

func (s *Mongo) UpdateExpense(ctx context.Context, expenseID, userID primitive.ObjectID, expense *models.Expense) (int64, error) {
	res, err := s.expenses.UpdateOne(ctx,
		bson.M{"_id": expenseID, "user_id": userID},
		bson.M{"$set": bson.M{
			"amount":   expense.Amount,
			"category": expense.Category,
			"date":     expense.Date,
			"note":     expense.Note,
			"user_id":  userID,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("mongo update expense: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Mongo) DeleteExpense(ctx context.Context, expenseID, userID primitive.ObjectID) (int64, error) {
	res, err := s.expenses.DeleteOne(ctx, bson.M{"_id": expenseID, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("mongo delete expense: %w", err)
	}
	return res.DeletedCount, nil
}
