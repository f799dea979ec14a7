package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"budget-api/internal/middleware"
	"budget-api/internal/models"
	"budget-api/internal/store"
)

// fakeStore keeps users in a slice and enforces username uniqueness the way
// the Mongo index does.
type fakeStore struct {
	users []models.User
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertUser(_ context.Context, user *models.User) error {
	for i := range f.users {
		if f.users[i].Username == user.Username {
			return store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeStore) SetSavingPercent(_ context.Context, id primitive.ObjectID, percent float64) (int64, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].SavingPercent = &percent
			return 1, nil
		}
	}
	return 0, nil
}

func newRouter(fs *fakeStore) *chi.Mux {
	h := NewHandler(fs)
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.ValidateUserID).Put("/{userID}/saving-percent", h.UpdateSavingPercent)
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterThenLogin(t *testing.T) {
	fs := &fakeStore{}
	r := newRouter(fs)

	rec := do(t, r, "POST", "/users/register", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, fs.users, 1)
	assert.NotEqual(t, "secret123", fs.users[0].Password, "password must be stored hashed")

	rec = do(t, r, "POST", "/users/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Welcome back, alice!", body["message"])
	assert.Equal(t, fs.users[0].ID.Hex(), body["user_id"])
}

func TestRegisterValidation(t *testing.T) {
	r := newRouter(&fakeStore{})

	tests := []struct {
		name string
		body string
	}{
		{"username too short", `{"username":"al","password":"secret123"}`},
		{"username too long", `{"username":"` + strings.Repeat("a", 31) + `","password":"secret123"}`},
		{"password too short", `{"username":"alice","password":"12345"}`},
		{"malformed body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, "POST", "/users/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	fs := &fakeStore{}
	r := newRouter(fs)

	rec := do(t, r, "POST", "/users/register", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	firstHash := fs.users[0].Password

	rec = do(t, r, "POST", "/users/register", `{"username":"alice","password":"different1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicates answer 400, not 409")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Username already exists", body["detail"])

	// The stored row is untouched by the failed attempt.
	require.Len(t, fs.users, 1)
	assert.Equal(t, firstHash, fs.users[0].Password)
}

func TestLoginInvalidCredentials(t *testing.T) {
	fs := &fakeStore{}
	r := newRouter(fs)

	rec := do(t, r, "POST", "/users/register", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, "POST", "/users/login", `{"username":"alice","password":"wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, "POST", "/users/login", `{"username":"nobody","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateSavingPercent(t *testing.T) {
	fs := &fakeStore{}
	r := newRouter(fs)

	rec := do(t, r, "POST", "/users/register", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	userID := fs.users[0].ID.Hex()

	rec = do(t, r, "PUT", "/users/"+userID+"/saving-percent", `{"percent":25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, fs.users[0].SavingPercent)
	assert.Equal(t, 25.0, *fs.users[0].SavingPercent)

	rec = do(t, r, "PUT", "/users/"+userID+"/saving-percent", `{"percent":101}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, "PUT", "/users/"+userID+"/saving-percent", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, "PUT", "/users/"+primitive.NewObjectID().Hex()+"/saving-percent", `{"percent":25}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, "PUT", "/users/not-an-oid/saving-percent", `{"percent":25}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
