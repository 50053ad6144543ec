package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/search"
	"github.com/petmart/petmart/internal/store"
)

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "user",
		Email:    "user@example.com",
		Password: string(hash),
	}
}

func TestSigninSuccess(t *testing.T) {
	env := newTestEnv()
	user := hashedUser(t, "123123")
	env.users.getByEmail = func(ctx context.Context, email string) (*models.User, error) {
		assert.Equal(t, user.Email, email)
		return user, nil
	}

	rec := env.request(t, http.MethodPost, "/api/users/signin", "",
		map[string]interface{}{"email": "user@example.com", "password": "123123"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "user", body["name"])
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, body, "password")
}

func TestSigninWrongPassword(t *testing.T) {
	env := newTestEnv()
	env.users.getByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return hashedUser(t, "123123"), nil
	}

	rec := env.request(t, http.MethodPost, "/api/users/signin", "",
		map[string]interface{}{"email": "user@example.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid Email or Password", decodeBody(t, rec)["message"])
}

func TestSigninUnknownEmail(t *testing.T) {
	env := newTestEnv()
	env.users.getByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return nil, store.ErrNotFound
	}

	rec := env.request(t, http.MethodPost, "/api/users/signin", "",
		map[string]interface{}{"email": "nobody@example.com", "password": "123123"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupConflict(t *testing.T) {
	env := newTestEnv()
	env.users.create = func(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
		assert.False(t, isAdmin, "signup must never create an admin")
		return nil, store.ErrConflict
	}

	rec := env.request(t, http.MethodPost, "/api/users/signup", "",
		map[string]interface{}{"name": "user", "email": "user@example.com", "password": "123123"})

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "Email Or Name is Used", decodeBody(t, rec)["message"])
}

func TestSignupHashesPassword(t *testing.T) {
	env := newTestEnv()
	env.users.create = func(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
		assert.NotEqual(t, "123123", password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(password), []byte("123123")))
		return &models.User{ID: primitive.NewObjectID(), Name: name, Email: email}, nil
	}

	rec := env.request(t, http.MethodPost, "/api/users/signup", "",
		map[string]interface{}{"name": "newuser", "email": "new@example.com", "password": "123123"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["token"])
}

func TestUpdateProfilePasswordMismatch(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, http.MethodPut, "/api/users/profile", env.tokenFor(t, false),
		map[string]interface{}{"password": "abc", "confirmPassword": "def"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password does not match", decodeBody(t, rec)["message"])
}

func TestSearchUserList(t *testing.T) {
	env := newTestEnv()
	var got store.UserQuery
	env.users.search = func(ctx context.Context, q store.UserQuery) (search.Result[models.User], error) {
		got = q
		return search.Result[models.User]{
			Records: []models.User{{Name: "u7"}, {Name: "u6"}},
			Total:   7,
			Page:    1,
			Pages:   2,
		}, nil
	}

	rec := env.request(t, http.MethodPost, "/api/users/searchUserList", env.tokenFor(t, false),
		searchBody(map[string]interface{}{"isAdminStatus": "all", "pageNo": 1}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.UserQuery{AdminStatus: "all", Page: 1}, got)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(2), body["pages"])
	users, ok := body["users"].([]interface{})
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, http.MethodPost, "/api/users/createUser", env.tokenFor(t, false),
		searchBody(map[string]interface{}{"name": "x", "email": "x@example.com", "password": "pw"}))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "Invalid Request", decodeBody(t, rec)["message"])
}

func TestCreateUserAsAdmin(t *testing.T) {
	env := newTestEnv()
	env.users.create = func(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
		assert.True(t, isAdmin)
		return &models.User{ID: primitive.NewObjectID(), Name: name, Email: email, IsAdmin: isAdmin}, nil
	}

	rec := env.request(t, http.MethodPost, "/api/users/createUser", env.tokenFor(t, true),
		searchBody(map[string]interface{}{"name": "second-admin", "email": "a2@example.com", "password": "pw", "isAdmin": true}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User successfully created", decodeBody(t, rec)["message"])
}
