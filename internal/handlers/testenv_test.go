package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/shop-api/internal/hash"
	"github.com/avolkov/shop-api/internal/models"
	"github.com/avolkov/shop-api/internal/service/token"
)

type stubPublisher struct {
	events []map[string]interface{}
}

func (s *stubPublisher) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	if m, ok := event.(map[string]interface{}); ok {
		s.events = append(s.events, m)
	}
	return nil
}

type stubIndex struct {
	indexed []string
	deleted []string
}

func (s *stubIndex) IndexProduct(ctx context.Context, p models.Product) error {
	s.indexed = append(s.indexed, p.ID)
	return nil
}

func (s *stubIndex) DeleteProduct(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	P      *ProductHandler
	U      *UserHandler
	A      *AuthHandler
	Tokens *token.Service
	Events *stubPublisher
	Index  *stubIndex
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// In-memory sqlite lives per connection; keep the pool at one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.User{}))

	env := &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: &token.Service{Secret: []byte("test_secret")},
		Events: &stubPublisher{},
		Index:  &stubIndex{},
	}
	env.P = &ProductHandler{DB: db, Events: env.Events, Search: env.Index}
	env.U = &UserHandler{DB: db, Events: env.Events}
	env.A = &AuthHandler{DB: db, Tokens: env.Tokens, Events: env.Events}

	t.Cleanup(func() { _ = sqlDB.Close() })

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(email, password, role string) models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	var n int64
	env.DB.Model(&models.User{}).Count(&n)
	user := models.User{
		Email:        email,
		Name:         fmt.Sprintf("user %d", n+1),
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

// asUser injects the authenticated identity the way the auth middleware does.
func asUser(c echo.Context, userID string) {
	c.Set("userID", userID)
}
