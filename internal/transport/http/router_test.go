package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/shop-api/internal/handlers"
	"github.com/avolkov/shop-api/internal/hash"
	"github.com/avolkov/shop-api/internal/models"
	"github.com/avolkov/shop-api/internal/service/token"
)

func newServer(t *testing.T) (*echo.Echo, *gorm.DB, *token.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.User{}))

	tokens := &token.Service{Secret: []byte("test_secret")}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())

	Register(e, &Deps{
		DB:             db,
		Tokens:         tokens,
		AuthHandler:    &handlers.AuthHandler{DB: db, Tokens: tokens},
		ProductHandler: &handlers.ProductHandler{DB: db},
		UserHandler:    &handlers.UserHandler{DB: db},
		SearchHandler:  &handlers.SearchHandler{Index: "product"},
	})

	return e, db, tokens
}

func signedToken(t *testing.T, tokens *token.Service, db *gorm.DB, email, role string) string {
	t.Helper()
	pwHash, err := hash.HashPassword("secret")
	require.NoError(t, err)
	user := models.User{Email: email, Name: "user", PasswordHash: pwHash, Role: role}
	require.NoError(t, db.Create(&user).Error)

	signed, err := tokens.Sign(user.ID, user.Role)
	require.NoError(t, err)
	return signed
}

func doRequest(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	e, _, _ := newServer(t)

	require.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/health/live", "", "").Code)
	require.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/health/ready", "", "").Code)
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	e, db, tokens := newServer(t)

	body := `{"name":"Widget","description":"A widget","price":"9.99","imageUrl":"http://x/img.png"}`

	rec := doRequest(e, http.MethodPost, "/api/products", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := signedToken(t, tokens, db, "user@example.com", models.RoleUser)
	rec = doRequest(e, http.MethodPost, "/api/products", body, userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := signedToken(t, tokens, db, "admin@example.com", models.RoleAdmin)
	rec = doRequest(e, http.MethodPost, "/api/products", body, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"price":9.99`)

	// The catalog itself stays public.
	rec = doRequest(e, http.MethodGet, "/api/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUsersMeResolvesBearerIdentity(t *testing.T) {
	e, db, tokens := newServer(t)

	rec := doRequest(e, http.MethodGet, "/api/users/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := signedToken(t, tokens, db, "me@example.com", models.RoleUser)
	rec = doRequest(e, http.MethodGet, "/api/users/me", "", userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "me@example.com")
}

func TestSearchUnavailableWithoutES(t *testing.T) {
	e, _, _ := newServer(t)

	rec := doRequest(e, http.MethodGet, "/api/products/search?q=widget", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
