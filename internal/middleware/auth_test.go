package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"taskman/internal/auth"
	"taskman/internal/store"
)

const lookupQuery = `SELECT u.id, u.name, u.email, u.password, u.age, u.created_at, u.updated_at FROM users u JOIN user_tokens t ON t.user_id = u.id WHERE u.id = $1 AND t.token = $2`

func newAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("middleware_test_jwt_secret_1234567890")

	router := gin.New()
	router.GET("/protected", Auth(store.NewUserStore(db), tokens), func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user missing from context"})
			return
		}
		raw, _ := TokenFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": raw})
	})
	return router, mock, tokens
}

func get(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthAcceptsActiveToken(t *testing.T) {
	router, mock, tokens := newAuthRouter(t)

	token, err := tokens.Generate(33)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.
		ExpectQuery(regexp.QuoteMeta(lookupQuery)).
		WithArgs(33, token).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "age", "created_at", "updated_at"}).
			AddRow(33, "James", "james@gmail.com", "hash", 27, now, now))

	resp := get(router, "Bearer "+token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	router, mock, tokens := newAuthRouter(t)

	token, err := tokens.Generate(33)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Valid signature but the token is gone from user_tokens.
	mock.
		ExpectQuery(regexp.QuoteMeta(lookupQuery)).
		WithArgs(33, token).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "age", "created_at", "updated_at"}))

	resp := get(router, "Bearer "+token)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	other := auth.NewTokenManager("a_completely_different_secret_key_000")
	token, err := other.Generate(33)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	resp := get(router, "Bearer "+token)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthRejectsMalformedHeaders(t *testing.T) {
	router, _, tokens := newAuthRouter(t)

	token, err := tokens.Generate(33)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	headers := []string{
		"",
		"Bearer",
		"Basic " + token,
		token,
		"Bearer not-a-jwt",
	}
	for _, header := range headers {
		resp := get(router, header)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
		if body := resp.Body.String(); !regexp.MustCompile(`Please authenticate!`).MatchString(body) {
			t.Fatalf("header %q: expected generic auth error, got %s", header, body)
		}
	}
}
