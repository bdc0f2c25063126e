package handlers

import (
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"taskman/internal/auth"
	"taskman/internal/mail"
	"taskman/internal/models"
	"taskman/internal/store"
)

const testJWTSecret = "taskman_test_jwt_secret_key_1234567890"

const (
	authLookupQuery = `SELECT u.id, u.name, u.email, u.password, u.age, u.created_at, u.updated_at FROM users u JOIN user_tokens t ON t.user_id = u.id WHERE u.id = $1 AND t.token = $2`
	addTokenQuery   = `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`
)

var userColumns = []string{"id", "name", "email", "password", "age", "created_at", "updated_at"}
var taskColumns = []string{"id", "owner_id", "description", "completed", "created_at", "updated_at"}

// recordingSender captures every message the dispatcher delivers.
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (r *recordingSender) Send(msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]mail.Message, len(r.sent))
	copy(out, r.sent)
	return out
}

type testEnv struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	tokens *auth.TokenManager
	sender *recordingSender

	dispatcher *mail.Dispatcher
	drainOnce  sync.Once
}

// drainMail stops the dispatcher after delivering everything queued, so
// tests can assert on the recorded messages.
func (e *testEnv) drainMail() {
	e.drainOnce.Do(e.dispatcher.Close)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	sender := &recordingSender{}
	env := &testEnv{
		mock:       mock,
		tokens:     auth.NewTokenManager(testJWTSecret),
		sender:     sender,
		dispatcher: mail.NewDispatcher(sender, 8),
	}

	handler := New(store.NewUserStore(db), store.NewTaskStore(db), env.tokens, env.dispatcher)
	env.router = gin.New()
	handler.RegisterRoutes(env.router)

	t.Cleanup(func() {
		env.drainMail()
		_ = db.Close()
	})

	return env
}

// testUser is the fixture account most tests authenticate as.
func testUser() *models.User {
	return &models.User{
		ID:        101,
		Name:      "James",
		Email:     "james@gmail.com",
		Password:  "$2a$10$hashedhashedhashedhashedhashedhashedhashedhashedhash",
		Age:       30,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func userRow(user *models.User) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).
		AddRow(user.ID, user.Name, user.Email, user.Password, user.Age, user.CreatedAt, user.UpdatedAt)
}

// authorize mints a token for the fixture user and primes the mock for the
// middleware's active-token lookup.
func (e *testEnv) authorize(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := e.tokens.Generate(user.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	e.mock.
		ExpectQuery(regexp.QuoteMeta(authLookupQuery)).
		WithArgs(user.ID, token).
		WillReturnRows(userRow(user))

	return token
}

func mustStatus(t *testing.T, actual int, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func expectHTTP200(t *testing.T, status int) {
	t.Helper()
	mustStatus(t, status, http.StatusOK)
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
