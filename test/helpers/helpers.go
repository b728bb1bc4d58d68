package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"parishlink/internal/app"
	"parishlink/internal/auth"
	"parishlink/internal/models"
	"parishlink/internal/services"
	"parishlink/pkg/contextkeys"
)

// TestServer bundles a router and the transaction it runs inside. Every
// request is routed through the transaction, so tests roll back clean.
type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

// NewTestServer opens a transaction on db, builds the full router and
// registers a rollback cleanup.
func NewTestServer(t *testing.T, db *gorm.DB) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })

	sc := services.NewServiceContainer()
	router := app.SetupRouter(tx, sc, nil)

	return &TestServer{Router: router, DB: tx}
}

// SendRequest performs one request against the in-memory router. body
// is JSON-marshalled when non-nil; token, when set, goes into the
// Authorization header.
func (s *TestServer) SendRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// Route repositories at the test transaction instead of the pool.
	ctx := context.WithValue(req.Context(), contextkeys.DBContextKey, s.DB)
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// DecodeBody unmarshals a recorded JSON response into out.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// CreateUser inserts a user directly, bypassing the registration
// endpoint, and returns it with a valid access token.
func (s *TestServer) CreateUser(t *testing.T, email string, role models.UserRole, status models.ApprovalStatus) (*models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("test-password-123")
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		Email:         email,
		PasswordHash:  hash,
		Name:          "Test " + string(role),
		Role:          role,
		Denomination:  "Baptist",
		Branch:        "Central",
		AccountStatus: status,
	}
	if status == models.ApprovalStatusApproved {
		user.AccountApprovedAt = &now
		user.AccountApprovedBy = "test"
	}
	require.NoError(t, s.DB.Create(user).Error)

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)
	return user, token
}

// CreateApprovedMember is the common case.
func (s *TestServer) CreateApprovedMember(t *testing.T, email string) (*models.User, string) {
	return s.CreateUser(t, email, models.UserRoleMember, models.ApprovalStatusApproved)
}

// CreateAdmin seeds an approved admin.
func (s *TestServer) CreateAdmin(t *testing.T, email string) (*models.User, string) {
	return s.CreateUser(t, email, models.UserRoleAdmin, models.ApprovalStatusApproved)
}

// RequireStatus asserts the HTTP status with the body in the failure
// message.
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
