package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopapi/internal/models"
	"shopapi/internal/mykafka"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Session{}, &models.CartItem{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func testProducer() *mykafka.Producer {
	return mykafka.NewProducer(nil)
}

// newJSONContext builds an echo context carrying an optional JSON body.
func newJSONContext(t *testing.T, e *echo.Echo, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var req = httptest.NewRequest(method, target, nil)
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(bodyBytes))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asAuthenticated mimics what RequireSession does after resolving a session.
func asAuthenticated(c echo.Context, userID uint) {
	c.Set("userID", userID)
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
