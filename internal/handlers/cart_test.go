package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopapi/internal/models"
)

func newCartHandler(t *testing.T) (*CartHandler, *gorm.DB) {
	t.Helper()
	db := initTestDB(t)
	return &CartHandler{DB: db, Producer: testProducer()}, db
}

func TestAddToCartTwiceCreatesTwoRows(t *testing.T) {
	h, db := newCartHandler(t)
	e := echo.New()

	prod := models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, db.Create(&prod).Error)

	var ids []uint
	for i := 0; i < 2; i++ {
		c, rec := newJSONContext(t, e, http.MethodPost, "/api/cart/add/1", nil)
		asAuthenticated(c, 1)
		withIDParam(c, prod.ID)
		require.NoError(t, h.AddToCart(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		ids = append(ids, uint(resp["id"].(float64)))
	}

	require.NotEqual(t, ids[0], ids[1], "each add must create an independent row")

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", 1, prod.ID).
		Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	h, _ := newCartHandler(t)
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/api/cart/add/999", nil)
	asAuthenticated(c, 1)
	withIDParam(c, 999)
	requireHTTPError(t, h.AddToCart(c), http.StatusNotFound)
}

func TestAddToCartWithoutIdentity(t *testing.T) {
	h, db := newCartHandler(t)
	e := echo.New()

	prod := models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, db.Create(&prod).Error)

	c, _ := newJSONContext(t, e, http.MethodPost, "/api/cart/add/1", nil)
	withIDParam(c, prod.ID)
	requireHTTPError(t, h.AddToCart(c), http.StatusUnauthorized)
}

func TestGetCartScopedToUser(t *testing.T) {
	h, db := newCartHandler(t)
	e := echo.New()

	prod := models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, db.Create(&prod).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: prod.ID}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 2, ProductID: prod.ID}).Error)

	c, rec := newJSONContext(t, e, http.MethodGet, "/api/cart", nil)
	asAuthenticated(c, 1)
	require.NoError(t, h.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []models.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.EqualValues(t, 1, resp.Items[0].UserID)
}

func TestRemoveFromCart(t *testing.T) {
	h, db := newCartHandler(t)
	e := echo.New()

	prod := models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, db.Create(&prod).Error)
	mine := models.CartItem{UserID: 1, ProductID: prod.ID}
	require.NoError(t, db.Create(&mine).Error)
	theirs := models.CartItem{UserID: 2, ProductID: prod.ID}
	require.NoError(t, db.Create(&theirs).Error)

	// Cannot remove another user's row.
	cForeign, _ := newJSONContext(t, e, http.MethodDelete, "/api/cart/2", nil)
	asAuthenticated(cForeign, 1)
	withIDParam(cForeign, theirs.ID)
	requireHTTPError(t, h.RemoveFromCart(cForeign), http.StatusNotFound)

	c, rec := newJSONContext(t, e, http.MethodDelete, "/api/cart/1", nil)
	asAuthenticated(c, 1)
	withIDParam(c, mine.ID)
	require.NoError(t, h.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
