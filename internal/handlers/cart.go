package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "shopapi/internal/middleware/auth"
	"shopapi/internal/models"
	"shopapi/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// AddToCart records one "added to cart" event. Repeat calls for the same
// product insert independent rows.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	productID, err := parseID(c)
	if err != nil {
		return err
	}

	var prod models.Product
	if err := h.DB.First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: prod.ID,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": prod.ID,
		"itemID":    item.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "added to cart", "id": item.ID})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var items []models.CartItem
	if err := h.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	itemID, err := parseID(c)
	if err != nil {
		return err
	}

	result := h.DB.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":   "cart_item_removed",
		"userID": userID,
		"itemID": itemID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "removed from cart"})
}
