package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shopapi/internal/models"
	"shopapi/internal/mykafka"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Name        string   `json:"name"`
		Price       *float64 `json:"price"`
		Description string   `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// Name and price are mandatory; price presence is detected via pointer
	// binding so an explicit 0 still passes. Values are not range-checked.
	if req.Name == "" || req.Price == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "name and price are required")
	}

	prod := models.Product{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
	}
	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product added", "id": prod.ID})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	var items []models.Product
	if err := h.DB.Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []models.Product{}
	}
	return c.JSON(http.StatusOK, echo.Map{"products": items})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Partial overwrite: only fields present in the body change.
	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}

	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product updated"})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Cart rows referencing the product go with it, in one transaction, so no
	// dangling references survive the delete.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", prod.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&prod).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_deleted",
		"productID": prod.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
