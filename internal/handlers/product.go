package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov/shop-api/internal/httperr"
	"github.com/avolkov/shop-api/internal/logging"
	"github.com/avolkov/shop-api/internal/models"
)

type ProductHandler struct {
	DB     *gorm.DB
	Events EventPublisher
	Search ProductIndex
}

// productRequest accepts price as either a JSON number or a string, since the
// admin form submits the raw text input verbatim.
type productRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	ImageURL    string      `json:"imageUrl"`
	Stock       uint        `json:"stock"`
	CategoryID  *string     `json:"categoryId"`
}

func (r *productRequest) validate() (float64, string) {
	if r.Name == "" {
		return 0, "name is required"
	}
	price, err := r.Price.Float64()
	if err != nil {
		return 0, "price must be a number"
	}
	if price < 0 {
		return 0, "price must not be negative"
	}
	return price, ""
}

func (h *ProductHandler) index(c echo.Context, p models.Product) {
	if h.Search == nil {
		return
	}
	if err := h.Search.IndexProduct(c.Request().Context(), p); err != nil {
		logging.FromContext(c.Request().Context()).Error("product index failed", "id", p.ID, "error", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	var items []models.Product
	if err := h.DB.Order("created_at DESC").Find(&items).Error; err != nil {
		return httperr.Internal(c, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	var prod models.Product
	if err := h.DB.Where("id = ?", c.Param("id")).First(&prod).Error; err != nil {
		return httperr.FromDB(c, err, "Product not found", "Failed to fetch product")
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}

	price, msg := req.validate()
	if msg != "" {
		return httperr.BadRequest(c, msg)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return httperr.Internal(c, "Failed to create product")
	}

	h.index(c, prod)
	publish(c, h.Events, "product_events", prod.ID, map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

// UpdateProduct replaces name, description, price and imageUrl wholesale.
// There are no partial-update semantics on this route.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}

	price, msg := req.validate()
	if msg != "" {
		return httperr.BadRequest(c, msg)
	}

	var prod models.Product
	if err := h.DB.Where("id = ?", c.Param("id")).First(&prod).Error; err != nil {
		return httperr.FromDB(c, err, "Product not found", "Failed to update product")
	}

	prod.Name = req.Name
	prod.Description = req.Description
	prod.Price = price
	prod.ImageURL = req.ImageURL
	prod.Stock = req.Stock
	prod.CategoryID = req.CategoryID

	if err := h.DB.Save(&prod).Error; err != nil {
		return httperr.Internal(c, "Failed to update product")
	}

	h.index(c, prod)
	publish(c, h.Events, "product_events", prod.ID, map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")

	res := h.DB.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return httperr.Internal(c, "Failed to delete product")
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound(c, "Product not found")
	}

	if h.Search != nil {
		if err := h.Search.DeleteProduct(c.Request().Context(), id); err != nil {
			logging.FromContext(c.Request().Context()).Error("product index delete failed", "id", id, "error", err)
		}
	}
	publish(c, h.Events, "product_events", id, map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}
