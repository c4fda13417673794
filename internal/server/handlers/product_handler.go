package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
)

// ProductHandler exposes the plain CRUD surface over the product store.
type ProductHandler struct {
	repo   mongodb.ProductRepository
	logger *zap.Logger
}

// NewProductHandler constructs the CRUD handler adapter.
func NewProductHandler(repo mongodb.ProductRepository, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{repo: repo, logger: logger}
}

// List returns the full inventory ordered by expiry date.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// Create inserts a product directly, bypassing the proposal pipeline.
func (h *ProductHandler) Create(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}

	if input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	if _, err := time.Parse(models.DateFormat, input.ExpiryDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be a valid " + models.DateFormat + " date"})
		return
	}

	quantity := 1
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
			return
		}
		quantity = *input.Quantity
	}

	created, err := h.repo.Create(c.Request.Context(), models.Product{
		Name:       input.Name,
		Price:      input.Price,
		Quantity:   quantity,
		ExpiryDate: input.ExpiryDate,
	})
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get returns one product by identifier.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Update applies a partial field merge onto one product.
func (h *ProductHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes one product by identifier.
func (h *ProductHandler) Delete(c *gin.Context) {
	removed, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product '" + removed.Name + "' deleted successfully."})
}

func (h *ProductHandler) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("store operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store operation failed"})
	}
}
