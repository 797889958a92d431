package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type ProductHandler struct {
	products repository.ProductRepository
}

func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts returns all products that are still being replenished.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListActive(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns a single product by SKU.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	sku := c.Param("sku")

	product, err := h.products.GetBySKU(c.Request.Context(), sku)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found."})
			return
		}
		log.Error().Err(err).Str("sku", sku).Msg("failed to fetch product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}
