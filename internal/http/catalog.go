package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopfront/internal/domain"
	"shopfront/internal/service"
)

type addProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Image       string  `json:"image" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	NewPrice    float64 `json:"new_price" binding:"gte=0"`
	OldPrice    float64 `json:"old_price" binding:"gte=0"`
	Description string  `json:"description"`
}

type removeProductRequest struct {
	ID   int64  `json:"id" binding:"required,gte=1"`
	Name string `json:"name"`
}

type ProductResponse struct {
	StorageID   string  `json:"_id"`
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	NewPrice    float64 `json:"new_price"`
	OldPrice    float64 `json:"old_price"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Available   bool    `json:"available"`
}

func (h *Handler) allProducts(c *gin.Context) {
	products, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, productsToResponse(products))
}

func (h *Handler) newCollections(c *gin.Context) {
	products, err := h.catalog.ListNewCollections(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, productsToResponse(products))
}

// popularIn serves the popular listing for a fixed category, or for the
// :category path parameter when category is empty.
func (h *Handler) popularIn(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		substring := category
		if substring == "" {
			substring = c.Param("category")
		}

		products, err := h.catalog.ListPopularInCategory(c.Request.Context(), substring)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "No products found in category " + substring})
				return
			}
			h.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, productsToResponse(products))
	}
}

func (h *Handler) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	product, err := h.catalog.AddProduct(c.Request.Context(), service.ProductInput{
		Name:        req.Name,
		Image:       req.Image,
		Category:    req.Category,
		NewPrice:    req.NewPrice,
		OldPrice:    req.OldPrice,
		Description: req.Description,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"id": product.Seq, "name": product.Name}).Info("product added")
	c.JSON(http.StatusOK, gin.H{"success": true, "name": product.Name})
}

func (h *Handler) removeProduct(c *gin.Context) {
	var req removeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	product, err := h.catalog.RemoveProduct(c.Request.Context(), req.ID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	name := req.Name
	if product != nil {
		name = product.Name
		h.logger.WithFields(logrus.Fields{"id": product.Seq, "name": product.Name}).Info("product removed")
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "name": name})
}

func productsToResponse(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(products[i])
	}
	return resp
}

func productToResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		StorageID:   p.StorageID,
		ID:          p.Seq,
		Name:        p.Name,
		Image:       p.Image,
		Category:    p.Category,
		NewPrice:    p.NewPrice,
		OldPrice:    p.OldPrice,
		Description: p.Description,
		Date:        p.CreatedAt.Format(time.RFC3339),
		Available:   p.Available,
	}
}
