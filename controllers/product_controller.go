package controllers

import (
	"net/http"
	"strconv"

	repositories "storefront/repository"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductController struct {
	products services.ProductService
}

func NewProductController(products services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// ListProducts returns a paginated catalog page, optionally filtered by
// category and name search
func (pc *ProductController) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := &repositories.ProductFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	resp, svcErr := pc.products.ListProducts(c.Request.Context(), page, limit, filters)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProduct returns a single product by id
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, svcErr := pc.products.GetProduct(c.Request.Context(), id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the catalog (admin only)
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	product, svcErr := pc.products.CreateProduct(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct modifies catalog fields (admin only)
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	product, svcErr := pc.products.UpdateProduct(c.Request.Context(), id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog (admin only)
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if svcErr := pc.products.DeleteProduct(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.Status(http.StatusNoContent)
}
