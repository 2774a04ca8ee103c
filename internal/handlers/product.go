// internal/handlers/product.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clarashop/clara-backend/internal/i18n"
	"github.com/clarashop/clara-backend/internal/services"
	"github.com/clarashop/clara-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	summaries, err := h.productService.ListProducts()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, summaries)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		// Non-numeric ids are a not-found, not a bad request: the public
		// page treats any unknown path segment the same way.
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	product, err := h.productService.GetProduct(uint(id))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, product)
}
