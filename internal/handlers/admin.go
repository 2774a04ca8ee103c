// internal/handlers/admin.go
package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clarashop/clara-backend/internal/i18n"
	"github.com/clarashop/clara-backend/internal/services"
	"github.com/clarashop/clara-backend/internal/utils"
)

type AdminHandler struct {
	productService   *services.ProductService
	orderService     *services.OrderService
	analyticsService *services.AnalyticsService
}

func NewAdminHandler(productService *services.ProductService, orderService *services.OrderService, analyticsService *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{
		productService:   productService,
		orderService:     orderService,
		analyticsService: analyticsService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.GetAnalytics()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, analytics)
}

// GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.orderService.ListOrders(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(uint(id), &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderUpdated),
		"order":   order,
	})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	input, err := h.parseProductForm(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&input.ProductRequest)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.CreateProduct(input)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	input, err := h.parseProductForm(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&input.ProductRequest)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.UpdateProduct(uint(id), input)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	if err := h.productService.DeleteProduct(uint(id)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// parseProductForm decodes the multipart product form. Feature rows arrive
// as one JSON array in the "features" field, each row referencing either a
// stored image URL or an uploaded file part ("file:<n>" into
// "feature_files").
func (h *AdminHandler) parseProductForm(c *gin.Context) (*services.ProductFormInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	input := &services.ProductFormInput{
		Images:       form.File["images"],
		FeatureFiles: form.File["feature_files"],
		Primary:      c.PostForm("primary"),
	}

	input.Name = strings.TrimSpace(c.PostForm("name"))
	input.Description = c.PostForm("description")

	if input.Price, err = parseFloatField(c, "price"); err != nil {
		return nil, err
	}
	if input.SalePrice, err = parseOptionalFloatField(c, "sale_price"); err != nil {
		return nil, err
	}
	if input.Offer2OriginalPrice, err = parseOptionalFloatField(c, "offer2_original_price"); err != nil {
		return nil, err
	}
	if input.Offer2SalePrice, err = parseOptionalFloatField(c, "offer2_sale_price"); err != nil {
		return nil, err
	}
	if input.Offer3OriginalPrice, err = parseOptionalFloatField(c, "offer3_original_price"); err != nil {
		return nil, err
	}
	if input.Offer3SalePrice, err = parseOptionalFloatField(c, "offer3_sale_price"); err != nil {
		return nil, err
	}

	if raw := c.PostForm("removed_images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.RemovedImgs); err != nil {
			return nil, fmt.Errorf("invalid removed_images field: %w", err)
		}
	}

	if raw := c.PostForm("features"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Features); err != nil {
			return nil, fmt.Errorf("invalid features field: %w", err)
		}
	}

	return input, nil
}

func parseFloatField(c *gin.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s field", name)
	}
	return value, nil
}

func parseOptionalFloatField(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s field", name)
	}
	return &value, nil
}
