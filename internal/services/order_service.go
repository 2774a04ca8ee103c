// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/clarashop/clara-backend/internal/models"
	"github.com/clarashop/clara-backend/internal/utils"
)

type OrderService struct {
	db           *gorm.DB
	shippingCost float64
}

func NewOrderService(db *gorm.DB, shippingCost float64) *OrderService {
	return &OrderService{
		db:           db,
		shippingCost: shippingCost,
	}
}

type CreateOrderRequest struct {
	ProductID uint    `json:"productId" validate:"required"`
	Pack      int     `json:"pack" validate:"required,pack"`
	Total     float64 `json:"total" validate:"required,gt=0"`
	Name      string  `json:"name" validate:"required,max=255"`
	Phone     string  `json:"phone" validate:"required,tn_phone"`
	Address   string  `json:"address" validate:"required,max=512"`
	Governor  string  `json:"governor" validate:"required,governorate"`
	City      string  `json:"city" validate:"required,max=100"`
}

type UpdateOrderStatusRequest struct {
	Status         models.OrderStatus `json:"status" validate:"required,order_status"`
	PhoneConfirmed *bool              `json:"phoneConfirmed"`
}

// OrderListItem is one row of the admin order table, carrying the product
// name alongside the order. ProductName is empty when the product has been
// deleted since.
type OrderListItem struct {
	models.Order
	ProductName string  `json:"productName"`
	NetTotal    float64 `json:"netTotal"`
}

// CreateOrder persists a new cash-on-delivery order. The total is always
// recomputed from the selected pack's price plus shipping; the value the
// client sent is only used to detect and log tampering or stale pricing.
func (s *OrderService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	total := product.PackSalePrice(req.Pack) + s.shippingCost
	if math.Abs(total-req.Total) > 0.009 {
		logrus.WithFields(logrus.Fields{
			"product_id":   req.ProductID,
			"pack":         req.Pack,
			"client_total": req.Total,
			"server_total": total,
		}).Warn("Client order total mismatch, using recomputed total")
	}

	order := &models.Order{
		ProductID:      req.ProductID,
		Pack:           req.Pack,
		Total:          total,
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		Governor:       req.Governor,
		City:           req.City,
		Status:         models.OrderStatusPending,
		PhoneConfirmed: false,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// UpdateOrderStatus applies a status and optional phone-confirmation change
// directly. The status enum is flat; no transition graph is enforced.
func (s *OrderService) UpdateOrderStatus(id uint, req *UpdateOrderStatusRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.PhoneConfirmed != nil {
		updates["phone_confirmed"] = *req.PhoneConfirmed
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return &order, nil
}

// ListOrders returns a page of orders, newest first, each joined with its
// product name when the product still exists.
func (s *OrderService) ListOrders(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Order{})

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR city ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	allowedSortFields := []string{"created_at", "total", "status", "city", "governor"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	productNames, err := s.productNames(orders)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListItem, 0, len(orders))
	for _, order := range orders {
		items = append(items, OrderListItem{
			Order:       order,
			ProductName: productNames[order.ProductID],
			NetTotal:    order.NetTotal(s.shippingCost),
		})
	}

	result := utils.CreatePaginationResult(items, total, params)
	return &result, nil
}

// GetOrder returns a single order by id.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

func (s *OrderService) productNames(orders []models.Order) (map[uint]string, error) {
	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool)
	for _, order := range orders {
		if !seen[order.ProductID] {
			seen[order.ProductID] = true
			ids = append(ids, order.ProductID)
		}
	}

	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var products []models.Product
	if err := s.db.Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, product := range products {
		names[product.ID] = product.Name
	}
	return names, nil
}
