// internal/services/analytics_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/clarashop/clara-backend/internal/models"
)

// UnknownCityLabel groups orders whose city field is blank.
const UnknownCityLabel = "Inconnu"

// The back office renders in French, so trend labels use French month
// abbreviations.
var frenchMonths = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

func monthLabel(month time.Time) string {
	return fmt.Sprintf("%s %d", frenchMonths[month.Month()-1], month.Year())
}

type AnalyticsService struct {
	db           *gorm.DB
	shippingCost float64
}

func NewAnalyticsService(db *gorm.DB, shippingCost float64) *AnalyticsService {
	return &AnalyticsService{
		db:           db,
		shippingCost: shippingCost,
	}
}

type MonthBucket struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"` // 1-12
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type ProductStat struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type CityStat struct {
	City   string `json:"city"`
	Orders int    `json:"orders"`
}

// RecentOrder is the dashboard projection of one order: the order row
// joined with the product's name and cover image, plus the net total.
type RecentOrder struct {
	models.Order
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	NetTotal     float64 `json:"netTotal"`
}

type DashboardStats struct {
	TotalOrders   int64                      `json:"totalOrders"`
	TotalProducts int64                      `json:"totalProducts"`
	Revenue       float64                    `json:"revenue"`
	StatusCounts  map[models.OrderStatus]int `json:"statusCounts"`
	RecentOrders  []RecentOrder              `json:"recentOrders"`
}

type Analytics struct {
	Revenue      float64                    `json:"revenue"`
	MonthlyTrend []MonthBucket              `json:"monthlyTrend"`
	StatusCounts map[models.OrderStatus]int `json:"statusCounts"`
	TopProducts  []ProductStat              `json:"topProducts"`
	TopCities    []CityStat                 `json:"topCities"`
}

// NetRevenue sums per-order net totals over the set. Aggregation is always
// net of shipping, each order floored at zero.
func NetRevenue(orders []models.Order, shippingCost float64) float64 {
	var revenue float64
	for i := range orders {
		revenue += orders[i].NetTotal(shippingCost)
	}
	return revenue
}

// MonthlyTrend buckets the last six calendar months ending at now, current
// month inclusive. The bucket list is generated independently of the data,
// so months without orders still appear with zero values, in chronological
// order.
func MonthlyTrend(orders []models.Order, now time.Time, shippingCost float64) []MonthBucket {
	buckets := make([]MonthBucket, 0, 6)
	index := make(map[[2]int]int, 6)

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		month := start.AddDate(0, -i, 0)
		key := [2]int{month.Year(), int(month.Month())}
		index[key] = len(buckets)
		buckets = append(buckets, MonthBucket{
			Year:  month.Year(),
			Month: int(month.Month()),
			Label: monthLabel(month),
		})
	}

	for i := range orders {
		key := [2]int{orders[i].CreatedAt.Year(), int(orders[i].CreatedAt.Month())}
		pos, ok := index[key]
		if !ok {
			continue
		}
		buckets[pos].Revenue += orders[i].NetTotal(shippingCost)
		buckets[pos].Orders++
	}

	return buckets
}

// CountByStatus counts orders per status. Every known status is present in
// the result, missing ones report zero.
func CountByStatus(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.AllOrderStatuses))
	for _, status := range models.AllOrderStatuses {
		counts[status] = 0
	}
	for i := range orders {
		counts[orders[i].Status]++
	}
	return counts
}

// TopProducts groups orders by product, summing pack quantity and net
// revenue, sorted by quantity descending and truncated to five. Ties keep
// first-appearance order. Orders whose product is absent from names (the
// product was deleted since) are skipped.
func TopProducts(orders []models.Order, names map[uint]string, shippingCost float64) []ProductStat {
	stats := make([]ProductStat, 0)
	index := make(map[uint]int)

	for i := range orders {
		name, known := names[orders[i].ProductID]
		if !known {
			continue
		}
		pos, ok := index[orders[i].ProductID]
		if !ok {
			pos = len(stats)
			index[orders[i].ProductID] = pos
			stats = append(stats, ProductStat{
				ProductID: orders[i].ProductID,
				Name:      name,
			})
		}
		stats[pos].Quantity += orders[i].Pack
		stats[pos].Revenue += orders[i].NetTotal(shippingCost)
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Quantity > stats[b].Quantity
	})

	if len(stats) > 5 {
		stats = stats[:5]
	}
	return stats
}

// TopCities counts orders per city, blank cities grouped under
// UnknownCityLabel, sorted by count descending and truncated to five. Ties
// keep first-appearance order.
func TopCities(orders []models.Order) []CityStat {
	stats := make([]CityStat, 0)
	index := make(map[string]int)

	for i := range orders {
		city := orders[i].City
		if city == "" {
			city = UnknownCityLabel
		}

		pos, ok := index[city]
		if !ok {
			pos = len(stats)
			index[city] = pos
			stats = append(stats, CityStat{City: city})
		}
		stats[pos].Orders++
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Orders > stats[b].Orders
	})

	if len(stats) > 5 {
		stats = stats[:5]
	}
	return stats
}

// GetDashboardStats builds the landing view of the back office.
func (s *AnalyticsService) GetDashboardStats() (*DashboardStats, error) {
	orders, err := s.fetchOrders()
	if err != nil {
		return nil, err
	}

	var totalProducts int64
	if err := s.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	recent, err := s.recentOrders(5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalOrders:   int64(len(orders)),
		TotalProducts: totalProducts,
		Revenue:       NetRevenue(orders, s.shippingCost),
		StatusCounts:  CountByStatus(orders),
		RecentOrders:  recent,
	}, nil
}

func (s *AnalyticsService) recentOrders(limit int) ([]RecentOrder, error) {
	var orders []models.Order
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ProductID)
	}

	products := make(map[uint]models.Product)
	if len(ids) > 0 {
		var rows []models.Product
		if err := s.db.Select("id", "name", "image_url").Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
		for _, product := range rows {
			products[product.ID] = product
		}
	}

	recent := make([]RecentOrder, 0, len(orders))
	for _, order := range orders {
		recent = append(recent, RecentOrder{
			Order:        order,
			ProductName:  products[order.ProductID].Name,
			ProductImage: products[order.ProductID].ImageURL,
			NetTotal:     order.NetTotal(s.shippingCost),
		})
	}
	return recent, nil
}

// GetAnalytics builds the full analytics view from the order list and the
// catalog.
func (s *AnalyticsService) GetAnalytics() (*Analytics, error) {
	orders, err := s.fetchOrders()
	if err != nil {
		return nil, err
	}

	names, err := s.fetchProductNames()
	if err != nil {
		return nil, err
	}

	return &Analytics{
		Revenue:      NetRevenue(orders, s.shippingCost),
		MonthlyTrend: MonthlyTrend(orders, time.Now(), s.shippingCost),
		StatusCounts: CountByStatus(orders),
		TopProducts:  TopProducts(orders, names, s.shippingCost),
		TopCities:    TopCities(orders),
	}, nil
}

func (s *AnalyticsService) fetchOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Order("created_at ASC, id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (s *AnalyticsService) fetchProductNames() (map[uint]string, error) {
	var products []models.Product
	if err := s.db.Select("id", "name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	names := make(map[uint]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}
	return names, nil
}
