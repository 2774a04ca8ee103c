// internal/services/analytics_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clarashop/clara-backend/internal/models"
)

const testShipping = 8.0

func makeOrder(productID uint, pack int, total float64, city string, status models.OrderStatus, createdAt time.Time) models.Order {
	order := models.Order{
		ProductID: productID,
		Pack:      pack,
		Total:     total,
		City:      city,
		Status:    status,
	}
	order.CreatedAt = createdAt
	return order
}

func TestNetRevenueMatchesPerOrderNetTotals(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		makeOrder(1, 1, 58, "Sousse", models.OrderStatusPending, now),
		makeOrder(1, 2, 108, "Tunis", models.OrderStatusDelivered, now),
		makeOrder(2, 1, 5, "Sfax", models.OrderStatusReturned, now), // below shipping, floors at zero
	}

	var expected float64
	for i := range orders {
		expected += orders[i].NetTotal(testShipping)
	}

	assert.Equal(t, expected, NetRevenue(orders, testShipping))
	assert.Equal(t, 150.0, NetRevenue(orders, testShipping))
}

func TestNetRevenueEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NetRevenue(nil, testShipping))
}

func TestMonthlyTrendAlwaysSixChronologicalBuckets(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	buckets := MonthlyTrend(nil, now, testShipping)

	assert.Len(t, buckets, 6)
	assert.Equal(t, 2025, buckets[0].Year)
	assert.Equal(t, int(time.October), buckets[0].Month)
	assert.Equal(t, "oct. 2025", buckets[0].Label)
	assert.Equal(t, 2026, buckets[5].Year)
	assert.Equal(t, int(time.March), buckets[5].Month)
	assert.Equal(t, "mars 2026", buckets[5].Label)

	for i := 0; i < len(buckets); i++ {
		assert.Zero(t, buckets[i].Revenue)
		assert.Zero(t, buckets[i].Orders)
		if i > 0 {
			before := time.Date(buckets[i-1].Year, time.Month(buckets[i-1].Month), 1, 0, 0, 0, 0, time.UTC)
			after := time.Date(buckets[i].Year, time.Month(buckets[i].Month), 1, 0, 0, 0, 0, time.UTC)
			assert.True(t, before.Before(after))
		}
	}
}

func TestMonthlyTrendBucketsOrders(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusPending, time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC)),
		makeOrder(1, 1, 108, "Tunis", models.OrderStatusPending, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)),
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusPending, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)),
		// Outside the six-month window, must be ignored.
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusPending, time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)),
	}

	buckets := MonthlyTrend(orders, now, testShipping)

	assert.Len(t, buckets, 6)

	byMonth := make(map[int]MonthBucket)
	for _, b := range buckets {
		byMonth[b.Month] = b
	}

	assert.Equal(t, 2, byMonth[int(time.January)].Orders)
	assert.Equal(t, 150.0, byMonth[int(time.January)].Revenue)
	assert.Equal(t, 1, byMonth[int(time.March)].Orders)
	assert.Equal(t, 50.0, byMonth[int(time.March)].Revenue)
	assert.Equal(t, 0, byMonth[int(time.February)].Orders)

	var totalBucketed int
	for _, b := range buckets {
		totalBucketed += b.Orders
	}
	assert.Equal(t, 3, totalBucketed)
}

func TestCountByStatusCoversAllStatuses(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusPending, now),
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusPending, now),
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusDelivered, now),
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusCancelled, now),
	}

	counts := CountByStatus(orders)

	assert.Len(t, counts, len(models.AllOrderStatuses))
	assert.Equal(t, 2, counts[models.OrderStatusPending])
	assert.Equal(t, 1, counts[models.OrderStatusDelivered])
	assert.Equal(t, 0, counts[models.OrderStatusReturned])
	assert.Equal(t, 1, counts[models.OrderStatusCancelled])

	var total int
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(orders), total)
}

func TestTopProductsSortsByQuantityAndCapsAtFive(t *testing.T) {
	now := time.Now()
	var orders []models.Order
	// Products 1..6, product i ordered with pack quantity i.
	for i := 1; i <= 6; i++ {
		orders = append(orders, makeOrder(uint(i), 1, 58, "Tunis", models.OrderStatusPending, now))
		for j := 1; j < i; j++ {
			orders = append(orders, makeOrder(uint(i), 1, 58, "Tunis", models.OrderStatusPending, now))
		}
	}

	names := map[uint]string{1: "a", 2: "b", 3: "c", 4: "d", 5: "e", 6: "f"}
	stats := TopProducts(orders, names, testShipping)

	assert.Len(t, stats, 5)
	assert.Equal(t, uint(6), stats[0].ProductID)
	assert.Equal(t, 6, stats[0].Quantity)
	assert.Equal(t, "f", stats[0].Name)
	// Product 1 (quantity 1) fell off the list.
	for _, s := range stats {
		assert.NotEqual(t, uint(1), s.ProductID)
	}

	seen := make(map[uint]bool)
	for _, s := range stats {
		assert.False(t, seen[s.ProductID])
		seen[s.ProductID] = true
	}
}

func TestTopProductsTiesKeepFirstAppearanceOrder(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		makeOrder(7, 2, 108, "Tunis", models.OrderStatusPending, now),
		makeOrder(3, 2, 108, "Tunis", models.OrderStatusPending, now),
	}

	stats := TopProducts(orders, map[uint]string{7: "table", 3: "lampe"}, testShipping)

	assert.Len(t, stats, 2)
	assert.Equal(t, uint(7), stats[0].ProductID)
	assert.Equal(t, uint(3), stats[1].ProductID)
}

func TestTopProductsSkipsOrdersForDeletedProducts(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		makeOrder(1, 1, 58, "Tunis", models.OrderStatusPending, now),
		// Product 99 was deleted, its orders must not surface in the ranking.
		makeOrder(99, 5, 308, "Tunis", models.OrderStatusPending, now),
	}

	stats := TopProducts(orders, map[uint]string{1: "chaise"}, testShipping)

	assert.Len(t, stats, 1)
	assert.Equal(t, uint(1), stats[0].ProductID)
	assert.Equal(t, "chaise", stats[0].Name)
}

func TestTopProductsSumsPackQuantityAndNetRevenue(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		makeOrder(1, 2, 108, "Tunis", models.OrderStatusPending, now),
		makeOrder(1, 3, 158, "Tunis", models.OrderStatusPending, now),
	}

	stats := TopProducts(orders, map[uint]string{1: "chair"}, testShipping)

	assert.Len(t, stats, 1)
	assert.Equal(t, 5, stats[0].Quantity)
	assert.Equal(t, 250.0, stats[0].Revenue)
}

func TestTopCitiesGroupsBlankUnderUnknown(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		makeOrder(1, 1, 58, "", models.OrderStatusPending, now),
		makeOrder(1, 1, 58, "Sousse", models.OrderStatusPending, now),
		makeOrder(1, 1, 58, "", models.OrderStatusPending, now),
	}

	stats := TopCities(orders)

	assert.Len(t, stats, 2)
	assert.Equal(t, UnknownCityLabel, stats[0].City)
	assert.Equal(t, 2, stats[0].Orders)
	assert.Equal(t, "Sousse", stats[1].City)
}

func TestTopCitiesCapsAtFive(t *testing.T) {
	now := time.Now()
	cities := []string{"Tunis", "Sfax", "Sousse", "Bizerte", "Nabeul", "Monastir"}
	var orders []models.Order
	for _, city := range cities {
		orders = append(orders, makeOrder(1, 1, 58, city, models.OrderStatusPending, now))
	}

	stats := TopCities(orders)

	assert.Len(t, stats, 5)
	seen := make(map[string]bool)
	for _, s := range stats {
		assert.False(t, seen[s.City])
		seen[s.City] = true
	}
}
