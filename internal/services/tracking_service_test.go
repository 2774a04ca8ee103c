// internal/services/tracking_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clarashop/clara-backend/internal/config"
)

func TestBuildEventDefaultsCurrencyWhenOmitted(t *testing.T) {
	svc := NewTrackingService(config.MetaConfig{}, "TND")

	event := svc.buildEvent(&TrackEventRequest{
		EventName: "Purchase",
		EventID:   "evt-1",
		Value:     66,
	}, "10.0.0.1", "test-agent")

	customData, ok := event["custom_data"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, 66.0, customData["value"])
	assert.Equal(t, "TND", customData["currency"])
}

func TestBuildEventKeepsExplicitCurrency(t *testing.T) {
	svc := NewTrackingService(config.MetaConfig{}, "TND")

	event := svc.buildEvent(&TrackEventRequest{
		EventName: "Purchase",
		EventID:   "evt-2",
		Value:     120,
		Currency:  "EUR",
	}, "10.0.0.1", "test-agent")

	customData, ok := event["custom_data"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "EUR", customData["currency"])
}

func TestBuildEventHashesPhoneAndTagsProduct(t *testing.T) {
	svc := NewTrackingService(config.MetaConfig{}, "TND")
	productID := uint(7)

	event := svc.buildEvent(&TrackEventRequest{
		EventName: "InitiateCheckout",
		EventID:   "evt-3",
		ProductID: &productID,
		Phone:     "98123456",
	}, "10.0.0.1", "test-agent")

	userData := event["user_data"].(map[string]interface{})
	hashes, ok := userData["ph"].([]string)
	assert.True(t, ok)
	assert.Len(t, hashes, 1)
	assert.NotContains(t, hashes[0], "98123456")

	customData := event["custom_data"].(map[string]interface{})
	assert.Equal(t, []string{"7"}, customData["content_ids"])
	assert.Equal(t, "product", customData["content_type"])

	// No value was sent, so no currency should be attached.
	_, hasCurrency := customData["currency"]
	assert.False(t, hasCurrency)
}
