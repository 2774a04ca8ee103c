// internal/services/tracking_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/clarashop/clara-backend/internal/config"
	"github.com/clarashop/clara-backend/internal/utils"
)

const metaGraphURL = "https://graph.facebook.com"

// TrackingService relays storefront events (page views, order submissions)
// to the Meta Conversions API. The relay is a no-op when the pixel id or
// access token is not configured.
type TrackingService struct {
	client   *resty.Client
	cfg      config.MetaConfig
	currency string
}

// NewTrackingService builds the relay. The currency is used for purchase
// events that carry a value without an explicit currency code.
func NewTrackingService(cfg config.MetaConfig, currency string) *TrackingService {
	client := resty.New().
		SetBaseURL(metaGraphURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &TrackingService{
		client:   client,
		cfg:      cfg,
		currency: currency,
	}
}

type TrackEventRequest struct {
	EventName string  `json:"eventName" validate:"required,max=100"`
	EventID   string  `json:"eventId" validate:"required,max=100"`
	ProductID *uint   `json:"productId" validate:"omitempty,gt=0"`
	SourceURL string  `json:"eventSourceUrl" validate:"omitempty,url"`
	Value     float64 `json:"value" validate:"omitempty,gte=0"`
	Currency  string  `json:"currency" validate:"omitempty,len=3"`
	Phone     string  `json:"phone" validate:"omitempty,tn_phone"`
}

func (s *TrackingService) Enabled() bool {
	return s.cfg.PixelID != "" && s.cfg.AccessToken != ""
}

// Track forwards one event. Client ip and user agent come from the incoming
// request; the phone number is hashed before it leaves the process.
func (s *TrackingService) Track(ctx context.Context, req *TrackEventRequest, clientIP, userAgent string) error {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if !s.Enabled() {
		logrus.WithField("event", req.EventName).Debug("Conversion relay disabled, event dropped")
		return nil
	}

	payload := map[string]interface{}{
		"data": []map[string]interface{}{s.buildEvent(req, clientIP, userAgent)},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("access_token", s.cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(fmt.Sprintf("/%s/%s/events", s.cfg.APIVersion, s.cfg.PixelID))
	if err != nil {
		return fmt.Errorf("failed to reach conversion API: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("conversion API rejected event: %s", resp.Status())
	}

	logrus.WithFields(logrus.Fields{
		"event":    req.EventName,
		"event_id": req.EventID,
	}).Debug("Conversion event relayed")

	return nil
}

func (s *TrackingService) buildEvent(req *TrackEventRequest, clientIP, userAgent string) map[string]interface{} {
	userData := map[string]interface{}{
		"client_ip_address": clientIP,
		"client_user_agent": userAgent,
	}
	if req.Phone != "" {
		// CAPI expects normalized, SHA-256 hashed identifiers.
		userData["ph"] = []string{utils.HashString("216" + req.Phone)}
	}

	event := map[string]interface{}{
		"event_name":    req.EventName,
		"event_time":    time.Now().Unix(),
		"event_id":      req.EventID,
		"action_source": "website",
		"user_data":     userData,
	}
	if req.SourceURL != "" {
		event["event_source_url"] = req.SourceURL
	}

	customData := map[string]interface{}{}
	if req.Value > 0 {
		currency := req.Currency
		if currency == "" {
			currency = s.currency
		}
		customData["value"] = req.Value
		customData["currency"] = currency
	}
	if req.ProductID != nil {
		customData["content_ids"] = []string{fmt.Sprintf("%d", *req.ProductID)}
		customData["content_type"] = "product"
	}
	if len(customData) > 0 {
		event["custom_data"] = customData
	}

	return event
}
