// internal/handlers/tracking_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/clarashop/clara-backend/internal/config"
	"github.com/clarashop/clara-backend/internal/services"
)

func newTrackingTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// No pixel id or access token: the relay is unconfigured.
	trackingHandler := NewTrackingHandler(services.NewTrackingService(config.MetaConfig{}, "TND"))
	r.POST("/v1/events", trackingHandler.TrackEvent)
	return r
}

func postEvent(t *testing.T, r *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonData, err := json.Marshal(body)
	assert.NoError(t, err)

	req, _ := http.NewRequest("POST", "/v1/events", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackEventMissingEventNameIsRejected(t *testing.T) {
	r := newTrackingTestRouter()

	w := postEvent(t, r, map[string]interface{}{
		"eventId": "evt-1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "eventname", resp.Error.Details[0].Field)
}

func TestTrackEventMissingEventIDIsRejected(t *testing.T) {
	r := newTrackingTestRouter()

	w := postEvent(t, r, map[string]interface{}{
		"eventName": "Purchase",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "eventid", resp.Error.Details[0].Field)
}

func TestTrackEventUnconfiguredRelayIsServerError(t *testing.T) {
	r := newTrackingTestRouter()

	w := postEvent(t, r, map[string]interface{}{
		"eventName": "Purchase",
		"eventId":   "evt-1",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}
