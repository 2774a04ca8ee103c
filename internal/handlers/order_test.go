// internal/handlers/order_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/clarashop/clara-backend/internal/services"
)

func newOrderTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// The service never reaches the database in these tests: validation
	// rejects the request first.
	orderHandler := NewOrderHandler(services.NewOrderService(nil, 8))
	r.POST("/v1/orders", orderHandler.CreateOrder)
	return r
}

func postOrder(t *testing.T, r *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonData, err := json.Marshal(body)
	assert.NoError(t, err)

	req, _ := http.NewRequest("POST", "/v1/orders", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
			Tag   string `json:"tag"`
		} `json:"details"`
	} `json:"error"`
}

func TestCreateOrderMissingGovernorateFlagsExactlyThatField(t *testing.T) {
	r := newOrderTestRouter()

	w := postOrder(t, r, map[string]interface{}{
		"productId": 1,
		"pack":      1,
		"total":     58,
		"name":      "Amira Ben Salah",
		"phone":     "98123456",
		"address":   "12 rue de la Liberté",
		"city":      "Sousse",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "governor", resp.Error.Details[0].Field)
	assert.Equal(t, "required", resp.Error.Details[0].Tag)
}

func TestCreateOrderReportsAllMissingFieldsAtOnce(t *testing.T) {
	r := newOrderTestRouter()

	w := postOrder(t, r, map[string]interface{}{
		"productId": 1,
		"pack":      1,
		"total":     58,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	fields := make(map[string]bool)
	for _, d := range resp.Error.Details {
		fields[d.Field] = true
	}
	for _, field := range []string{"name", "phone", "address", "governor", "city"} {
		assert.True(t, fields[field], "field %s should be flagged", field)
	}
}

func TestCreateOrderRejectsInvalidPhoneAndGovernorate(t *testing.T) {
	r := newOrderTestRouter()

	w := postOrder(t, r, map[string]interface{}{
		"productId": 1,
		"pack":      1,
		"total":     58,
		"name":      "Amira Ben Salah",
		"phone":     "123",
		"address":   "12 rue de la Liberté",
		"governor":  "Atlantis",
		"city":      "Sousse",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	fields := make(map[string]string)
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Tag
	}
	assert.Equal(t, "tn_phone", fields["phone"])
	assert.Equal(t, "governorate", fields["governor"])
	assert.Len(t, resp.Error.Details, 2)
}

func TestCreateOrderRejectsMalformedJSON(t *testing.T) {
	r := newOrderTestRouter()

	req, _ := http.NewRequest("POST", "/v1/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
