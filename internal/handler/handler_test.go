package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popupcity/portal_api/internal/config"
	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.ErrorInfo
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func passRouter() *gin.Engine {
	h := NewPassHandler(service.NewPassService(nil, nil, nil), nil, nil)
	r := gin.New()
	r.POST("/passes/toggle", h.Toggle)
	r.POST("/passes/total", h.Total)
	r.GET("/products", h.Products)
	return r
}

func weekRoster() []models.PassAttendee {
	a := models.PassAttendee{ID: 1, Name: "Alice", Category: models.AttendeeMain}
	for i := 1; i <= 4; i++ {
		a.Products = append(a.Products, models.Pass{
			ID: i, Name: "Week", Category: models.ProductCategoryWeek,
			Price: decimal.NewFromInt(100), OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(100)),
			ComparePrice: decimal.NewNullDecimal(decimal.NewFromInt(120)),
			AttendeeID: 1, AttendeeCategory: models.AttendeeMain,
		})
	}
	a.Products = append(a.Products, models.Pass{
		ID: 5, Name: "Month", Category: models.ProductCategoryMonth,
		Price: decimal.NewFromInt(350), OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(350)),
		AttendeeID: 1, AttendeeCategory: models.AttendeeMain,
	})
	return []models.PassAttendee{a}
}

func TestPassHandler_Toggle(t *testing.T) {
	r := passRouter()
	roster := weekRoster()

	var res service.RosterResult
	for id := 1; id <= 4; id++ {
		w, env := doJSON(t, r, http.MethodPost, "/passes/toggle", service.ToggleRequest{
			Roster: roster, AttendeeID: 1, ProductID: id,
			Discount: models.Discount{Value: decimal.NewFromInt(10)},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, &res))
		roster = res.Roster
	}

	month := roster[0].Products[4]
	assert.True(t, month.Selected, "four weeks select the month")
	assert.True(t, decimal.NewFromInt(350).Equal(res.Totals.Total))
	assert.True(t, decimal.NewFromInt(480).Equal(res.Totals.OriginalTotal))
	assert.True(t, decimal.NewFromInt(48).Equal(res.Totals.DiscountAmount))
	assert.True(t, decimal.NewFromInt(302).Equal(res.Payable))
}

func TestPassHandler_Total(t *testing.T) {
	r := passRouter()
	roster := weekRoster()
	roster[0].Products[0].Selected = true

	w, env := doJSON(t, r, http.MethodPost, "/passes/total", service.TotalRequest{Roster: roster})
	require.Equal(t, http.StatusOK, w.Code)

	var res service.RosterResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, decimal.NewFromInt(100).Equal(res.Totals.Total))
	assert.True(t, res.Totals.DiscountAmount.IsZero())
}

func TestPassHandler_BadRequests(t *testing.T) {
	r := passRouter()

	w, env := doJSON(t, r, http.MethodPost, "/passes/toggle", map[string]int{"attendeeId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/products?popup_city_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_WebhookRejectsBadSignature(t *testing.T) {
	svc := service.NewPaymentService(nil, nil, nil, &config.PaymentConfig{WebhookSecret: "whsec"})
	r := gin.New()
	r.POST("/webhook/payments", NewPaymentHandler(svc).Webhook)

	body := []byte(`{"external_id":"pay_1","status":"approved"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/payments", bytes.NewReader(body))
	req.Header.Set("X-Signature", utils.GenerateSignature(body, "other-secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
}

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name   string
		db     Pinger
		redis  Pinger
		code   int
		status string
	}{
		{"healthy", up, up, http.StatusOK, "healthy"},
		{"redis down", up, down, http.StatusOK, "degraded"},
		{"database down", down, up, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.db, tt.redis).GetHealth)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body["status"])
		})
	}
}
