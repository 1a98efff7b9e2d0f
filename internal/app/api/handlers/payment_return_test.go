package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/internal/app/service/paymentreturn"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

func newPoller(stub *stubBackend) *paymentreturn.Poller {
	log := zap.NewNop().Sugar()
	return paymentreturn.NewPoller(stub, testConfig(), log, metrics.NewGateway(log))
}

func TestRegisterPaymentRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/payment")
	RegisterPaymentRoutes(g, nil)

	routes := r.Routes()
	found := false
	for _, rt := range routes {
		if rt.Method == http.MethodGet && rt.Path == "/api/v1/payment/return" {
			found = true
		}
	}
	require.True(t, found)
}

func TestApiPaymentReturn_MissingOrderID(t *testing.T) {
	r := newRouter()
	r.GET("/return", ApiPaymentReturn(newPoller(&stubBackend{})))

	req := httptest.NewRequest(http.MethodGet, "/return", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"failed"`)
	require.Contains(t, w.Body.String(), "Order ID not found")
}

func TestApiPaymentReturn_Success(t *testing.T) {
	stub := &stubBackend{status: &types.PaymentStatusResult{
		Transaction: types.PaymentTransaction{Status: types.PaymentTransactionStatusSuccess},
	}}
	r := newRouter()
	r.GET("/return", ApiPaymentReturn(newPoller(stub)))

	req := httptest.NewRequest(http.MethodGet, "/return?order_id=order-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"success"`)
	require.Contains(t, w.Body.String(), "Payment successful")
}
