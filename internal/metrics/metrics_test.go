package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/orders/:order_id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/orders/1", "/orders/2", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/orders/:order_id", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Latency))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `storefront_test_http_request_duration_seconds_count{route="/orders/:order_id"} 2`)
}

func TestDomainCounters(t *testing.T) {
	m := New("test")

	m.OrderPlaced()
	m.PaymentUpdated("completed")
	m.PaymentUpdated("completed")
	m.InvoiceGenerated("worker")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersPlaced))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.PaymentUpdates.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.InvoicesGenerated.WithLabelValues("worker")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.OrderPlaced()
		nilMetrics.PaymentUpdated("failed")
		nilMetrics.InvoiceGenerated("request")
	})
}

func TestHandler(t *testing.T) {
	m := New("test")
	m.OrderPlaced()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_test_orders_placed_total 1")
}

func TestTimer(t *testing.T) {
	t.Run("Duration", func(t *testing.T) {
		timer := StartTimer()
		time.Sleep(2 * time.Millisecond)
		assert.GreaterOrEqual(t, timer.Duration(), 2*time.Millisecond)
	})

	t.Run("Sub-millisecond observation keeps its fraction", func(t *testing.T) {
		timer := &Timer{start: time.Now().Add(-300 * time.Microsecond)}

		var observed float64
		timer.ObserveSeconds(prometheus.ObserverFunc(func(v float64) { observed = v }))

		assert.GreaterOrEqual(t, observed, 0.0003)
		assert.Less(t, observed, 1.0)
	})
}
