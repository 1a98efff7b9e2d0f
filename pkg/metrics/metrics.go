package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var HistogramBuckets = []float64{
	// --- Fast responses (0 - 500ms) ---
	25, 50, 75, 100, 150, 200, 300, 400, 500,

	// --- Medium responses (500ms - 2s) ---
	750, 1000, 1250, 1500, 1750, 2000,

	// --- Slow responses, including blocking payment-return polls ---
	3000, 5000, 10000, 15000, 30000, 60000, 90000, 120000,
}

// Gateway holds the gateway's Prometheus collectors: standard HTTP request
// metrics plus domain counters for access checks and payment polling.
type Gateway struct {
	reqCnt         *prometheus.CounterVec
	reqDur         *prometheus.HistogramVec
	accessChecks   *prometheus.CounterVec
	paymentPolls   *prometheus.CounterVec
	purchaseStarts prometheus.Counter

	registry *prometheus.Registry
	log      *zap.SugaredLogger
}

func NewGateway(log *zap.SugaredLogger) *Gateway {
	g := &Gateway{
		reqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: "gateway",
			Name:      "req_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "url"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: "gateway",
			Name:      "req_dur_ms",
			Help:      "The HTTP request latencies in milliseconds.",
			Buckets:   HistogramBuckets,
		}, []string{"code", "method", "url"}),
		accessChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: "gateway",
			Name:      "access_checks_total",
			Help:      "Access gate decisions, partitioned by outcome.",
		}, []string{"outcome"}),
		paymentPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: "gateway",
			Name:      "payment_polls_total",
			Help:      "Payment return poll terminations, partitioned by final status.",
		}, []string{"status"}),
		purchaseStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: "gateway",
			Name:      "purchase_starts_total",
			Help:      "Subscription purchase initiations handed off to the payment page.",
		}),
		registry: prometheus.NewRegistry(),
		log:      log,
	}
	g.registry.MustRegister(g.reqCnt, g.reqDur, g.accessChecks, g.paymentPolls, g.purchaseStarts)
	return g
}

// ObserveAccessCheck records one gate decision ("granted" or "denied").
func (g *Gateway) ObserveAccessCheck(outcome string) {
	g.accessChecks.WithLabelValues(outcome).Inc()
}

// ObservePaymentPoll records the final status of one payment-return poll.
func (g *Gateway) ObservePaymentPoll(status string) {
	g.paymentPolls.WithLabelValues(status).Inc()
}

// ObservePurchaseStart records one purchase hand-off.
func (g *Gateway) ObservePurchaseStart() {
	g.purchaseStarts.Inc()
}

// Use attaches the HTTP request metrics middleware to the engine.
func (g *Gateway) Use(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		url := c.FullPath()
		if url == "" {
			url = c.Request.URL.Path
		}
		code := strconv.Itoa(c.Writer.Status())
		g.reqCnt.WithLabelValues(code, c.Request.Method, url).Inc()
		g.reqDur.WithLabelValues(code, c.Request.Method, url).
			Observe(float64(time.Since(start).Milliseconds()))
	})
}

// SetListenAddress serves /metrics on a dedicated listener so the scrape
// endpoint never shares a port with the public API.
func (g *Gateway) SetListenAddress(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g.registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			g.log.Errorf("metrics listener error: %v", err)
		}
	}()
}
