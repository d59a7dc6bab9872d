package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CatalogFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_catalog_fetch_total", Help: "Catalog fetches by result"},
		[]string{"result"},
	)
	AuthLogin = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_auth_login_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	CartOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_cart_ops_total", Help: "Cart operations by op and outcome"},
		[]string{"op", "outcome"},
	)
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_orders_total", Help: "Order submissions by result"},
		[]string{"result"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "storefront_sessions_active", Help: "Sessions held in memory"},
	)
)

func init() {
	prometheus.MustRegister(CatalogFetch, AuthLogin, CartOps, OrdersSubmitted, ActiveSessions)
}

const (
	ResultOK         = "ok"
	ResultError      = "error"
	ResultDegraded   = "degraded"
	ResultShared     = "shared"
	ResultSuperseded = "superseded"
)
