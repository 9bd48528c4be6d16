package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estate_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_otp_issued_total",
		Help: "OTP codes issued by channel",
	}, []string{"channel"})

	OTPVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_otp_verify_total",
		Help: "OTP verification outcomes by channel and status",
	}, []string{"channel", "status"})

	AccountLockoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_account_lockouts_total",
		Help: "Account lockouts by trigger (otp or login)",
	}, []string{"trigger"})
)
