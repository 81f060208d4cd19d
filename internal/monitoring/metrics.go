package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 提交处理结果标签值。
const (
	OutcomeSent       = "sent"       // 邮件已投递
	OutcomeSuppressed = "suppressed" // 蜜罐命中，静默丢弃
	OutcomeRejected   = "rejected"   // 客户端错误（附件缺失或类型不允许）
	OutcomeFailed     = "failed"     // 中继投递失败
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 提交管线指标
	SubmissionsTotal *prometheus.CounterVec
	AttachmentBytes  prometheus.Histogram
	DispatchDuration prometheus.Histogram
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemail_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitemail_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemail_submissions_total",
				Help: "Form submissions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		AttachmentBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitemail_attachment_bytes",
				Help:    "Size of stored upload files in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		DispatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitemail_dispatch_duration_seconds",
				Help:    "Time spent handing a message to the SMTP relay",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// HTTPHandler 返回 Prometheus 指标端点处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSubmission 记录一次提交处理结果
func (m *Metrics) RecordSubmission(kind, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordAttachment 记录一个已存储附件的大小
func (m *Metrics) RecordAttachment(size int64) {
	if m == nil {
		return
	}
	m.AttachmentBytes.Observe(float64(size))
}

// RecordDispatch 记录一次中继投递耗时
func (m *Metrics) RecordDispatch(duration time.Duration) {
	if m == nil {
		return
	}
	m.DispatchDuration.Observe(duration.Seconds())
}
