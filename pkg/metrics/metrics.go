// Package metrics 提供监控指标功能，基于 Prometheus 标准.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// UploadedFiles 成功落盘的文件计数.
	UploadedFiles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_saved_files_total",
			Help: "Total number of files persisted to local storage",
		},
	)

	// RejectedFiles 按失败原因分类的文件计数.
	RejectedFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_failed_files_total",
			Help: "Total number of files rejected or failed during upload",
		},
		[]string{"reason"},
	)

	// UploadedBytes 成功落盘的字节数.
	UploadedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_saved_bytes_total",
			Help: "Total bytes persisted to local storage",
		},
	)

	// DispatchFailures 任务队列提交失败计数.
	DispatchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_dispatch_failures_total",
			Help: "Total number of failed task queue submissions",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 注册收集器并初始化注册表.
func InitMetrics() error {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registry.MustRegister(RequestCounter, RequestDuration,
		UploadedFiles, RejectedFiles, UploadedBytes, DispatchFailures)

	return nil
}

// RegisterHandler 将 /metrics 端点挂到 gin 引擎上.
func RegisterHandler(e *gin.Engine) {
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
