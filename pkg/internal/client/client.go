// Package client 封装对下游协作服务（任务队列、OSS 上传服务）的 HTTP 调用.
package client

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/rkwork/clipforge/pkg/configs"
)

// HTTPError 下游返回非 2xx 时的错误，保留状态码与响应体供上层透传.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// newBreaker 按配置构造熔断器，未启用时返回 nil.
func newBreaker(name string, cfg *configs.CircuitBreakerConfig) *gobreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.Requests
			if total < cfg.MinRequests {
				return false
			}

			failureRate := float64(counts.TotalFailures) / float64(total)

			return failureRate >= cfg.FailureRate
		},
	}

	return gobreaker.NewCircuitBreaker(settings)
}

// execute 经熔断器执行调用；熔断器未启用时直接执行.
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T

		return zero, err
	}

	v, _ := res.(T)

	return v, nil
}
