package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultTaskQueueBaseURL = "http://127.0.0.1:8889" // 任务队列服务地址
	DefaultTaskQueueTimeout = 10                      // 请求超时，单位秒
	DefaultTaskPriority     = "normal"                // 默认任务优先级
)

type (
	// TaskQueueConfig 任务队列服务配置.
	TaskQueueConfig struct {
		BaseURL  string `mapstructure:"base_url"`
		Timeout  int    `mapstructure:"timeout"  rule:"min=1,max=300"`
		Priority string `mapstructure:"priority"`
		Breaker  CircuitBreakerConfig `mapstructure:"breaker"`
	}
)

// GetTimeoutDuration 返回超时时间作为time.Duration.
func (t *TaskQueueConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

func (t *TaskQueueConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("taskqueue.base_url", DefaultTaskQueueBaseURL)
	v.SetDefault("taskqueue.timeout", DefaultTaskQueueTimeout)
	v.SetDefault("taskqueue.priority", DefaultTaskPriority)
	t.Breaker.setDefaults(v, "taskqueue.breaker")
}
