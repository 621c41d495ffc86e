package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultOSSBaseURL     = "http://localhost:8890" // OSS 上传服务地址
	DefaultOSSTimeout     = 30                      // 连接/写超时，单位秒
	DefaultOSSReadTimeout = 120                     // 大文件读超时，单位秒
)

type (
	// OSSConfig OSS 上传服务配置.
	OSSConfig struct {
		BaseURL     string `mapstructure:"base_url"`
		Timeout     int    `mapstructure:"timeout"      rule:"min=1,max=600"`
		ReadTimeout int    `mapstructure:"read_timeout" rule:"min=1,max=600"`
		Breaker     CircuitBreakerConfig `mapstructure:"breaker"`
	}
)

// GetTimeoutDuration 返回基础超时时间作为time.Duration.
func (o *OSSConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(o.Timeout) * time.Second
}

// GetReadTimeoutDuration 返回读超时时间作为time.Duration.
func (o *OSSConfig) GetReadTimeoutDuration() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Second
}

func (o *OSSConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("oss.base_url", DefaultOSSBaseURL)
	v.SetDefault("oss.timeout", DefaultOSSTimeout)
	v.SetDefault("oss.read_timeout", DefaultOSSReadTimeout)
	o.Breaker.setDefaults(v, "oss.breaker")
}
