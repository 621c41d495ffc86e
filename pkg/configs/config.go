// Package configs 管理应用程序配置，包括服务器、日志、上传和下游服务的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	import "github.com/rkwork/clipforge/pkg/configs"
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server    ServerConfig    `mapstructure:"server"`    // ServerConfig 服务器配置，端口、超时等
		Log       LogConfig       `mapstructure:"log"`       // LogConfig 日志相关配置
		Upload    UploadConfig    `mapstructure:"upload"`    // UploadConfig 用户文件上传配置
		TaskQueue TaskQueueConfig `mapstructure:"taskqueue"` // TaskQueueConfig 任务队列服务配置
		OSS       OSSConfig       `mapstructure:"oss"`       // OSSConfig OSS 上传服务配置
		DB        DBConfig        `mapstructure:"db"`        // DBConfig 文件记录数据库配置
		RateLimit RateLimitConfig `mapstructure:"ratelimit"` // RateLimitConfig 限流配置
	}
)

// AppVersion 应用版本号.
const AppVersion = "1.0.0"

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 未找到配置文件时退回默认值，保证零配置可启动.
func InitConfig(path string) error {
	appViper = viper.New()
	// 设置默认值
	setAllDefaults(appViper)

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// 是文件，使用SetConfigFile，Viper会自动检测类型
		appViper.SetConfigFile(path)
	} else {
		// 是目录，设置配置名和路径
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("CLIPFORGE")

	// 读取配置，缺少配置文件时使用默认值
	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 解析到全局配置
	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var serverConfig ServerConfig

	var logConfig LogConfig

	var uploadConfig UploadConfig

	var taskQueueConfig TaskQueueConfig

	var ossConfig OSSConfig

	var dbConfig DBConfig

	var rateLimitConfig RateLimitConfig

	serverConfig.setDefaults(v)
	logConfig.setDefaults(v)
	uploadConfig.setDefaults(v)
	taskQueueConfig.setDefaults(v)
	ossConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	rateLimitConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
