// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/context"
	"github.com/rkwork/clipforge/pkg/internal/router"
	"github.com/rkwork/clipforge/pkg/internal/storage"
	"github.com/rkwork/clipforge/pkg/log"
	"github.com/rkwork/clipforge/pkg/metrics"
	"github.com/rkwork/clipforge/pkg/middleware"
)

type App struct {
	Engine *gin.Engine
	config *configs.AppConfig
}

func NewApp(configPath string) *App {
	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	log.Init()

	engine := gin.New()

	// 初始化监控
	if err := metrics.InitMetrics(); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init()
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	baseCtx := context.WithStorageManager(contextPkg.Background(), manager)

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		storageMiddleware(baseCtx),
		middleware.RequestIDMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
	)

	metrics.RegisterHandler(engine)
	router.Register(engine)

	return &App{
		Engine: engine,
		config: config,
	}
}

// storageMiddleware 把存储管理器挂到每个请求的 context 上.
func storageMiddleware(baseCtx contextPkg.Context) gin.HandlerFunc {
	mgr := context.GetManager(baseCtx)

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithStorageManager(c.Request.Context(), mgr))
		c.Next()
	}
}

func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}
