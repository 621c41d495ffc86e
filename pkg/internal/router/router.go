// Package router 管理路由配置，将路径绑定到 pkg/internal/handle 提供的处理器.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rkwork/clipforge/pkg/internal/handle"
)

// Register 注册全部路由. 根路径只挂健康检查，业务路由统一挂在 /api/v1 下.
func Register(e *gin.Engine) *gin.Engine {
	e.GET("/health", handle.Health)

	v1 := e.Group("/api/v1")
	{
		RegisterFilesRoutes(v1)
		RegisterTasksRoutes(v1)
		RegisterOSSRoutes(v1)
	}

	return e
}
