package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rkwork/clipforge/pkg/internal/handle"
)

// RegisterTasksRoutes 注册任务队列控制相关路由.
func RegisterTasksRoutes(g *gin.RouterGroup) {
	g.GET("/tasks", handle.ListTasks)
	g.GET("/tasks/:id", handle.GetTaskStatus)
	g.POST("/tasks/:id/cancel", handle.CancelTask)

	queueRoutes := g.Group("/queue")
	{
		queueRoutes.GET("/info", handle.GetQueueInfo)
		queueRoutes.POST("/clear", handle.ClearQueue)
		// 任务队列服务自身的健康检查（与 /tasks/:id 错开，避免路由冲突）
		queueRoutes.GET("/health", handle.TaskQueueHealth)
	}
}
