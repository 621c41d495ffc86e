package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rkwork/clipforge/pkg/internal/handle"
)

// RegisterOSSRoutes 注册 OSS 代理与推送相关路由.
func RegisterOSSRoutes(g *gin.RouterGroup) {
	ossRoutes := g.Group("/oss")
	{
		ossRoutes.GET("/health", handle.OSSHealth)
		ossRoutes.GET("/status", handle.OSSServiceStatus)

		// 透传调用方上传的内容
		ossRoutes.POST("/single", handle.OSSUploadSingle)
		ossRoutes.POST("/multiple", handle.OSSUploadMultiple)
		ossRoutes.POST("/text", handle.OSSUploadText)

		// 推送服务器本地已存在的文件
		pushRoutes := ossRoutes.Group("/upload")
		{
			pushRoutes.POST("/file", handle.OSSPushFile)
			pushRoutes.POST("/batch", handle.OSSPushBatch)
			pushRoutes.POST("/directory", handle.OSSPushDirectory)
		}
	}
}
