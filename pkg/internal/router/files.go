package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rkwork/clipforge/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件上传相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// 批量上传并创建文件资源
		filesRoutes.POST("", handle.UploadFiles)
		filesRoutes.POST("/", handle.UploadFiles)
		// 按用户查询已保存文件的元数据记录
		filesRoutes.GET("", handle.ListFiles)
	}
}
