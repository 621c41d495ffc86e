package handle

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/rkwork/clipforge/pkg/context"
	"github.com/rkwork/clipforge/pkg/internal/client"
	"github.com/rkwork/clipforge/pkg/internal/service"
	"github.com/rkwork/clipforge/pkg/internal/types"
	"github.com/rkwork/clipforge/pkg/rule"
)

// ossProxyError 下游 OSS 调用失败的响应：非 2xx 透传下游状态码与内容，
// 连接失败返回 500.
func ossProxyError(c *gin.Context, err error) {
	log := ctxPkg.LoggerFrom(c.Request.Context())
	log.Error().Err(err).Msg("oss request failed")

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.StatusCode, gin.H{"error": "OSS服务请求失败: " + httpErr.Body})

		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "无法连接到OSS服务: " + err.Error()})
}

// OSSHealth OSS 服务健康检查代理.
func OSSHealth(c *gin.Context) {
	result, err := oss().HealthRaw(c.Request.Context())
	if err != nil {
		ossProxyError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             "success",
		"message":            "OSS服务连接正常",
		"oss_service_status": result,
	})
}

// OSSServiceStatus 获取 OSS 服务状态信息.
func OSSServiceStatus(c *gin.Context) {
	health, err := oss().HealthRaw(c.Request.Context())
	if err != nil {
		ossProxyError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             "success",
		"oss_service_health": health,
		"service_base_url":   oss().BaseURL(),
	})
}

// OSSUploadSingle 单文件上传代理：读入上传内容后转发给 OSS 服务.
func OSSUploadSingle(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未选择文件"})

		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	content, err := io.ReadAll(f)
	_ = f.Close()

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	result, err := oss().UploadSingle(c.Request.Context(), &types.BatchFile{
		Name:        fh.Filename,
		Content:     content,
		ContentType: fh.Header.Get("Content-Type"),
	}, c.Query("upload_path"))
	if err != nil {
		ossProxyError(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

// OSSUploadMultiple 多文件上传代理：合并为一次 multipart 转发.
func OSSUploadMultiple(c *gin.Context) {
	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	headers := mf.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未选择文件"})

		return
	}

	files := make([]types.BatchFile, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		content, err := io.ReadAll(f)
		_ = f.Close()

		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		files = append(files, types.BatchFile{
			Name:        fh.Filename,
			Content:     content,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	result, err := oss().UploadMultiple(c.Request.Context(), files, c.Query("upload_path"))
	if err != nil {
		ossProxyError(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

// OSSUploadText 文本上传代理.
func OSSUploadText(c *gin.Context) {
	var form types.OSSTextForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if form.Filename == "" {
		form.Filename = "text_file.txt"
	}

	result, err := oss().UploadText(c.Request.Context(), form.Text, form.Filename, c.Query("upload_path"))
	if err != nil {
		ossProxyError(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

// OSSPushFile 把服务器本地的单个文件推送到 OSS.
func OSSPushFile(c *gin.Context) {
	var body struct {
		FilePath string `json:"file_path" rule:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	uploader := service.NewOSSUploader(oss())
	c.JSON(http.StatusOK, uploader.UploadFile(c.Request.Context(), body.FilePath))
}

// OSSPushBatch 把服务器本地的一组文件推送到 OSS.
func OSSPushBatch(c *gin.Context) {
	var body struct {
		FilePaths []string `json:"file_paths" rule:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	uploader := service.NewOSSUploader(oss())
	c.JSON(http.StatusOK, uploader.UploadBatch(c.Request.Context(), body.FilePaths))
}

// OSSPushDirectory 把服务器本地目录下的文件推送到 OSS，支持扩展名过滤.
func OSSPushDirectory(c *gin.Context) {
	var form types.OSSDirectoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	uploader := service.NewOSSUploader(oss())
	c.JSON(http.StatusOK, uploader.UploadDirectory(c.Request.Context(), form.Directory, form.Extensions))
}
