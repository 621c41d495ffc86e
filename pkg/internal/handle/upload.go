package handle

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/rkwork/clipforge/pkg/context"
	"github.com/rkwork/clipforge/pkg/internal/service"
	"github.com/rkwork/clipforge/pkg/internal/types"
	"github.com/rkwork/clipforge/pkg/rule"
)

// UploadFiles 处理多文件上传：校验、落盘并按模式选择是否提交处理任务.
// 成功创建资源返回 201，批次级错误映射为 403/422.
func UploadFiles(c *gin.Context) {
	ctx := c.Request.Context()
	logger := ctxPkg.LoggerFrom(ctx)

	var form types.UploadBatchForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn().Err(err).Msg("invalid upload form")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&form); err != nil {
		logger.Warn().Err(err).Msg("upload form validation failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

		return
	}

	files, err := readBatchFiles(c)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read multipart files")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewUploadService(ctx, taskQueue())

	report, err := svc.ProcessBatch(ctx, &form, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoFiles), errors.Is(err, service.ErrTooManyFiles):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error().Err(err).Msg("batch processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}

		return
	}

	c.JSON(http.StatusCreated, report)
}

// readBatchFiles 把 multipart 中的 files 字段全部读入内存，保持接收顺序.
func readBatchFiles(c *gin.Context) ([]types.BatchFile, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	headers := mf.File["files"]
	files := make([]types.BatchFile, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}

		content, err := io.ReadAll(f)
		_ = f.Close()

		if err != nil {
			return nil, err
		}

		files = append(files, types.BatchFile{
			Name:        fh.Filename,
			Content:     content,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	return files, nil
}

// ListFiles 按用户名列出已保存文件的元数据记录.
func ListFiles(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})

		return
	}

	repo := ctxPkg.GetFileRecords(c.Request.Context())
	if repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file records disabled"})

		return
	}

	records, err := repo.ListByUser(c.Request.Context(), username, 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	total, _ := repo.CountByUser(c.Request.Context(), username)
	c.JSON(http.StatusOK, gin.H{"total": total, "files": records})
}
