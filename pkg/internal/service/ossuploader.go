package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ctxPkg "github.com/rkwork/clipforge/pkg/context"
	"github.com/rkwork/clipforge/pkg/internal/client"
	"github.com/rkwork/clipforge/pkg/internal/types"
)

// OSS 操作对调用方可见的失败原因.
const (
	ossUnavailableMsg = "OSS服务不可用"
	ossNoValidFiles   = "没有有效的文件可以上传"
	ossEmptyPathList  = "文件路径列表为空"
)

// OSSUploader 把本地已存在的文件（或文本）推送到外部 OSS 上传服务.
// 所有操作前先做健康探测，探测失败直接短路，避免读大文件后才在网络层失败.
// 方法不返回 error：下游不可达降级为 success=false 的结果.
type OSSUploader struct {
	oss *client.OSSClient
}

// NewOSSUploader 创建上传器.
func NewOSSUploader(oss *client.OSSClient) *OSSUploader {
	return &OSSUploader{oss: oss}
}

// ServiceAvailable 检查 OSS 服务是否健康.
func (u *OSSUploader) ServiceAvailable(ctx context.Context) bool {
	return u.oss.Health(ctx).Healthy()
}

// UploadFile 上传单个本地文件.
func (u *OSSUploader) UploadFile(ctx context.Context, filePath string) *types.OSSUploadResult {
	name := filepath.Base(filePath)

	if !u.ServiceAvailable(ctx) {
		return &types.OSSUploadResult{Success: false, Error: ossUnavailableMsg, FileName: name}
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return &types.OSSUploadResult{
			Success:  false,
			Error:    fmt.Sprintf("文件不存在或无法读取: %s", filePath),
			FileName: name,
		}
	}

	result, err := u.oss.UploadSingle(ctx, &types.BatchFile{Name: name, Content: content}, "")
	if err != nil {
		return &types.OSSUploadResult{Success: false, Error: downstreamReason(err), FileName: name}
	}

	log := ctxPkg.LoggerFrom(ctx)
	log.Info().Str("file", name).Msg("single file uploaded to oss")

	return result
}

// UploadBatch 批量上传本地文件. 本地读不到的文件跳过并记入 skipped，
// 与远端失败分开列出；其余文件合并为一次 multipart 请求. 下游返回非 2xx 时
// 对端不提供逐文件粒度，整批按失败汇总.
func (u *OSSUploader) UploadBatch(ctx context.Context, filePaths []string) *types.OSSUploadResult {
	logger := ctxPkg.LoggerFrom(ctx)

	if !u.ServiceAvailable(ctx) {
		return &types.OSSUploadResult{
			Success: false,
			Error:   ossUnavailableMsg,
			Summary: &types.OSSSummary{Total: len(filePaths), Successful: 0, Failed: len(filePaths)},
		}
	}

	if len(filePaths) == 0 {
		return &types.OSSUploadResult{
			Success: false,
			Error:   ossEmptyPathList,
			Summary: &types.OSSSummary{},
		}
	}

	var (
		files   []types.BatchFile
		skipped []string
	)

	for _, p := range filePaths {
		content, err := os.ReadFile(p)
		if err != nil {
			logger.Warn().Err(err).Str("file", p).Msg("skip unreadable file")
			skipped = append(skipped, filepath.Base(p))

			continue
		}

		files = append(files, types.BatchFile{Name: filepath.Base(p), Content: content})
	}

	if len(files) == 0 {
		return &types.OSSUploadResult{
			Success: false,
			Error:   ossNoValidFiles,
			Summary: &types.OSSSummary{Total: 0, Successful: 0, Failed: len(filePaths)},
			Skipped: skipped,
		}
	}

	result, err := u.oss.UploadMultiple(ctx, files, "")
	if err != nil {
		return &types.OSSUploadResult{
			Success: false,
			Error:   downstreamReason(err),
			Summary: &types.OSSSummary{Total: len(filePaths), Successful: 0, Failed: len(filePaths)},
			Skipped: skipped,
		}
	}

	result.Skipped = skipped
	if result.Summary != nil {
		logger.Info().
			Int("total", result.Summary.Total).
			Int("successful", result.Summary.Successful).
			Int("failed", result.Summary.Failed).
			Msg("batch upload to oss finished")
	}

	return result
}

// UploadText 上传文本内容，filename 为空时使用默认名.
func (u *OSSUploader) UploadText(ctx context.Context, content, filename string) *types.OSSUploadResult {
	if filename == "" {
		filename = "text_content.txt"
	}

	if !u.ServiceAvailable(ctx) {
		return &types.OSSUploadResult{Success: false, Error: ossUnavailableMsg, FileName: filename}
	}

	result, err := u.oss.UploadText(ctx, content, filename, "")
	if err != nil {
		return &types.OSSUploadResult{Success: false, Error: downstreamReason(err), FileName: filename}
	}

	log := ctxPkg.LoggerFrom(ctx)
	log.Info().Str("file", filename).Msg("text uploaded to oss")

	return result
}

// UploadDirectory 递归收集目录下的文件后走批量路径. extensions 非空时按扩展名
// 过滤（不区分大小写）；没有匹配文件不算错误，返回零计数的成功结果.
func (u *OSSUploader) UploadDirectory(ctx context.Context, directory string, extensions []string) *types.OSSUploadResult {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return &types.OSSUploadResult{
			Success: false,
			Error:   fmt.Sprintf("目录不存在或不是有效目录: %s", directory),
			Summary: &types.OSSSummary{},
		}
	}

	var filePaths []string

	_ = filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		if len(extensions) > 0 && !extMatches(path, extensions) {
			return nil
		}

		filePaths = append(filePaths, path)

		return nil
	})

	log := ctxPkg.LoggerFrom(ctx)
	log.Info().
		Str("directory", directory).
		Int("matched", len(filePaths)).
		Msg("directory scan finished")

	if len(filePaths) == 0 {
		return &types.OSSUploadResult{
			Success: true,
			Message: "目录中没有找到匹配的文件",
			Summary: &types.OSSSummary{},
		}
	}

	return u.UploadBatch(ctx, filePaths)
}

// extMatches 判断文件扩展名是否命中列表，大小写不敏感.
func extMatches(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, allowed := range extensions {
		if strings.EqualFold(ext, strings.TrimSpace(allowed)) {
			return true
		}
	}

	return false
}

// downstreamReason 把下游调用错误转成对调用方可读的原因.
func downstreamReason(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("HTTP错误 %d: %s", httpErr.StatusCode, httpErr.Body)
	}

	return err.Error()
}
