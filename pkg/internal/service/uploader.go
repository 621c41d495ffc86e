// Package service 实现上传编排的核心逻辑：任务命名、文件校验、防冲突落盘、
// 批次汇总与下游任务分发.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rkwork/clipforge/pkg/configs"
	ctxPkg "github.com/rkwork/clipforge/pkg/context"
	"github.com/rkwork/clipforge/pkg/internal/client"
	"github.com/rkwork/clipforge/pkg/internal/model"
	"github.com/rkwork/clipforge/pkg/internal/storage"
	"github.com/rkwork/clipforge/pkg/internal/types"
	"github.com/rkwork/clipforge/pkg/metrics"
)

// 批次级错误，处理器据此决定 HTTP 状态码.
var (
	ErrForbidden    = errors.New("Access denied. Invalid credentials.")
	ErrNoFiles      = errors.New("no files provided")
	ErrTooManyFiles = errors.New("too many files per request")
)

// TaskIDLength 任务 ID 长度，取 UUID 去连字符后的前 16 位.
const TaskIDLength = 16

// maxCollisionAttempts 重名重试上限，防止异常目录下的失控循环.
const maxCollisionAttempts = 100

// UploadService 处理一次批量上传请求. 同一批次内文件严格按接收顺序处理，
// 因为后续文件的冲突编号依赖前面文件留下的目录状态.
type UploadService struct {
	cfg     *configs.UploadConfig
	queue   *client.TaskQueueClient
	records storage.FileRecordRepository
}

// NewUploadService 从 context 取文件记录仓库，队列客户端由调用方注入.
func NewUploadService(ctx context.Context, queue *client.TaskQueueClient) *UploadService {
	return &UploadService{
		cfg:     &configs.GetConfig().Upload,
		queue:   queue,
		records: ctxPkg.GetFileRecords(ctx),
	}
}

// NewTaskID 生成 16 位任务标识，同时用作存储路径片段和队列任务 ID.
func NewTaskID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:TaskIDLength]
}

// ResolveTaskPath 推导批次的落盘目录. 仅存储模式省略分类/子类型目录层级.
func ResolveTaskPath(root, username, category, subtype, taskID string, storeOnly bool) string {
	leaf := strings.Join([]string{username, "task", taskID}, "_")
	if storeOnly {
		return filepath.Join(root, username, taskID, leaf)
	}

	return filepath.Join(root, username, category, subtype, leaf)
}

// ProcessBatch 处理一个批次：批次级校验、逐文件落盘、汇总、可选的任务分发.
// 返回 error 仅表示批次级失败（授权、文件数），单文件失败进入报告不中断兄弟文件.
func (s *UploadService) ProcessBatch(ctx context.Context, form *types.UploadBatchForm, files []types.BatchFile) (*types.BatchReport, error) {
	logger := ctxPkg.LoggerFrom(ctx)
	taskID := NewTaskID()

	logger.Info().
		Str("user", form.Username).
		Str("task_option", form.TaskOption).
		Str("video_type", form.VideoType).
		Int("file_count", len(files)).
		Str("task_id", taskID).
		Msg("processing upload batch")

	// 授权与批次大小校验都发生在任何磁盘副作用之前
	if !s.cfg.UserAllowed(form.Username) {
		logger.Warn().Str("user", form.Username).Msg("user not in allow list")

		return nil, ErrForbidden
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if len(files) > s.cfg.MaxBatch {
		logger.Warn().Int("count", len(files)).Int("max", s.cfg.MaxBatch).Msg("batch size exceeded")

		return nil, fmt.Errorf("%w: got %d, maximum %d", ErrTooManyFiles, len(files), s.cfg.MaxBatch)
	}

	taskPath := ResolveTaskPath(s.cfg.RootDir, form.Username, form.TaskOption,
		form.VideoType, taskID, form.OnlyFileUpload)
	if err := os.MkdirAll(taskPath, 0o755); err != nil {
		return nil, fmt.Errorf("create task directory: %w", err)
	}

	var (
		saved      []types.SavedFile
		failed     []types.FailedFile
		totalBytes int64
	)

	for i, file := range files {
		outcome, ok := s.storeFile(ctx, taskPath, i+1, &file, form, taskID)
		if !ok {
			failed = append(failed, outcome.fail)

			continue
		}

		saved = append(saved, outcome.save)
		totalBytes += int64(len(file.Content))
	}

	report := buildReport(taskID, len(files), saved, failed, totalBytes)

	logger.Info().
		Int("successful", report.Summary.Successful).
		Int("failed", report.Summary.Failed).
		Float64("total_size_mb", report.Summary.TotalSizeMB).
		Str("task_id", taskID).
		Msg("upload batch finished")

	if form.OnlyFileUpload {
		return report, nil
	}

	report.TaskResult = s.dispatch(ctx, form, taskID, taskPath)

	return report, nil
}

// fileOutcome 单文件的二选一结果.
type fileOutcome struct {
	save types.SavedFile
	fail types.FailedFile
}

// storeFile 校验并落盘单个文件，失败时返回 ok=false 且填充失败条目.
func (s *UploadService) storeFile(ctx context.Context, taskPath string, index int,
	file *types.BatchFile, form *types.UploadBatchForm, taskID string,
) (fileOutcome, bool) {
	logger := ctxPkg.LoggerFrom(ctx)

	// 空文件名
	if strings.TrimSpace(file.Name) == "" {
		logger.Warn().Int("index", index).Msg("empty filename")
		metrics.RejectedFiles.WithLabelValues("empty_filename").Inc()

		return fileOutcome{fail: types.FailedFile{
			Filename: fmt.Sprintf("file_%d", index),
			Error:    "Empty filename",
		}}, false
	}

	// 扩展名白名单
	ext := strings.ToLower(filepath.Ext(file.Name))
	if !s.cfg.ExtAllowed(ext) {
		logger.Warn().Str("file", file.Name).Str("ext", ext).Msg("unsupported file type")
		metrics.RejectedFiles.WithLabelValues("unsupported_type").Inc()

		return fileOutcome{fail: types.FailedFile{
			Filename: file.Name,
			Error:    fmt.Sprintf("Unsupported file type: %s", ext),
		}}, false
	}

	// 大小上限，内容此时已全部在内存中
	size := int64(len(file.Content))
	if size > s.cfg.MaxFileSize {
		logger.Warn().Str("file", file.Name).Int64("size", size).Msg("file too large")
		metrics.RejectedFiles.WithLabelValues("too_large").Inc()

		return fileOutcome{fail: types.FailedFile{
			Filename: file.Name,
			Error:    fmt.Sprintf("File too large: %.2fMB", toMB(size)),
		}}, false
	}

	savedAs, err := writeCollisionSafe(taskPath, file.Name, file.Content)
	if err != nil {
		logger.Error().Err(err).Str("file", file.Name).Msg("failed to save file")
		metrics.RejectedFiles.WithLabelValues("storage_fault").Inc()

		return fileOutcome{fail: types.FailedFile{
			Filename: file.Name,
			Error:    err.Error(),
		}}, false
	}

	metrics.UploadedFiles.Inc()
	metrics.UploadedBytes.Add(float64(size))

	logger.Info().
		Str("original", file.Name).
		Str("saved_as", savedAs).
		Float64("size_mb", roundMB(size)).
		Msg("file saved")

	// 元数据记录失败只告警，文件系统才是事实来源
	if s.records != nil {
		rec := &model.FileRecord{
			TaskID:       taskID,
			Username:     form.Username,
			Filename:     savedAs,
			OriginalName: file.Name,
			Path:         filepath.Join(taskPath, savedAs),
			SizeMB:       roundMB(size),
			Category:     form.TaskOption,
			UploadType:   form.VideoType,
		}
		if err := s.records.Append(ctx, rec); err != nil {
			logger.Warn().Err(err).Str("file", savedAs).Msg("failed to append file record")
		}
	}

	return fileOutcome{save: types.SavedFile{
		Filename: file.Name,
		SavedAs:  savedAs,
		SizeMB:   roundMB(size),
	}}, true
}

// dispatch 向任务队列提交处理任务. 提交失败降级为报告中的结构化错误，
// 本地存储结果不受影响.
func (s *UploadService) dispatch(ctx context.Context, form *types.UploadBatchForm, taskID, taskPath string) map[string]any {
	logger := ctxPkg.LoggerFrom(ctx)

	outputFolder := fmt.Sprintf(".//%s//%s//%s_%s_%s",
		form.Username, form.TaskOption, form.Username, form.TaskOption, taskID)

	result, err := s.queue.SubmitTask(ctx, &types.SubmitTaskRequest{
		TaskID:    taskID,
		TaskType:  form.TaskOption,
		VideoType: s.cfg.VideoLabel,
		Data: types.TaskData{
			InputFolder:  taskPath,
			OutputFolder: outputFolder,
		},
	})
	if err != nil {
		logger.Error().Err(err).Str("task_id", taskID).Msg("task submission failed")
		metrics.DispatchFailures.Inc()

		return map[string]any{"error": err.Error()}
	}

	logger.Info().Str("task_id", taskID).Interface("queue_result", result).Msg("task submitted to queue")

	return result
}

// buildReport 折叠逐文件结果为最终报告，保持输入顺序.
func buildReport(taskID string, total int, saved []types.SavedFile, failed []types.FailedFile, totalBytes int64) *types.BatchReport {
	status := types.StatusSuccess

	switch {
	case len(failed) == 0:
		status = types.StatusSuccess
	case len(saved) > 0:
		status = types.StatusPartialSuccess
	default:
		status = types.StatusFailed
	}

	if saved == nil {
		saved = []types.SavedFile{}
	}

	if failed == nil {
		failed = []types.FailedFile{}
	}

	return &types.BatchReport{
		TaskID: taskID,
		Status: status,
		Summary: types.UploadSummary{
			TotalFiles:  total,
			Successful:  len(saved),
			Failed:      len(failed),
			TotalSizeMB: roundMB(totalBytes),
		},
		SavedFiles:  saved,
		FailedFiles: failed,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func toMB(size int64) float64 {
	return float64(size) / 1024 / 1024
}

// roundMB 字节数转 MB，保留两位小数.
func roundMB(size int64) float64 {
	return math.Round(toMB(size)*100) / 100
}
