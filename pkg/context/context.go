// Package context 拓展上下文功能，将请求标识、日志和存储资源集成到上下文中，
// 方便在应用程序各处显式传递，避免全局可变状态.
package context

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rkwork/clipforge/pkg/internal/storage"
	"github.com/rkwork/clipforge/pkg/log"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
	RequestIDKey      ContextKey = "requestID"
)

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetFileRecords 从 context 中获取文件记录仓库，未初始化时返回 nil.
func GetFileRecords(ctx context.Context) storage.FileRecordRepository {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.FileRecords()
	}

	return nil
}

// WithRequestID 将请求 ID 写入 context，日志关联依赖显式传递而非全局变量.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID 从 context 中获取请求 ID，不存在时返回空串.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}

	return ""
}

// LoggerFrom 返回带请求 ID 字段的 logger；无请求 ID 时返回全局 logger.
func LoggerFrom(ctx context.Context) zerolog.Logger {
	l := *log.Logger()
	if id := GetRequestID(ctx); id != "" {
		return l.With().Str("request_id", id).Logger()
	}

	return l
}
