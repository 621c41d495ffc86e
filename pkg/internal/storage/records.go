package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/rkwork/clipforge/pkg/internal/model"
)

// FileRecordRepository 文件记录仓库：追加与查询，由调用方注入而非全局访问.
type FileRecordRepository interface {
	Append(ctx context.Context, rec *model.FileRecord) error
	ListByUser(ctx context.Context, username string, limit int) ([]model.FileRecord, error)
	CountByUser(ctx context.Context, username string) (int64, error)
}

// gormFileRecords 基于 GORM 的仓库实现.
type gormFileRecords struct {
	db *gorm.DB
}

// NewFileRecordRepository 创建仓库并迁移表结构.
func NewFileRecordRepository(db *gorm.DB) (FileRecordRepository, error) {
	if err := db.AutoMigrate(&model.FileRecord{}); err != nil {
		return nil, err
	}

	return &gormFileRecords{db: db}, nil
}

func (r *gormFileRecords) Append(ctx context.Context, rec *model.FileRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *gormFileRecords) ListByUser(ctx context.Context, username string, limit int) ([]model.FileRecord, error) {
	var recs []model.FileRecord

	q := r.db.WithContext(ctx).Where("username = ?", username).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	return recs, nil
}

func (r *gormFileRecords) CountByUser(ctx context.Context, username string) (int64, error) {
	var n int64

	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("username = ?", username).Count(&n).Error

	return n, err
}
