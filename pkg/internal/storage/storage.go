// Package storage 聚合进程内的存储资源：上传根目录与文件记录数据库.
//
// Example:
//
//	mgr, err := storage.Init()
//	if err != nil {
//	    // 处理错误
//	}
//
//	repo := mgr.FileRecords()
package storage

import (
	"os"
	"sync"

	"github.com/rkwork/clipforge/pkg/configs"
	dbc "github.com/rkwork/clipforge/pkg/internal/storage/db"
	nlog "github.com/rkwork/clipforge/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB      *dbc.Client
	records FileRecordRepository
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置. 重复调用只返回已初始化实例.
// 文件记录库被禁用或打开失败时不阻止启动，仓库保持为 nil，由调用方判空.
func Init() (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// 上传根目录
		if e := os.MkdirAll(cfg.Upload.RootDir, 0o755); e != nil {
			err = e

			return
		}

		// 文件记录库
		if cfg.DB.Enabled {
			dbi, e := dbc.New(&cfg.DB)
			if e != nil {
				nlog.Logger().Warn().Err(e).Msg("file record db unavailable, metadata disabled")
			} else {
				m.DB = dbi

				repo, e := NewFileRecordRepository(dbi.DB)
				if e != nil {
					nlog.Logger().Warn().Err(e).Msg("file record migration failed, metadata disabled")
				} else {
					m.records = repo
				}
			}
		}

		mgr = m

		nlog.Logger().Info().Str("upload_root", cfg.Upload.RootDir).Msg("storage manager initialized")
	})

	return mgr, err
}

// FileRecords 返回文件记录仓库，禁用时为 nil.
func (m *Manager) FileRecords() FileRecordRepository {
	return m.records
}
