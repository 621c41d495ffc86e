// Package db 处理数据库存储操作.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rkwork/clipforge/pkg/configs"
	nlog "github.com/rkwork/clipforge/pkg/log"
)

// Client 包装 GORM DB 客户端.
type Client struct {
	*gorm.DB
}

// New 打开 SQLite 数据库，父目录不存在时先创建.
func New(cfg *configs.DBConfig) (*Client, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:      logger.Discard,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	nlog.Logger().Info().Str("path", cfg.Path).Msg("sqlite connected")

	return &Client{DB: gdb}, nil
}

// Close 关闭底层连接.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
