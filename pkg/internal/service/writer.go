package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// 单文件存储故障.
var (
	ErrTooManyCollisions     = errors.New("Too many duplicate files")
	ErrWriteVerificationFail = errors.New("File write verification failed")
)

// writeCollisionSafe 将内容写入 dir/name，重名时在文件名主干后插入递增数字后缀
// （name_1.ext、name_2.ext …）直到找到空位. 写入后重新读取磁盘上的文件大小，
// 与内存字节数不符视为截断写入并报错. 返回实际保存的文件名.
//
// 已知限制：并发批次写同一目录时冲突编号存在竞争，批次目录由新鲜 task id
// 派生，正常流量不会共享目录.
func writeCollisionSafe(dir, name string, content []byte) (string, error) {
	target := filepath.Join(dir, name)

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	ext := filepath.Ext(name)

	counter := 1
	for {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}

		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		counter++

		if counter > maxCollisionAttempts {
			return "", ErrTooManyCollisions
		}
	}

	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	// 落盘校验：磁盘写满或外部干扰会留下截断文件
	info, err := os.Stat(target)
	if err != nil || info.Size() != int64(len(content)) {
		return "", ErrWriteVerificationFail
	}

	return filepath.Base(target), nil
}
