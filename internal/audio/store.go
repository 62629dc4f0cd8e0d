package audio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store 将合成好的音频写入输出目录。
type Store struct {
	dir string
}

// NewStore 创建输出目录（已存在不报错）并返回 Store。
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("[audio] 创建输出目录 %s 失败: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir 返回输出目录。
func (s *Store) Dir() string {
	return s.dir
}

// Path 返回文件在输出目录中的完整路径。
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists 判断输出文件是否已存在。
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Save 写入音频并返回完整路径，已存在的同名文件会被覆盖。
// 先写 .tmp 再 rename，失败时不会留下写了一半的文件。
func (s *Store) Save(name string, data []byte) (string, error) {
	path := s.Path(name)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("[audio] 写入 %s 失败: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("[audio] 重命名为 %s 失败: %w", path, err)
	}
	return path, nil
}
