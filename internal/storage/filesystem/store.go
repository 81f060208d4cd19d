package filesystem

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// extPattern 限制存储名中保留的扩展名形态，防止通过原始文件名注入路径成分。
var extPattern = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)

// Store 将上传文件保存到本地磁盘。
// 本服务只写不读不删：文件写入后由邮件投递环节按路径读取，
// 之后无限期保留（无清理任务，见配置说明）。
type Store struct {
	baseDir string
}

// NewStore 创建上传文件存储实例，必要时创建目录。
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("upload directory not configured")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	return &Store{baseDir: baseDir}, nil
}

// BaseDir 返回上传文件的根目录。
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Save 将文件内容写入磁盘并返回存储路径。
//
// 存储名由毫秒时间戳、随机数和净化后的原始扩展名组成，
// 原始文件名的其余部分一律丢弃，既避免命名冲突也杜绝目录穿越。
// 时间戳加随机数的组合在理论上仍可能碰撞，按设计接受该风险。
func (s *Store) Save(content []byte, originalName string) (string, error) {
	path := filepath.Join(s.baseDir, uniqueName(originalName))

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path, nil
}

// uniqueName 生成形如 1756600000000-123456789.pdf 的存储名。
func uniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}
