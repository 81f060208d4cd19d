package health

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
)

// HealthChecker 健康检查器
type HealthChecker struct {
	health healthcheck.Handler
	logger *zap.Logger
}

// NewHealthChecker 创建健康检查器。
// 就绪检查覆盖两个外部依赖：SMTP 中继可达、上传目录可用。
func NewHealthChecker(relayAddr, uploadDir string, logger *zap.Logger) *HealthChecker {
	hc := &HealthChecker{
		health: healthcheck.NewHandler(),
		logger: logger,
	}

	hc.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(200))
	hc.health.AddReadinessCheck("smtp-relay", healthcheck.TCPDialCheck(relayAddr, 2*time.Second))
	hc.health.AddReadinessCheck("upload-dir", UploadDirCheck(uploadDir))

	return hc
}

// UploadDirCheck 校验上传目录存在且是目录。
func UploadDirCheck(dir string) healthcheck.Check {
	return func() error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
}

// LiveEndpoint 存活检查处理函数
func (hc *HealthChecker) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.LiveEndpoint(w, r)
}

// ReadyEndpoint 就绪检查处理函数
func (hc *HealthChecker) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.ReadyEndpoint(w, r)
}
