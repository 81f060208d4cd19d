package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitemail/backend/internal/config"
	"sitemail/backend/internal/health"
	"sitemail/backend/internal/logger"
	"sitemail/backend/internal/mail"
	"sitemail/backend/internal/monitoring"
	"sitemail/backend/internal/security"
	"sitemail/backend/internal/service"
	"sitemail/backend/internal/storage/filesystem"
	"sitemail/backend/internal/template"
	httptransport "sitemail/backend/internal/transport/http"
)

// main 启动表单邮件 API 服务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     "",
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting sitemail server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化上传存储；已保存文件无限期保留，保留策略见配置说明
	blobStore, err := filesystem.NewStore(cfg.Upload.Dir)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize upload storage: %v", err))
	}
	log.Info("upload storage initialized",
		zap.String("dir", blobStore.BaseDir()),
		zap.String("retention", "unbounded"),
	)

	// 加载并校验邮件模板（启动时一次性完成，未知占位符在这里暴露）
	contactTpl, err := template.Load(
		filepath.Join(cfg.Template.Dir, "contact-email.html"),
		service.ContactPlaceholders,
	)
	if err != nil {
		panic(fmt.Sprintf("failed to load contact template: %v", err))
	}
	applicationTpl, err := template.Load(
		filepath.Join(cfg.Template.Dir, "application-email.html"),
		service.ApplicationPlaceholders,
	)
	if err != nil {
		panic(fmt.Sprintf("failed to load application template: %v", err))
	}
	log.Info("mail templates loaded",
		zap.String("contact", contactTpl.Name()),
		zap.String("application", applicationTpl.Name()),
	)

	// 初始化监控与健康检查
	metrics := monitoring.NewMetrics()
	healthChecker := health.NewHealthChecker(cfg.Relay.Addr(), blobStore.BaseDir(), log)

	// 初始化发送器与提交管线
	sender := mail.NewSMTPSender(cfg.Relay, log)
	intake := service.NewIntakeService(
		security.NewAttachmentFilter(),
		blobStore,
		cfg.Upload.MaxFiles,
		log,
		metrics,
	)
	submissions := service.NewSubmissionService(service.SubmissionDependencies{
		ContactTemplate:     contactTpl,
		ApplicationTemplate: applicationTpl,
		Guard:               security.NewSpamGuard(),
		Intake:              intake,
		Sender:              sender,
		MailConfig:          cfg.Mail,
		FromAddress:         cfg.Relay.Username,
		Logger:              log,
		Metrics:             metrics,
	})

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:      cfg,
		Submissions: submissions,
		Health:      healthChecker,
		Metrics:     metrics,
		Logger:      log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server",
			zap.String("address", httpAddr),
			zap.String("relay", cfg.Relay.Addr()),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
	}

	log.Info("server stopped")
	_ = log.Sync()
}
