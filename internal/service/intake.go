package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"go.uber.org/zap"

	"sitemail/backend/internal/domain"
	"sitemail/backend/internal/monitoring"
	"sitemail/backend/internal/security"
)

var (
	ErrAttachmentRequired = errors.New("attachment required")
	ErrAttachmentType     = errors.New("attachment type not allowed")
	ErrTooManyAttachments = errors.New("too many attachments")
)

// BlobStore 定义上传文件的持久化能力。
type BlobStore interface {
	Save(content []byte, originalName string) (string, error)
}

// IntakeService 接收 multipart 文件、校验类型并写入存储。
type IntakeService struct {
	filter   *security.AttachmentFilter
	store    BlobStore
	maxFiles int
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewIntakeService 创建上传接收服务。
func NewIntakeService(filter *security.AttachmentFilter, store BlobStore, maxFiles int, logger *zap.Logger, metrics *monitoring.Metrics) *IntakeService {
	return &IntakeService{
		filter:   filter,
		store:    store,
		maxFiles: maxFiles,
		logger:   logger,
		metrics:  metrics,
	}
}

// Accept 校验并保存一次提交的全部文件，返回附件描述符列表。
//
// 文件集为空或超过上限直接拒绝。任何一个文件的声明类型不在允许列表中，
// 整个提交立即失败，不做部分接受；类型校验全部通过后才开始落盘，
// 避免为注定被拒绝的提交写入文件。
func (s *IntakeService) Accept(files []*multipart.FileHeader) ([]domain.Attachment, error) {
	if len(files) == 0 {
		return nil, ErrAttachmentRequired
	}
	if len(files) > s.maxFiles {
		return nil, ErrTooManyAttachments
	}

	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !s.filter.Allowed(contentType) {
			s.logger.Info("upload rejected: disallowed content type",
				zap.String("filename", fh.Filename),
				zap.String("content_type", contentType),
			)
			return nil, ErrAttachmentType
		}
	}

	attachments := make([]domain.Attachment, 0, len(files))
	for _, fh := range files {
		content, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
		}

		path, err := s.store.Save(content, fh.Filename)
		if err != nil {
			return nil, fmt.Errorf("store upload %q: %w", fh.Filename, err)
		}

		attachments = append(attachments, domain.Attachment{
			Filename:    filepath.Base(fh.Filename),
			StoragePath: path,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        int64(len(content)),
		})
		s.metrics.RecordAttachment(int64(len(content)))

		s.logger.Debug("upload stored",
			zap.String("filename", fh.Filename),
			zap.String("path", path),
			zap.Int("bytes", len(content)),
		)
	}

	return attachments, nil
}

// readPart 读出单个 multipart 文件的全部内容。
// 请求体大小已由传输层的 BodySizeLimit 中间件限制。
func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
