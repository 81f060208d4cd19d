package httptransport

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitemail/backend/internal/domain"
	"sitemail/backend/internal/service"
)

// attachmentsField 申请表单中文件部分使用的固定字段名。
const attachmentsField = "attachments"

// ApplicationHandler 处理职位申请表单提交。
type ApplicationHandler struct {
	submissions *service.SubmissionService
	thankYou    string
	logger      *zap.Logger
}

// NewApplicationHandler 创建职位申请处理器
func NewApplicationHandler(submissions *service.SubmissionService, thankYou string, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		submissions: submissions,
		thankYou:    thankYou,
		logger:      logger,
	}
}

// Submit 处理 POST /apply 与 POST /vacancies-api/apply。
// 成功 302 跳转到致谢页；附件缺失或类型不允许返回 400 JSON {error}；
// 请求体超限返回 413 JSON {error}；投递失败返回 500 JSON {error}。
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var sub domain.ApplicationSubmission
	if err := c.ShouldBind(&sub); err != nil {
		if isBodyTooLarge(err) {
			PayloadTooLarge(c, "Uploaded files exceed the maximum allowed size.")
			return
		}
		ClientError(c, "Invalid form submission")
		return
	}

	// 非 multipart 请求或读取失败时按零附件处理，由管线统一拒绝；
	// 超限的 multipart 体单独报 413，避免误报为缺附件
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File[attachmentsField]
	} else if isBodyTooLarge(err) {
		PayloadTooLarge(c, "Uploaded files exceed the maximum allowed size.")
		return
	}

	if err := h.submissions.SubmitApplication(sub, files); err != nil {
		if msg, ok := clientErrorMessage(err); ok {
			ClientError(c, msg)
			return
		}
		h.logger.Error("application submission failed", zap.Error(err))
		ServerError(c, "Failed to send application")
		return
	}

	c.Redirect(http.StatusFound, h.thankYou)
}

// isBodyTooLarge 判断错误是否由 http.MaxBytesReader 截断请求体引起。
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
