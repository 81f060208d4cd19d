package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitemail/backend/internal/domain"
	"sitemail/backend/internal/service"
)

// ContactHandler 处理联系表单提交。
type ContactHandler struct {
	submissions *service.SubmissionService
	thankYou    string
	logger      *zap.Logger
}

// NewContactHandler 创建联系表单处理器
func NewContactHandler(submissions *service.SubmissionService, thankYou string, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		submissions: submissions,
		thankYou:    thankYou,
		logger:      logger,
	}
}

// Submit 处理 POST /contact。
// 成功（包括蜜罐拦截）一律 302 跳转到致谢页；
// 投递失败返回 500 纯文本，与旧版站点前端的约定一致。
func (h *ContactHandler) Submit(c *gin.Context) {
	var sub domain.ContactSubmission
	if err := c.ShouldBind(&sub); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	if err := h.submissions.SubmitContact(sub); err != nil {
		h.logger.Error("contact submission failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error sending message")
		return
	}

	c.Redirect(http.StatusFound, h.thankYou)
}
