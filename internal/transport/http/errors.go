package httptransport

import (
	"errors"

	"sitemail/backend/internal/service"
)

// 错误消息映射表（业务错误 -> 客户端可见消息）
// 消息文案沿用站点前端已经依赖的原始表述。
var clientErrorMessages = map[error]string{
	service.ErrAttachmentRequired: "At least one attachment is required.",
	service.ErrAttachmentType:     "Only PDF, Word documents, ZIP files, or images are allowed.",
	service.ErrTooManyAttachments: "Too many attachments.",
}

// clientErrorMessage 返回客户端错误对应的展示消息。
// 不属于客户端错误的返回 ok=false，调用方应按服务端错误处理。
func clientErrorMessage(err error) (string, bool) {
	for sentinel, msg := range clientErrorMessages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
