package security

import (
	"mime"
	"strings"
)

// AttachmentFilter 按声明的 MIME 类型校验上传文件。
// 允许列表固定为简历场景常见的文档与图片类型。
type AttachmentFilter struct {
	allowedMimeTypes map[string]bool
}

// NewAttachmentFilter 创建附件类型检查器
func NewAttachmentFilter() *AttachmentFilter {
	return &AttachmentFilter{
		allowedMimeTypes: map[string]bool{
			"application/pdf":    true,
			"application/msword": true,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
			"application/zip":              true,
			"application/x-zip-compressed": true,
			"image/jpeg":                   true,
			"image/png":                    true,
		},
	}
}

// Allowed 检查声明的 Content-Type 是否在允许列表中。
// Content-Type 可能携带参数（如 charset），只比较媒体类型部分。
func (f *AttachmentFilter) Allowed(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return f.allowedMimeTypes[strings.ToLower(mediaType)]
}
