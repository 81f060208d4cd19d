package mail

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jhillyerd/enmime"

	"sitemail/backend/internal/domain"
)

// Compose 将 EmailMessage 编码为完整的 MIME 报文。
// 附件内容在此处按存储路径读取；读不到附件视为投递前的致命错误。
func Compose(msg *domain.EmailMessage) ([]byte, error) {
	builder := enmime.Builder().
		From(msg.FromName, msg.FromAddress).
		Subject(msg.Subject).
		HTML([]byte(msg.HTML))

	for _, to := range msg.To {
		builder = builder.To("", to)
	}
	for _, cc := range msg.CC {
		builder = builder.CC("", cc)
	}

	for _, att := range msg.Attachments {
		content, err := os.ReadFile(att.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("read attachment %q: %w", att.Filename, err)
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		builder = builder.AddAttachment(content, contentType, att.Filename)
	}

	part, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build mime message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode mime message: %w", err)
	}

	return buf.Bytes(), nil
}
