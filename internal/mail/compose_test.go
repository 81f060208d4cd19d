package mail

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jhillyerd/enmime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitemail/backend/internal/domain"
)

func TestCompose(t *testing.T) {
	t.Run("纯HTML邮件", func(t *testing.T) {
		msg := &domain.EmailMessage{
			FromName:    "Logo Pop Ads Contact",
			FromAddress: "mailer@example.com",
			To:          []string{"info@example.com"},
			CC:          []string{"ana@x.com"},
			Subject:     "Contact Form: Pricing",
			HTML:        "<p>Hi</p>",
		}

		raw, err := Compose(msg)
		require.NoError(t, err)

		env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, "Contact Form: Pricing", env.GetHeader("Subject"))
		assert.Contains(t, env.GetHeader("From"), "mailer@example.com")
		assert.Contains(t, env.GetHeader("To"), "info@example.com")
		assert.Contains(t, env.GetHeader("Cc"), "ana@x.com")
		assert.Contains(t, env.HTML, "<p>Hi</p>")
		assert.Empty(t, env.Attachments)
	})

	t.Run("带附件邮件", func(t *testing.T) {
		stored := filepath.Join(t.TempDir(), "1756600000000-42.pdf")
		require.NoError(t, os.WriteFile(stored, []byte("%PDF-1.4 fake"), 0644))

		msg := &domain.EmailMessage{
			FromName:    "Logo Pop Ads Careers",
			FromAddress: "mailer@example.com",
			To:          []string{"careers@example.com"},
			Subject:     "New Application: Lee Kim (Driver)",
			HTML:        "<p>application</p>",
			Attachments: []domain.Attachment{
				{
					Filename:    "resume.pdf",
					StoragePath: stored,
					ContentType: "application/pdf",
				},
			},
		}

		raw, err := Compose(msg)
		require.NoError(t, err)

		env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
		require.NoError(t, err)
		require.Len(t, env.Attachments, 1)
		// 收件人看到的是原始文件名，而不是存储名
		assert.Equal(t, "resume.pdf", env.Attachments[0].FileName)
		assert.Equal(t, []byte("%PDF-1.4 fake"), env.Attachments[0].Content)
	})

	t.Run("附件文件缺失时报错", func(t *testing.T) {
		msg := &domain.EmailMessage{
			FromName:    "Logo Pop Ads Careers",
			FromAddress: "mailer@example.com",
			To:          []string{"careers@example.com"},
			Subject:     "New Application",
			HTML:        "<p>x</p>",
			Attachments: []domain.Attachment{
				{Filename: "gone.pdf", StoragePath: filepath.Join(t.TempDir(), "gone.pdf")},
			},
		}

		_, err := Compose(msg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "gone.pdf")
	})
}

func TestRecipients(t *testing.T) {
	msg := &domain.EmailMessage{
		To: []string{"a@example.com"},
		CC: []string{"b@example.com"},
	}

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, msg.Recipients())
}
