package httptransport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sitemail/backend/internal/config"
	"sitemail/backend/internal/domain"
	"sitemail/backend/internal/security"
	"sitemail/backend/internal/service"
	"sitemail/backend/internal/storage/filesystem"
	"sitemail/backend/internal/template"
)

// MockSender 模拟邮件发送器
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(msg *domain.EmailMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

const testBodyLimit = 20 * 1024 * 1024

// newTestRouter 构建除邮件发送外全部真实依赖的路由
func newTestRouter(t *testing.T, sender *MockSender, maxBody int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	contactPath := filepath.Join(dir, "contact-email.html")
	require.NoError(t, os.WriteFile(contactPath,
		[]byte("<p>{{name}} {{email}} {{phone}} {{subject}} {{message}}</p>"), 0644))
	contactTpl, err := template.Load(contactPath, service.ContactPlaceholders)
	require.NoError(t, err)

	appPath := filepath.Join(dir, "application-email.html")
	require.NoError(t, os.WriteFile(appPath,
		[]byte("<p>{{job_title}} {{fullname}} {{surname}} {{email}} {{phone}} {{province}} {{city}} {{experience}} {{motivation}}</p>"), 0644))
	appTpl, err := template.Load(appPath, service.ApplicationPlaceholders)
	require.NoError(t, err)

	uploadDir := t.TempDir()
	store, err := filesystem.NewStore(uploadDir)
	require.NoError(t, err)

	logger := zap.NewNop()
	mailCfg := config.MailConfig{
		ContactRecipient:     "info@logopopads.com",
		ApplicationRecipient: "careers@logopopads.com",
		ContactFromName:      "Logo Pop Ads Contact",
		ApplicationFromName:  "Logo Pop Ads Careers",
		ContactThankYou:      "/contact-us-thank-you.html",
		ApplicationThankYou:  "/vacancies-thank-you.html",
	}

	submissions := service.NewSubmissionService(service.SubmissionDependencies{
		ContactTemplate:     contactTpl,
		ApplicationTemplate: appTpl,
		Guard:               security.NewSpamGuard(),
		Intake:              service.NewIntakeService(security.NewAttachmentFilter(), store, 10, logger, nil),
		Sender:              sender,
		MailConfig:          mailCfg,
		FromAddress:         "mailer@logopopads.com",
		Logger:              logger,
	})

	router := NewRouter(RouterDependencies{
		Config: &config.Config{
			Mail:   mailCfg,
			Upload: config.UploadConfig{MaxBodyBytes: maxBody},
			CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
		Submissions: submissions,
		Logger:      logger,
	})

	return router, uploadDir
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type uploadFile struct {
	name        string
	contentType string
	content     string
}

func postMultipart(t *testing.T, router *gin.Engine, path string, fields map[string]string, files []uploadFile) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="attachments"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestContactEndpoint(t *testing.T) {
	t.Run("正常提交跳转致谢页并发送邮件", func(t *testing.T) {
		sender := new(MockSender)
		router, _ := newTestRouter(t, sender, testBodyLimit)

		var sent *domain.EmailMessage
		sender.On("Send", mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(0).(*domain.EmailMessage)
		}).Return(nil)

		rec := postForm(router, "/contact", url.Values{
			"name":    {"Ana"},
			"email":   {"ana@x.com"},
			"subject": {"Pricing"},
			"message": {"Hi"},
			"cc_me":   {"yes"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/contact-us-thank-you.html", rec.Header().Get("Location"))
		require.NotNil(t, sent)
		assert.Equal(t, "Contact Form: Pricing", sent.Subject)
		assert.Equal(t, []string{"ana@x.com"}, sent.CC)
	})

	t.Run("蜜罐命中同样跳转致谢页但不发送", func(t *testing.T) {
		sender := new(MockSender)
		router, _ := newTestRouter(t, sender, testBodyLimit)

		rec := postForm(router, "/contact", url.Values{
			"name":       {"Ana"},
			"email":      {"ana@x.com"},
			"subject":    {"Pricing"},
			"message":    {"Hi"},
			"fax_number": {"12345"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/contact-us-thank-you.html", rec.Header().Get("Location"))
		sender.AssertNotCalled(t, "Send", mock.Anything)
	})

	t.Run("投递失败返回500纯文本", func(t *testing.T) {
		sender := new(MockSender)
		router, _ := newTestRouter(t, sender, testBodyLimit)
		sender.On("Send", mock.Anything).Return(errors.New("relay down"))

		rec := postForm(router, "/contact", url.Values{"subject": {"Pricing"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error sending message", rec.Body.String())
	})
}

func TestApplicationEndpoint(t *testing.T) {
	appFields := map[string]string{
		"fullname":  "Lee",
		"surname":   "Kim",
		"job_title": "Driver",
	}

	t.Run("合法提交跳转致谢页", func(t *testing.T) {
		sender := new(MockSender)
		router, _ := newTestRouter(t, sender, testBodyLimit)

		var sent *domain.EmailMessage
		sender.On("Send", mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(0).(*domain.EmailMessage)
		}).Return(nil)

		rec := postMultipart(t, router, "/apply", appFields, []uploadFile{
			{name: "resume.pdf", contentType: "application/pdf", content: "%PDF fake"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/vacancies-thank-you.html", rec.Header().Get("Location"))
		require.NotNil(t, sent)
		assert.Equal(t, "New Application: Lee Kim (Driver)", sent.Subject)
		require.Len(t, sent.Attachments, 1)
		assert.Equal(t, "resume.pdf", sent.Attachments[0].Filename)
	})

	t.Run("两个历史路径行为一致", func(t *testing.T) {
		sender := new(MockSender)
		router, _ := newTestRouter(t, sender, testBodyLimit)
		sender.On("Send", mock.Anything).Return(nil)

		rec := postMultipart(t, router, "/vacancies-api/apply", appFields, []uploadFile{
			{name: "resume.pdf", contentType: "application/pdf", content: "%PDF fake"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/vacancies-thank-you.html", rec.Header().Get("Location"))
	})

	t.Run("零附件返回400及JSON错误", func(t *testing.T) {
		sender := new(MockSender)
		router, _ := newTestRouter(t, sender, testBodyLimit)

		rec := postMultipart(t, router, "/apply", appFields, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "At least one attachment is required.", decodeError(t, rec))
		sender.AssertNotCalled(t, "Send", mock.Anything)
	})

	t.Run("类型不允许的附件整体拒绝", func(t *testing.T) {
		sender := new(MockSender)
		router, uploadDir := newTestRouter(t, sender, testBodyLimit)

		rec := postMultipart(t, router, "/apply", appFields, []uploadFile{
			{name: "resume.pdf", contentType: "application/pdf", content: "%PDF fake"},
			{name: "notes.txt", contentType: "text/plain", content: "notes"},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only PDF, Word documents, ZIP files, or images are allowed.", decodeError(t, rec))
		sender.AssertNotCalled(t, "Send", mock.Anything)

		entries, err := os.ReadDir(uploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("超限的multipart体返回413而非缺附件", func(t *testing.T) {
		sender := new(MockSender)
		router, uploadDir := newTestRouter(t, sender, 1024)

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for key, value := range appFields {
			require.NoError(t, w.WriteField(key, value))
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="attachments"; filename="resume.pdf"`)
		header.Set("Content-Type", "application/pdf")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), 4096))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		// 以普通 Reader 发送使 Content-Length 未知，绕过中间件的前置检查，
		// 让 http.MaxBytesReader 在表单解析阶段截断请求体
		req := httptest.NewRequest(http.MethodPost, "/apply", io.NopCloser(&buf))
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "Uploaded files exceed the maximum allowed size.", decodeError(t, rec))
		sender.AssertNotCalled(t, "Send", mock.Anything)

		entries, err := os.ReadDir(uploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("投递失败返回500及JSON错误且附件保留", func(t *testing.T) {
		sender := new(MockSender)
		router, uploadDir := newTestRouter(t, sender, testBodyLimit)
		sender.On("Send", mock.Anything).Return(errors.New("relay down"))

		rec := postMultipart(t, router, "/apply", appFields, []uploadFile{
			{name: "resume.pdf", contentType: "application/pdf", content: "%PDF fake"},
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to send application", decodeError(t, rec))

		entries, err := os.ReadDir(uploadDir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestRootEndpoint(t *testing.T) {
	sender := new(MockSender)
	router, _ := newTestRouter(t, sender, testBodyLimit)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}
