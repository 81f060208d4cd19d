package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"go.uber.org/zap"

	"sitemail/backend/internal/config"
	"sitemail/backend/internal/domain"
	"sitemail/backend/internal/mail"
	"sitemail/backend/internal/monitoring"
	"sitemail/backend/internal/security"
	"sitemail/backend/internal/template"
)

// ContactPlaceholders 联系表单模板允许的占位符。
var ContactPlaceholders = []string{"name", "email", "phone", "subject", "message"}

// ApplicationPlaceholders 职位申请模板允许的占位符。
var ApplicationPlaceholders = []string{
	"job_title", "fullname", "surname", "email", "phone",
	"province", "city", "experience", "motivation",
}

// SubmissionService 将表单提交编排为一封外发邮件。
//
// 两类提交共用同一条管线：蜜罐检查（仅联系表单）→ 附件接收（仅职位申请）→
// 模板渲染 → 邮件组装 → 中继投递。每次提交最多产生一封邮件，
// 任何失败都是终态，不重试也不入队。
type SubmissionService struct {
	contactTpl     *template.Template
	applicationTpl *template.Template
	guard          *security.SpamGuard
	intake         *IntakeService
	sender         mail.Sender
	mailCfg        config.MailConfig
	fromAddress    string // 发件地址 = 中继账号
	logger         *zap.Logger
	metrics        *monitoring.Metrics
}

// SubmissionDependencies 提交服务依赖项
type SubmissionDependencies struct {
	ContactTemplate     *template.Template
	ApplicationTemplate *template.Template
	Guard               *security.SpamGuard
	Intake              *IntakeService
	Sender              mail.Sender
	MailConfig          config.MailConfig
	FromAddress         string
	Logger              *zap.Logger
	Metrics             *monitoring.Metrics
}

// NewSubmissionService 创建提交处理服务。
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	return &SubmissionService{
		contactTpl:     deps.ContactTemplate,
		applicationTpl: deps.ApplicationTemplate,
		guard:          deps.Guard,
		intake:         deps.Intake,
		sender:         deps.Sender,
		mailCfg:        deps.MailConfig,
		fromAddress:    deps.FromAddress,
		logger:         deps.Logger,
		metrics:        deps.Metrics,
	}
}

// SubmitContact 处理联系表单提交。
//
// 蜜罐命中时跳过渲染与投递，只记录日志；返回 nil 使调用方照常返回
// 成功跳转，不向提交者暴露蜜罐的存在。
func (s *SubmissionService) SubmitContact(sub domain.ContactSubmission) error {
	if s.guard.Suppressed(sub.Honeypot) {
		s.logger.Warn("spam submission suppressed: honeypot filled",
			zap.String("kind", string(domain.KindContact)),
			zap.String("honeypot_field", domain.HoneypotField),
		)
		s.metrics.RecordSubmission(string(domain.KindContact), monitoring.OutcomeSuppressed)
		return nil
	}

	html := s.contactTpl.Render(map[string]string{
		"name":    sub.Name,
		"email":   sub.Email,
		"phone":   sub.Phone,
		"subject": sub.Subject,
		"message": sub.Message,
	})

	msg := &domain.EmailMessage{
		FromName:    s.mailCfg.ContactFromName,
		FromAddress: s.fromAddress,
		To:          []string{s.mailCfg.ContactRecipient},
		Subject:     "Contact Form: " + sub.Subject,
		HTML:        html,
	}
	// 提交者明确勾选 cc_me 时抄送其本人
	if sub.CCMe == "yes" && sub.Email != "" {
		msg.CC = []string{sub.Email}
	}

	return s.dispatch(domain.KindContact, msg)
}

// SubmitApplication 处理职位申请提交。
// 至少需要一个类型合法的附件，否则整个提交失败且不发送任何邮件。
func (s *SubmissionService) SubmitApplication(sub domain.ApplicationSubmission, files []*multipart.FileHeader) error {
	attachments, err := s.intake.Accept(files)
	if err != nil {
		if IsClientError(err) {
			s.metrics.RecordSubmission(string(domain.KindApplication), monitoring.OutcomeRejected)
		}
		return err
	}

	html := s.applicationTpl.Render(map[string]string{
		"job_title":  sub.JobTitle,
		"fullname":   sub.FullName,
		"surname":    sub.Surname,
		"email":      sub.Email,
		"phone":      sub.Phone,
		"province":   sub.Province,
		"city":       sub.City,
		"experience": sub.Experience,
		"motivation": sub.Motivation,
	})

	msg := &domain.EmailMessage{
		FromName:    s.mailCfg.ApplicationFromName,
		FromAddress: s.fromAddress,
		To:          []string{s.mailCfg.ApplicationRecipient},
		Subject:     fmt.Sprintf("New Application: %s %s (%s)", sub.FullName, sub.Surname, sub.JobTitle),
		HTML:        html,
		Attachments: attachments,
	}

	return s.dispatch(domain.KindApplication, msg)
}

// IsClientError 判断错误是否属于应报告给调用方的客户端错误。
func IsClientError(err error) bool {
	return errors.Is(err, ErrAttachmentRequired) ||
		errors.Is(err, ErrAttachmentType) ||
		errors.Is(err, ErrTooManyAttachments)
}

// dispatch 执行投递并记录结果。投递失败是终态，已落盘的附件不回滚。
func (s *SubmissionService) dispatch(kind domain.SubmissionKind, msg *domain.EmailMessage) error {
	start := time.Now()

	if err := s.sender.Send(msg); err != nil {
		s.metrics.RecordSubmission(string(kind), monitoring.OutcomeFailed)
		return fmt.Errorf("dispatch %s mail: %w", kind, err)
	}

	s.metrics.RecordSubmission(string(kind), monitoring.OutcomeSent)
	s.metrics.RecordDispatch(time.Since(start))

	s.logger.Info("submission mail dispatched",
		zap.String("kind", string(kind)),
		zap.String("subject", msg.Subject),
		zap.Strings("to", msg.To),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}
