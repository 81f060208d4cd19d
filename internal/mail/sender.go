package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"sitemail/backend/internal/config"
	"sitemail/backend/internal/domain"
)

// Sender 定义邮件投递能力。
type Sender interface {
	Send(msg *domain.EmailMessage) error
}

// SMTPSender 通过外部 SMTP 中继投递邮件。
// 每次发送建立一条新连接，发完即关；本服务的提交量级不需要连接复用。
type SMTPSender struct {
	cfg    config.RelayConfig
	logger *zap.Logger
}

// NewSMTPSender 创建 SMTP 中继发送器。
func NewSMTPSender(cfg config.RelayConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
	}
}

// Send 组装并投递一封邮件。任何传输或协议错误都原样返回，不做重试。
func (s *SMTPSender) Send(msg *domain.EmailMessage) error {
	raw, err := Compose(msg)
	if err != nil {
		return err
	}

	client, err := s.dial()
	if err != nil {
		return fmt.Errorf("dial relay %s: %w", s.cfg.Addr(), err)
	}
	defer client.Close()

	if s.cfg.Username != "" {
		auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("relay auth: %w", err)
		}
	}

	if err := client.SendMail(s.cfg.Username, msg.Recipients(), bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Debug("mail relayed",
		zap.String("subject", msg.Subject),
		zap.Strings("to", msg.To),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Int("bytes", len(raw)),
	)

	return client.Quit()
}

// dial 按配置的安全模式建立中继连接。
func (s *SMTPSender) dial() (*smtp.Client, error) {
	tlsConfig := &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify,
	}

	switch s.cfg.Security {
	case config.RelaySecurityTLS:
		return smtp.DialTLS(s.cfg.Addr(), tlsConfig)
	case config.RelaySecurityStartTLS:
		return smtp.DialStartTLS(s.cfg.Addr(), tlsConfig)
	default:
		return smtp.Dial(s.cfg.Addr())
	}
}
