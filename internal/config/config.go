package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 中继连接的安全模式。
const (
	RelaySecurityTLS      = "tls"      // 隐式 TLS（通常为 465 端口）
	RelaySecurityStartTLS = "starttls" // STARTTLS（通常为 587 端口）
	RelaySecurityNone     = "none"     // 明文连接（仅用于本地调试）
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// RelayConfig 定义外发邮件使用的 SMTP 中继配置。
// 配置在进程启动时一次性构建并传入发送器，请求处理代码中不做任何环境变量读取。
type RelayConfig struct {
	Host               string // 中继主机
	Port               int    // 中继端口，默认 465
	Username           string // 认证账号，同时作为发件地址
	Password           string // 认证密码
	Security           string // 安全模式: tls / starttls / none
	InsecureSkipVerify bool   // 跳过证书校验（沿用旧服务行为，默认开启）
}

// Addr 返回 host:port 形式的中继地址。
func (c RelayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig 定义两类表单邮件的固定身份与跳转目标。
type MailConfig struct {
	ContactRecipient     string // 联系表单收件箱
	ApplicationRecipient string // 职位申请收件箱
	ContactFromName      string // 联系表单发件人显示名
	ApplicationFromName  string // 职位申请发件人显示名
	ContactThankYou      string // 联系表单成功后的跳转路径
	ApplicationThankYou  string // 职位申请成功后的跳转路径
}

// UploadConfig 定义上传文件的存储配置。
// 注意：已保存的上传文件没有清理策略，磁盘占用随提交量增长，
// 保留窗口是一个显式的运营决策，不在本服务内实现。
type UploadConfig struct {
	Dir          string // 上传文件存储目录，启动时自动创建
	MaxFiles     int    // 单次提交最多接受的文件数，默认 10
	MaxBodyBytes int64  // 请求体大小上限（字节），默认 20MB
}

// TemplateConfig 定义邮件模板配置。
type TemplateConfig struct {
	Dir string // 模板目录，包含 contact-email.html 与 application-email.html
}

// StaticConfig 定义静态站点文件服务配置。
type StaticConfig struct {
	Dir string // 站点文件目录，留空表示不提供静态文件
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server   ServerConfig   // HTTP 服务器配置
	Relay    RelayConfig    // SMTP 中继配置
	Mail     MailConfig     // 邮件身份配置
	Upload   UploadConfig   // 上传存储配置
	Template TemplateConfig // 模板配置
	Static   StaticConfig   // 静态文件配置
	CORS     CORSConfig     // 跨域配置
	Log      LogConfig      // 日志配置
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: SITEMAIL_
// 例如: SITEMAIL_RELAY_HOST, SITEMAIL_MAIL_CONTACT_RECIPIENT
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("sitemail")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("relay.host", "")
	viper.SetDefault("relay.port", 465)
	viper.SetDefault("relay.username", "")
	viper.SetDefault("relay.password", "")
	viper.SetDefault("relay.security", RelaySecurityTLS)
	viper.SetDefault("relay.insecure_skip_verify", true)
	viper.SetDefault("mail.contact_recipient", "info@logopopads.com")
	viper.SetDefault("mail.application_recipient", "")
	viper.SetDefault("mail.contact_from_name", "Logo Pop Ads Contact")
	viper.SetDefault("mail.application_from_name", "Logo Pop Ads Careers")
	viper.SetDefault("mail.contact_thank_you", "/contact-us-thank-you.html")
	viper.SetDefault("mail.application_thank_you", "/vacancies-thank-you.html")
	viper.SetDefault("upload.dir", "./uploads")
	viper.SetDefault("upload.max_files", 10)
	viper.SetDefault("upload.max_body_bytes", 20*1024*1024)
	viper.SetDefault("template.dir", "./templates")
	viper.SetDefault("static.dir", "")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)

	relay := RelayConfig{
		Host:               viper.GetString("relay.host"),
		Port:               viper.GetInt("relay.port"),
		Username:           viper.GetString("relay.username"),
		Password:           viper.GetString("relay.password"),
		Security:           strings.ToLower(viper.GetString("relay.security")),
		InsecureSkipVerify: viper.GetBool("relay.insecure_skip_verify"),
	}

	if relay.Host == "" {
		return nil, fmt.Errorf("relay.host must not be empty; set SITEMAIL_RELAY_HOST")
	}
	if relay.Username == "" || relay.Password == "" {
		return nil, fmt.Errorf("relay credentials must not be empty; set SITEMAIL_RELAY_USERNAME and SITEMAIL_RELAY_PASSWORD")
	}
	switch relay.Security {
	case RelaySecurityTLS, RelaySecurityStartTLS, RelaySecurityNone:
	default:
		return nil, fmt.Errorf("invalid relay.security %q: must be tls, starttls or none", relay.Security)
	}

	mail := MailConfig{
		ContactRecipient:     viper.GetString("mail.contact_recipient"),
		ApplicationRecipient: viper.GetString("mail.application_recipient"),
		ContactFromName:      viper.GetString("mail.contact_from_name"),
		ApplicationFromName:  viper.GetString("mail.application_from_name"),
		ContactThankYou:      viper.GetString("mail.contact_thank_you"),
		ApplicationThankYou:  viper.GetString("mail.application_thank_you"),
	}
	if mail.ContactRecipient == "" {
		return nil, fmt.Errorf("mail.contact_recipient must not be empty")
	}
	// 职位申请收件箱未单独配置时复用联系表单收件箱
	if mail.ApplicationRecipient == "" {
		mail.ApplicationRecipient = mail.ContactRecipient
	}

	upload := UploadConfig{
		Dir:          viper.GetString("upload.dir"),
		MaxFiles:     viper.GetInt("upload.max_files"),
		MaxBodyBytes: viper.GetInt64("upload.max_body_bytes"),
	}
	if upload.MaxFiles <= 0 {
		upload.MaxFiles = 10
	}
	if upload.MaxBodyBytes <= 0 {
		upload.MaxBodyBytes = 20 * 1024 * 1024
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Relay:  relay,
		Mail:   mail,
		Upload: upload,
		Template: TemplateConfig{
			Dir: viper.GetString("template.dir"),
		},
		Static: StaticConfig{
			Dir: viper.GetString("static.dir"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
	}

	return cfg, nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从子目录运行的情况）
//
// 如果文件不存在，静默失败；已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
