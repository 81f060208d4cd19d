package domain

// EmailMessage 表示一封组装完成、等待投递的邮件。
// 一次表单提交最多产生一封 EmailMessage。
type EmailMessage struct {
	FromName    string       // 发件人显示名
	FromAddress string       // 发件地址（中继账号地址）
	To          []string     // 收件地址
	CC          []string     // 抄送地址（提交者勾选 cc_me 时包含其本人地址）
	Subject     string       // 邮件主题
	HTML        string       // 渲染后的 HTML 正文
	Attachments []Attachment // 附件列表（仅职位申请类提交）
}

// Recipients 返回全部投递目标（收件人加抄送）。
func (m *EmailMessage) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.CC))
	out = append(out, m.To...)
	out = append(out, m.CC...)
	return out
}
