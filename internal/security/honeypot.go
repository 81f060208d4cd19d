package security

import "strings"

// SpamGuard 通过蜜罐字段识别自动化垃圾提交。
// 蜜罐字段只出现在表单的隐藏区域，正常用户不会填写；
// 自动填表的机器人会把它当作普通字段填上内容。
type SpamGuard struct{}

// NewSpamGuard 创建垃圾提交检查器
func NewSpamGuard() *SpamGuard {
	return &SpamGuard{}
}

// Suppressed 判断提交是否应被静默丢弃。
// 蜜罐字段去除首尾空白后非空即命中；命中的提交跳过全部处理，
// 但对外仍然返回正常的成功跳转，避免向攻击者暴露蜜罐的存在。
func (g *SpamGuard) Suppressed(honeypotValue string) bool {
	return strings.TrimSpace(honeypotValue) != ""
}
