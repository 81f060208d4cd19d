package domain

// SubmissionKind 表示表单提交的类型。
type SubmissionKind string

const (
	KindContact     SubmissionKind = "contact"     // 联系表单
	KindApplication SubmissionKind = "application" // 职位申请表单
)

// HoneypotField 联系表单中的蜜罐字段名，正常用户在页面上看不到该字段。
const HoneypotField = "fax_number"

// ContactSubmission 表示联系表单的一次提交。
// 所有字段对调用方而言都是可选字符串，缺失的字段在渲染时以 "N/A" 占位。
type ContactSubmission struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Phone    string `form:"phone"`
	Subject  string `form:"subject"`
	Message  string `form:"message"`
	CCMe     string `form:"cc_me"`      // "yes" 表示抄送一份给提交者本人
	Honeypot string `form:"fax_number"` // 蜜罐字段，被填写即视为机器人提交
}

// ApplicationSubmission 表示职位申请表单的一次提交。
type ApplicationSubmission struct {
	FullName   string `form:"fullname"`
	Surname    string `form:"surname"`
	Email      string `form:"email"`
	Phone      string `form:"phone"`
	Province   string `form:"province"`
	City       string `form:"city"`
	Experience string `form:"experience"`
	Motivation string `form:"motivation"`
	JobTitle   string `form:"job_title"`
}
