package domain

// Attachment 表示申请邮件的附件描述符。
// Filename 来自客户端，不可信，仅用于收件人邮件客户端的显示；
// StoragePath 由服务端生成，投递时从该路径读取文件内容。
type Attachment struct {
	Filename    string `json:"filename"`    // 客户端原始文件名
	StoragePath string `json:"storagePath"` // 服务端存储路径
	ContentType string `json:"contentType"` // 声明的 MIME 类型
	Size        int64  `json:"size"`        // 大小（字节）
}
