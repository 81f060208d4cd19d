package template

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// 占位符语法为双大括号包裹的名称，如 {{name}}。
var (
	tokenPattern = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// missingValue 字段缺失或为空白时渲染的占位文本。
const missingValue = "N/A"

// Template 表示一份邮件模板及其允许的占位符集合。
// 模板在进程启动时加载并校验一次；模板中出现未声明的占位符属于配置错误，
// 在加载阶段报错，而不是留到请求处理时。
type Template struct {
	name         string
	raw          string
	placeholders []string
}

// Load 读取模板文件并校验其中的占位符。
func Load(path string, placeholders []string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	name := filepath.Base(path)
	raw := string(data)

	allowed := make(map[string]bool, len(placeholders))
	for _, p := range placeholders {
		allowed[p] = true
	}

	// 扫描模板中所有 {{...}} 片段，必须是格式规范且已声明的占位符
	for _, token := range tokenPattern.FindAllString(raw, -1) {
		inner := strings.TrimSpace(token[2 : len(token)-2])
		if !namePattern.MatchString(inner) || token != "{{"+inner+"}}" {
			return nil, fmt.Errorf("template %s: malformed placeholder %s", name, token)
		}
		if !allowed[inner] {
			return nil, fmt.Errorf("template %s: unknown placeholder {{%s}}", name, inner)
		}
	}

	return &Template{
		name:         name,
		raw:          raw,
		placeholders: placeholders,
	}, nil
}

// Name 返回模板文件名。
func (t *Template) Name() string {
	return t.name
}

// Render 用提交的字段值替换模板中的占位符，返回渲染后的 HTML。
//
// 每个占位符的所有出现位置都会被替换。值为空白或缺失时替换为 "N/A"。
// 替换在原始模板上单趟完成，已替换进去的字段值不会被再次扫描，
// 因此值里即使含有 {{name}} 这样的文字也只会原样输出，不会被当作占位符。
// 渲染结果会作为 HTML 邮件正文被邮件客户端解析，因此字段值中的
// HTML 敏感字符在替换前统一转义，防止通过表单字段注入标记。
func (t *Template) Render(values map[string]string) string {
	escaped := make(map[string]string, len(t.placeholders))
	for _, name := range t.placeholders {
		value := strings.TrimSpace(values[name])
		if value == "" {
			value = missingValue
		} else {
			value = html.EscapeString(value)
		}
		escaped[name] = value
	}

	return tokenPattern.ReplaceAllStringFunc(t.raw, func(token string) string {
		name := token[2 : len(token)-2]
		return escaped[name]
	})
}
