package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mail.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("合法模板加载成功", func(t *testing.T) {
		path := writeTemplate(t, "<p>{{name}} - {{email}}</p>")

		tpl, err := Load(path, []string{"name", "email"})

		require.NoError(t, err)
		assert.Equal(t, "mail.html", tpl.Name())
	})

	t.Run("未声明的占位符报错", func(t *testing.T) {
		path := writeTemplate(t, "<p>{{name}} {{address}}</p>")

		_, err := Load(path, []string{"name"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown placeholder {{address}}")
	})

	t.Run("格式异常的占位符报错", func(t *testing.T) {
		path := writeTemplate(t, "<p>{{ name }}</p>")

		_, err := Load(path, []string{"name"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed placeholder")
	})

	t.Run("文件不存在报错", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.html"), nil)

		assert.Error(t, err)
	})
}

func TestRender(t *testing.T) {
	t.Run("同一占位符的全部出现位置都被替换", func(t *testing.T) {
		path := writeTemplate(t, "Dear {{name}}, we received your message, {{name}}.")
		tpl, err := Load(path, []string{"name"})
		require.NoError(t, err)

		out := tpl.Render(map[string]string{"name": "Ana"})

		assert.Equal(t, "Dear Ana, we received your message, Ana.", out)
		assert.NotContains(t, out, "{{")
	})

	t.Run("缺失或空白字段渲染为N/A", func(t *testing.T) {
		path := writeTemplate(t, "{{name}}|{{phone}}|{{city}}")
		tpl, err := Load(path, []string{"name", "phone", "city"})
		require.NoError(t, err)

		out := tpl.Render(map[string]string{"name": "Lee", "phone": "   "})

		assert.Equal(t, "Lee|N/A|N/A", out)
	})

	t.Run("字段值中的HTML敏感字符被转义", func(t *testing.T) {
		path := writeTemplate(t, "<p>{{message}}</p>")
		tpl, err := Load(path, []string{"message"})
		require.NoError(t, err)

		out := tpl.Render(map[string]string{"message": `<script>alert("x") & more</script>`})

		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "&lt;script&gt;")
		assert.Contains(t, out, "&amp; more")
	})

	t.Run("渲染结果不残留占位符", func(t *testing.T) {
		path := writeTemplate(t, "{{a}} {{b}} {{c}}")
		tpl, err := Load(path, []string{"a", "b", "c"})
		require.NoError(t, err)

		out := tpl.Render(map[string]string{"a": "1"})

		assert.False(t, strings.Contains(out, "{{"), "rendered output must not contain placeholder tokens: %s", out)
	})

	t.Run("字段值中的占位符语法只作为文字输出", func(t *testing.T) {
		path := writeTemplate(t, "<p>{{name}}</p><p>{{message}}</p>")
		tpl, err := Load(path, []string{"name", "message"})
		require.NoError(t, err)

		out := tpl.Render(map[string]string{"name": "Ana", "message": "{{name}}"})

		assert.Equal(t, "<p>Ana</p><p>{{name}}</p>", out)
	})

	t.Run("字段值不会引用其他字段的内容", func(t *testing.T) {
		path := writeTemplate(t, "<p>{{name}}</p><p>{{message}}</p>")
		tpl, err := Load(path, []string{"name", "message"})
		require.NoError(t, err)

		out := tpl.Render(map[string]string{"name": "{{message}}", "message": "secret"})

		assert.Equal(t, "<p>{{message}}</p><p>secret</p>", out)
	})

	t.Run("渲染具有幂等性", func(t *testing.T) {
		path := writeTemplate(t, "Hello {{name}}")
		tpl, err := Load(path, []string{"name"})
		require.NoError(t, err)

		values := map[string]string{"name": "Kim"}
		first := tpl.Render(values)
		second := tpl.Render(values)

		assert.Equal(t, first, second)
	})
}
