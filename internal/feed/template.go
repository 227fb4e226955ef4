package feed

import (
	"html/template"
	"strings"
)

// 正文展示模板；正文来自站点自身的 HTML，原样嵌入
var descriptionTmpl = template.Must(template.New("description").Parse(
	`<div class="feed-article">{{ .Desc }}</div>`,
))

// renderDescription 把抽取到的正文套进展示模板，失败时返回原文
func renderDescription(desc string) string {
	var b strings.Builder
	if err := descriptionTmpl.Execute(&b, struct{ Desc template.HTML }{template.HTML(desc)}); err != nil {
		return desc
	}
	return b.String()
}
