package charts

import (
	"bytes"
	"html"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"
)

// RenderPage writes a standalone HTML page holding the given charts in order,
// followed by caption when it is not empty.
func RenderPage(w io.Writer, title string, style Style, caption string, charters ...components.Charter) error {
	page := components.NewPage()
	page.SetPageTitle(title)
	page.SetLayout(components.PageFlexLayout)
	if style.AssetsHost != "" {
		page.SetAssetsHost(style.AssetsHost)
	}
	page.AddCharts(charters...)

	if caption == "" {
		return page.Render(w)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return err
	}
	note := `<p style="text-align:center;color:#666;font-family:Arial,sans-serif;">` + html.EscapeString(caption) + "</p>\n</body>"
	_, err := w.Write(bytes.Replace(buf.Bytes(), []byte("</body>"), []byte(note), 1))
	return err
}

var placeholderTmpl = template.Must(template.New("placeholder").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; }
.placeholder { padding: 48px 16px; text-align: center; color: #555; background: #f6f6f6; border: 1px dashed #bbb; border-radius: 4px; }
.placeholder.error { color: #721c24; background: #f8d7da; border-color: #f5c6cb; }
</style>
</head>
<body>
<div class="placeholder{{if .Failed}} error{{end}}">{{.Message}}</div>
</body>
</html>
`))

// RenderPlaceholder writes a page with a single centered message in place of a chart.
// failed switches to the error styling.
func RenderPlaceholder(w io.Writer, title, message string, failed bool) error {
	return placeholderTmpl.Execute(w, struct {
		Title   string
		Message string
		Failed  bool
	}{title, message, failed})
}
