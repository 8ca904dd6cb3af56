package render

import (
	"bytes"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.ghost-note { visibility: hidden; }
#satb-error-panel h2 { font-family: sans-serif; color: #a33; }
</style>
</head>
<body>
<div id="stave-svg">
{{.SVG}}
</div>
<div id="satb-error-panel">
{{- if .Warnings}}
<h2>SATB Voice Leading Errors</h2>
{{- range .Warnings}}
<p>{{.}}</p>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))

type pageData struct {
	Title    string
	SVG      template.HTML
	Warnings []string
}

// Page writes an HTML page hosting svg in the stave-svg element and one
// paragraph per warning in the satb-error-panel element.
func Page(w io.Writer, title string, svg []byte, warnings []string) error {
	return pageTemplate.Execute(w, pageData{
		Title:    title,
		SVG:      template.HTML(stripProlog(svg)),
		Warnings: warnings,
	})
}

// stripProlog drops the XML declaration so the document can sit inline.
func stripProlog(doc []byte) []byte {
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		return doc[i:]
	}
	return doc
}
