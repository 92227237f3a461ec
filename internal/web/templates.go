package web

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>qakit</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
textarea { width: 100%; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ccc; padding: .3rem .5rem; text-align: left; }
.warning { color: #a15c00; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>AI Test Case Generator</h1>
<form method="post" action="/testcases">
  <label for="story">User story</label>
  <textarea id="story" name="story" rows="6">{{.Story}}</textarea>
  <label for="mode">Output</label>
  <select id="mode" name="mode">
  {{- range .Modes}}
    <option value="{{.}}"{{if eq . $.Mode}} selected{{end}}>{{.}}</option>
  {{- end}}
  </select>
  <button type="submit">Generate test cases</button>
</form>
{{- with .TestCaseError}}
<p class="error">{{.}}</p>
{{- end}}
{{- with .Result}}
{{- with $.Warning}}
<p class="warning">{{.}}</p>
{{- end}}
{{- if .Rows}}
<table>
  <tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
  {{- range .Records}}
  <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{- end}}
</table>
<form method="post" action="/testcases.csv">
  <input type="hidden" name="mode" value="{{.Mode}}">
  <input type="hidden" name="raw" value="{{.Raw}}">
  <button type="submit">Download CSV</button>
</form>
{{- end}}
<h3>Raw output</h3>
<div class="raw">{{$.RawHTML}}</div>
{{- end}}

<h1>ContextQA</h1>
<form method="post" action="/ask">
  <label for="context">Context</label>
  <textarea id="context" name="context" rows="6">{{.Context}}</textarea>
  <label for="question">Question</label>
  <input id="question" name="question" size="80" value="{{.Question}}">
  <button type="submit">Ask</button>
</form>
{{- with .AskError}}
<p class="error">{{.}}</p>
{{- end}}
{{- with .Answer}}
<p><strong>Answer:</strong> {{.Text}} <small>({{.Source}})</small></p>
{{- end}}
<footer><small>request {{.RequestID}}</small></footer>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	RequestID string
	Modes     []parser.Mode

	Mode          parser.Mode
	Story         string
	Result        *testcases.Result
	RawHTML       template.HTML
	Warning       string
	TestCaseError string

	Context  string
	Question string
	Answer   *qa.Answer
	AskError string
}

// renderMarkdown converts model output to HTML. goldmark escapes raw HTML
// unless the unsafe renderer option is set, so the result is safe to embed.
func renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
