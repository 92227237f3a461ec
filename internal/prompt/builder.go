package prompt

import (
	"bytes"
	"text/template"

	"github.com/rejot-dev/qakit/internal/parser"
)

var (
	testCaseTmpl = template.Must(template.New("testcases").Parse(TestCaseTemplate))
	bulletTmpl   = template.Must(template.New("bullets").Parse(BulletTemplate))
	qaTmpl       = template.Must(template.New("qa").Parse(QATemplate))
)

// BuildTestCasePrompt renders the few-shot categorized test case prompt.
func BuildTestCasePrompt(story string) string {
	return render(testCaseTmpl, TestCaseData{Example: FewShotExample, Story: story})
}

// BuildBulletPrompt renders the prompt asking for dash-prefixed titles.
func BuildBulletPrompt(story string) string {
	return render(bulletTmpl, TestCaseData{Story: story})
}

// BuildForMode picks the test case prompt matching the output mode.
func BuildForMode(mode parser.Mode, story string) string {
	if mode == parser.ModeBulleted {
		return BuildBulletPrompt(story)
	}
	return BuildTestCasePrompt(story)
}

func BuildQAPrompt(context, question string) string {
	return render(qaTmpl, QAData{Context: context, Question: question, Fallback: NoAnswer})
}

// Templates are parsed at init and only receive strings, so Execute cannot
// fail for any input.
func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
