package prompt

const FewShotExample = `
Example:
User Story: As a user, I want to log in using my email and password so that I can access my account dashboard.

Test Cases:
Positive:
1. Verify that a valid user can log in successfully.
2. Verify that the 'Remember me' option keeps the user logged in.

Negative:
1. Verify that an incorrect password shows an error message.
2. Verify that a non-registered email shows a 'user not found' message.

Edge:
1. Verify login with empty fields shows validation errors.
2. Verify login attempt rate limiting after multiple failed logins.
`

const TestCaseTemplate = `
You are a senior QA engineer. Based on the following user story, create detailed software test cases grouped as Positive, Negative, and Edge cases.

Follow this structure strictly:
{{ .Example }}

Now, based on this story:
User Story: {{ .Story }}

Test Cases:
`

const BulletTemplate = `
You are a senior QA engineer. Write concise test case titles for the following user story.
Cover positive, negative and edge scenarios. Put every test case on its own line and start each line with "- ".
Do not number the lines and do not repeat a test case.

User Story: {{ .Story }}

Test Cases:
`

const QATemplate = `Answer the question based only on the context below. If the context doesn't contain the answer, say exactly: '{{ .Fallback }}'

Context:
{{ .Context }}

Question: {{ .Question }}
Answer:`

// NoAnswer is what the model is told to say when the context is not enough.
const NoAnswer = "The context does not provide this information."

type TestCaseData struct {
	Example string
	Story   string
}

type QAData struct {
	Context  string
	Question string
	Fallback string
}
