package entities

// Message is a single inbound chat message. It lives for one request only.
type Message struct {
	RequestID string
	Content   string
	ClientIP  string
}

// AnswerSource names the pipeline stage that produced an answer.
type AnswerSource string

const (
	SourceValidation AnswerSource = "validation"
	SourceIntent     AnswerSource = "intent"
	SourceContact    AnswerSource = "contact"
	SourceDatabase   AnswerSource = "database"
	SourceLLM        AnswerSource = "llm"
)

// Answer is the text returned to the user. Status is the HTTP status the
// handler should reply with; Source is only used for logs and metrics.
type Answer struct {
	Text   string
	Status int
	Source AnswerSource
}
