package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dhonk_backend/internal/config"
	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/infrastructure"
	"dhonk_backend/internal/interfaces"
	"dhonk_backend/internal/logger"
	"dhonk_backend/internal/metrics"
)

const TimeoutAnswer = "❌ Timeout: Server took too long."

// LLMFallback asks the language model. It is the last link of the chain and
// always produces an answer, success or error.
type LLMFallback struct {
	model   interfaces.ChatModel
	prompts config.Prompts
	log     logger.Logger
	metrics *metrics.Metrics
}

func NewLLMFallback(model interfaces.ChatModel, prompts config.Prompts, log logger.Logger, m *metrics.Metrics) *LLMFallback {
	return &LLMFallback{model: model, prompts: prompts, log: log, metrics: m}
}

func (f *LLMFallback) Source() entities.AnswerSource {
	return entities.SourceLLM
}

// BuildMessages pairs the system prompt for the message's language with the
// user's message.
func (f *LLMFallback) BuildMessages(text string) []entities.ChatMessage {
	system := f.prompts.English
	if DetectLanguage(text) == LanguageHindi {
		system = f.prompts.Hindi
	}
	return []entities.ChatMessage{
		{Role: entities.RoleSystem, Content: system},
		{Role: entities.RoleUser, Content: text},
	}
}

func (f *LLMFallback) Resolve(ctx context.Context, msg entities.Message) (entities.Answer, bool) {
	start := time.Now()
	reply, err := f.model.ChatCompletion(ctx, f.BuildMessages(msg.Content))
	if err == nil {
		f.metrics.ObserveLLM(time.Since(start), "")
		return entities.Answer{Text: reply, Status: http.StatusOK, Source: entities.SourceLLM}, true
	}

	answer, kind := llmErrorAnswer(err)
	f.metrics.ObserveLLM(time.Since(start), kind)
	f.log.Error("LLM request failed",
		logger.String("request_id", msg.RequestID),
		logger.String("kind", kind),
		logger.Error(err),
	)
	return answer, true
}

// llmErrorAnswer maps a model failure to the user-visible answer and a
// metric label.
func llmErrorAnswer(err error) (entities.Answer, string) {
	var statusErr *infrastructure.UpstreamStatusError
	switch {
	case errors.As(err, &statusErr):
		return entities.Answer{
			Text:   "❌ LLM Error: " + statusErr.Body,
			Status: http.StatusInternalServerError,
			Source: entities.SourceLLM,
		}, "status"
	case errors.Is(err, infrastructure.ErrUpstreamTimeout):
		return entities.Answer{
			Text:   TimeoutAnswer,
			Status: http.StatusGatewayTimeout,
			Source: entities.SourceLLM,
		}, "timeout"
	default:
		return entities.Answer{
			Text:   "❌ Error: " + err.Error(),
			Status: http.StatusInternalServerError,
			Source: entities.SourceLLM,
		}, "error"
	}
}
