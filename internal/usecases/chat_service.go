package usecases

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"dhonk_backend/internal/config"
	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/interfaces"
	"dhonk_backend/internal/logger"
	"dhonk_backend/internal/metrics"
)

const EmptyMessageAnswer = "❌ Please type something."

// Resolver is one link of the fallback chain. Resolve reports false when it
// has nothing to say, letting the next resolver try.
type Resolver interface {
	Source() entities.AnswerSource
	Resolve(ctx context.Context, msg entities.Message) (entities.Answer, bool)
}

// ChatService answers a message from the first resolver that produces a
// result.
// Priority: 1. Intent → 2. Contact → 3. Content database → 4. Language model
type ChatService struct {
	resolvers []Resolver
	log       logger.Logger
	metrics   *metrics.Metrics
}

// NewChatService wires the standard chain.
func NewChatService(
	intents interfaces.IntentDetector,
	contacts entities.ContactDirectory,
	content interfaces.ContentSearcher,
	model interfaces.ChatModel,
	prompts config.Prompts,
	log logger.Logger,
	m *metrics.Metrics,
) *ChatService {
	return NewChatServiceWithResolvers(log, m,
		NewIntentGateway(intents),
		NewContactResolver(contacts),
		NewContentResolver(content, log, m),
		NewLLMFallback(model, prompts, log, m),
	)
}

// NewChatServiceWithResolvers builds a service over an explicit chain, tried
// in the given order.
func NewChatServiceWithResolvers(log logger.Logger, m *metrics.Metrics, resolvers ...Resolver) *ChatService {
	return &ChatService{resolvers: resolvers, log: log, metrics: m}
}

// Answer runs the chain for one message.
func (s *ChatService) Answer(ctx context.Context, msg entities.Message) entities.Answer {
	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Content == "" {
		return s.finish(msg, entities.Answer{
			Text:   EmptyMessageAnswer,
			Status: http.StatusBadRequest,
			Source: entities.SourceValidation,
		})
	}

	for _, r := range s.resolvers {
		if answer, ok := r.Resolve(ctx, msg); ok {
			return s.finish(msg, answer)
		}
		s.log.Debug("Resolver had no answer",
			logger.String("request_id", msg.RequestID),
			logger.String("source", string(r.Source())),
		)
	}

	// Only reachable when the chain has no terminal resolver.
	return s.finish(msg, entities.Answer{
		Text:   "❌ Error: no answer source available",
		Status: http.StatusInternalServerError,
	})
}

func (s *ChatService) finish(msg entities.Message, answer entities.Answer) entities.Answer {
	s.metrics.ObserveAnswer(string(answer.Source), strconv.Itoa(answer.Status))
	s.log.Info("Message answered",
		logger.String("request_id", msg.RequestID),
		logger.String("source", string(answer.Source)),
		logger.Int("status", answer.Status),
	)
	return answer
}
