package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dhonk_backend/internal/config"
	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/infrastructure"
	"dhonk_backend/internal/logger"
	"dhonk_backend/internal/metrics"
)

type MockIntentDetector struct {
	mock.Mock
}

func (m *MockIntentDetector) DetectIntent(text string) string {
	return m.Called(text).String(0)
}

func (m *MockIntentDetector) IntentResponse(label string) (string, bool) {
	args := m.Called(label)
	return args.String(0), args.Bool(1)
}

type MockContentSearcher struct {
	mock.Mock
}

func (m *MockContentSearcher) FindShortestMatch(ctx context.Context, query string) entities.LookupResult {
	return m.Called(ctx, query).Get(0).(entities.LookupResult)
}

type MockChatModel struct {
	mock.Mock
}

func (m *MockChatModel) ChatCompletion(ctx context.Context, messages []entities.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

type chatFixture struct {
	intents *MockIntentDetector
	content *MockContentSearcher
	model   *MockChatModel
	metrics *metrics.Metrics
	service *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		intents: &MockIntentDetector{},
		content: &MockContentSearcher{},
		model:   &MockChatModel{},
		metrics: metrics.New(),
	}
	f.service = NewChatService(f.intents, testContacts(), f.content, f.model, config.DefaultPrompts(), logger.NewNop(), f.metrics)
	return f
}

func (f *chatFixture) noIntent() {
	f.intents.On("DetectIntent", mock.Anything).Return("unknown")
	f.intents.On("IntentResponse", "unknown").Return("", false)
}

func (f *chatFixture) assertExpectations(t *testing.T) {
	f.intents.AssertExpectations(t)
	f.content.AssertExpectations(t)
	f.model.AssertExpectations(t)
}

func TestAnswer_EmptyMessageCallsNothing(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		f := newChatFixture()

		answer := f.service.Answer(context.Background(), entities.Message{Content: msg})

		assert.Equal(t, http.StatusBadRequest, answer.Status)
		assert.Equal(t, EmptyMessageAnswer, answer.Text)
		f.intents.AssertNotCalled(t, "DetectIntent", mock.Anything)
		f.content.AssertNotCalled(t, "FindShortestMatch", mock.Anything, mock.Anything)
		f.model.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
	}
}

func TestAnswer_IntentShortCircuits(t *testing.T) {
	f := newChatFixture()
	f.intents.On("DetectIntent", "hello").Return("greeting")
	f.intents.On("IntentResponse", "greeting").Return("Namaste!", true)

	answer := f.service.Answer(context.Background(), entities.Message{Content: "  hello "})

	assert.Equal(t, entities.Answer{Text: "Namaste!", Status: http.StatusOK, Source: entities.SourceIntent}, answer)
	f.content.AssertNotCalled(t, "FindShortestMatch", mock.Anything, mock.Anything)
	f.model.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAnswer_FounderContactBeforeDatabaseAndLLM(t *testing.T) {
	f := newChatFixture()
	f.noIntent()

	answer := f.service.Answer(context.Background(), entities.Message{Content: "Who is Divya?"})

	assert.Equal(t, http.StatusOK, answer.Status)
	assert.Equal(t, entities.SourceContact, answer.Source)
	assert.Contains(t, answer.Text, "divz333@gmail.com")
	assert.Contains(t, answer.Text, "9166167005")
	f.content.AssertNotCalled(t, "FindShortestMatch", mock.Anything, mock.Anything)
	f.model.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
}

func TestAnswer_DatabaseRowWithLink(t *testing.T) {
	f := newChatFixture()
	f.noIntent()
	f.content.On("FindShortestMatch", mock.Anything, "khadi bags").Return(entities.LookupResult{
		Status: entities.LookupFound,
		Row: entities.ContentRow{
			Title:   "Bags",
			URL:     "https://dhonk.example/bags",
			Content: "We make khadi bags. Our tigers are famous. Bags ship in a week.",
		},
	})

	answer := f.service.Answer(context.Background(), entities.Message{Content: "khadi bags"})

	assert.Equal(t, http.StatusOK, answer.Status)
	assert.Equal(t, entities.SourceDatabase, answer.Source)
	assert.Equal(t, "We make khadi bags. Bags ship in a week.\n\n🔗 [More Info](https://dhonk.example/bags)", answer.Text)
	f.model.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAnswer_DatabaseRowWithoutLink(t *testing.T) {
	f := newChatFixture()
	f.noIntent()
	f.content.On("FindShortestMatch", mock.Anything, "story").Return(entities.LookupResult{
		Status: entities.LookupFound,
		Row:    entities.ContentRow{Title: "About", Content: "Our story began in Ranthambore."},
	})

	answer := f.service.Answer(context.Background(), entities.Message{Content: "story"})

	assert.Equal(t, "Our story began in Ranthambore.", answer.Text)
}

func TestAnswer_DatabaseUnavailableFallsThroughToLLM(t *testing.T) {
	f := newChatFixture()
	f.noIntent()
	f.content.On("FindShortestMatch", mock.Anything, "silk").Return(entities.LookupResult{
		Status: entities.LookupUnavailable,
		Err:    errors.New("dial tcp: connection refused"),
	})
	f.model.On("ChatCompletion", mock.Anything, mock.Anything).Return("We work with cotton.", nil)

	answer := f.service.Answer(context.Background(), entities.Message{Content: "silk"})

	assert.Equal(t, entities.Answer{Text: "We work with cotton.", Status: http.StatusOK, Source: entities.SourceLLM}, answer)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ContentLookupDegraded), 0)
	f.assertExpectations(t)
}

func TestAnswer_LLMPromptLanguage(t *testing.T) {
	prompts := config.DefaultPrompts()
	tests := []struct {
		name    string
		message string
		prompt  string
	}{
		{"hindi", "आपके उत्पाद क्या हैं?", prompts.Hindi},
		{"english", "what is your vision?", prompts.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture()
			f.noIntent()
			f.content.On("FindShortestMatch", mock.Anything, tt.message).Return(entities.LookupResult{Status: entities.LookupNotFound})
			want := []entities.ChatMessage{
				{Role: entities.RoleSystem, Content: tt.prompt},
				{Role: entities.RoleUser, Content: tt.message},
			}
			f.model.On("ChatCompletion", mock.Anything, want).Return("ok", nil).Once()

			answer := f.service.Answer(context.Background(), entities.Message{Content: tt.message})

			assert.Equal(t, http.StatusOK, answer.Status)
			f.assertExpectations(t)
		})
	}
}

func TestAnswer_LLMFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		text   string
		kind   string
	}{
		{
			name:   "upstream status",
			err:    &infrastructure.UpstreamStatusError{StatusCode: http.StatusUnauthorized, Body: `{"error":"bad key"}`},
			status: http.StatusInternalServerError,
			text:   `❌ LLM Error: {"error":"bad key"}`,
			kind:   "status",
		},
		{
			name:   "timeout",
			err:    fmt.Errorf("%w: context deadline exceeded", infrastructure.ErrUpstreamTimeout),
			status: http.StatusGatewayTimeout,
			text:   TimeoutAnswer,
			kind:   "timeout",
		},
		{
			name:   "other",
			err:    errors.New("decode chat response: unexpected EOF"),
			status: http.StatusInternalServerError,
			text:   "❌ Error: decode chat response: unexpected EOF",
			kind:   "error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture()
			f.noIntent()
			f.content.On("FindShortestMatch", mock.Anything, mock.Anything).Return(entities.LookupResult{Status: entities.LookupNotFound})
			f.model.On("ChatCompletion", mock.Anything, mock.Anything).Return("", tt.err).Once()

			answer := f.service.Answer(context.Background(), entities.Message{Content: "tell me a joke"})

			assert.Equal(t, tt.status, answer.Status)
			assert.Equal(t, tt.text, answer.Text)
			assert.Equal(t, entities.SourceLLM, answer.Source)
			f.model.AssertNumberOfCalls(t, "ChatCompletion", 1)
			assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.LLMFailures.WithLabelValues(tt.kind)), 0)
		})
	}
}

type stubResolver struct {
	source entities.AnswerSource
	answer *entities.Answer
	calls  int
}

func (s *stubResolver) Source() entities.AnswerSource { return s.source }

func (s *stubResolver) Resolve(context.Context, entities.Message) (entities.Answer, bool) {
	s.calls++
	if s.answer == nil {
		return entities.Answer{}, false
	}
	return *s.answer, true
}

func TestChatService_FirstMatchWins(t *testing.T) {
	first := &stubResolver{source: "first"}
	second := &stubResolver{source: "second", answer: &entities.Answer{Text: "two", Status: http.StatusOK}}
	third := &stubResolver{source: "third", answer: &entities.Answer{Text: "three", Status: http.StatusOK}}

	svc := NewChatServiceWithResolvers(logger.NewNop(), nil, first, second, third)
	answer := svc.Answer(context.Background(), entities.Message{Content: "x"})

	assert.Equal(t, "two", answer.Text)
	assert.Equal(t, []int{1, 1, 0}, []int{first.calls, second.calls, third.calls})
}

func TestChatService_NoTerminalResolver(t *testing.T) {
	svc := NewChatServiceWithResolvers(logger.NewNop(), nil, &stubResolver{source: "empty"})

	answer := svc.Answer(context.Background(), entities.Message{Content: "x"})
	require.Equal(t, http.StatusInternalServerError, answer.Status)
}
