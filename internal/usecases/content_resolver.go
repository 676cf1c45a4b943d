package usecases

import (
	"context"
	"net/http"

	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/interfaces"
	"dhonk_backend/internal/logger"
	"dhonk_backend/internal/metrics"
)

// ContentResolver answers from the brand content table. A failed lookup is
// logged and counted, then treated as no match so the chain moves on.
type ContentResolver struct {
	searcher interfaces.ContentSearcher
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewContentResolver(searcher interfaces.ContentSearcher, log logger.Logger, m *metrics.Metrics) *ContentResolver {
	return &ContentResolver{searcher: searcher, log: log, metrics: m}
}

func (c *ContentResolver) Source() entities.AnswerSource {
	return entities.SourceDatabase
}

func (c *ContentResolver) Resolve(ctx context.Context, msg entities.Message) (entities.Answer, bool) {
	result := c.searcher.FindShortestMatch(ctx, msg.Content)

	switch result.Status {
	case entities.LookupFound:
		return entities.Answer{
			Text:   FormatContentAnswer(result.Row, msg.Content),
			Status: http.StatusOK,
			Source: entities.SourceDatabase,
		}, true
	case entities.LookupUnavailable:
		c.metrics.ObserveLookupDegraded()
		c.log.Warn("Content lookup unavailable, falling back",
			logger.String("request_id", msg.RequestID),
			logger.Error(result.Err),
		)
	}
	return entities.Answer{}, false
}

// FormatContentAnswer condenses a page to the sentences relevant to query and
// appends its link when it has one.
func FormatContentAnswer(row entities.ContentRow, query string) string {
	answer := SmartFilter(row.Content, query, DefaultMaxSentences)
	if row.URL != "" {
		answer += "\n\n🔗 [More Info](" + row.URL + ")"
	}
	return answer
}
