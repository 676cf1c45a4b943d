package usecases

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"dhonk_backend/internal/entities"
)

const (
	founderEmoji = "👩‍💼"
	managerEmoji = "👨‍💼"
)

// ContactResolver answers direct questions about the founder, the general
// manager, or how to get in touch.
type ContactResolver struct {
	contacts entities.ContactDirectory
}

func NewContactResolver(contacts entities.ContactDirectory) *ContactResolver {
	return &ContactResolver{contacts: contacts}
}

func (c *ContactResolver) Source() entities.AnswerSource {
	return entities.SourceContact
}

func (c *ContactResolver) Resolve(_ context.Context, msg entities.Message) (entities.Answer, bool) {
	text, ok := c.Match(msg.Content)
	if !ok {
		return entities.Answer{}, false
	}
	return entities.Answer{Text: text, Status: http.StatusOK, Source: entities.SourceContact}, true
}

// Match returns the contact card for message, checking founder, then general
// manager, then a generic "contact" request.
func (c *ContactResolver) Match(message string) (string, bool) {
	lower := strings.ToLower(message)

	founder, gm := c.contacts.Founder, c.contacts.GeneralManager
	switch {
	case containsAny(lower, founder.Keywords):
		return contactCard(founderEmoji, founder), true
	case containsAny(lower, gm.Keywords):
		return contactCard(managerEmoji, gm), true
	case strings.Contains(lower, "contact"):
		return fmt.Sprintf("📞 *Founder*: %s | *GM*: %s\n📧 *Emails*: %s, %s",
			founder.Phone, gm.Phone, founder.Email, gm.Email), true
	}
	return "", false
}

func contactCard(emoji string, c entities.ContactRecord) string {
	return fmt.Sprintf("%s *%s*: %s\n📧 Email: %s\n📞 Phone: %s", emoji, c.Role, c.Name, c.Email, c.Phone)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}
