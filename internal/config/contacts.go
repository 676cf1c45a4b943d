package config

import (
	"strings"

	"dhonk_backend/internal/entities"
)

func loadContacts() entities.ContactDirectory {
	founder := entities.ContactRecord{
		Name:  getEnv("FOUNDER_NAME", "Divya Khandal"),
		Email: getEnv("FOUNDER_EMAIL", "divz333@gmail.com"),
		Phone: getEnv("FOUNDER_PHONE", "9166167005"),
		Role:  "Founder",
	}
	founder.Keywords = []string{"founder", firstName(founder.Name)}

	gm := entities.ContactRecord{
		Name:  getEnv("GM_NAME", "Mr. Maan Singh"),
		Email: getEnv("GM_EMAIL", "mansinghr4@gmail.com"),
		Phone: getEnv("GM_PHONE", "9829854896"),
		Role:  "General Manager",
	}
	gm.Keywords = []string{"general manager", nameToken(gm.Name), "gm"}

	return entities.ContactDirectory{Founder: founder, GeneralManager: gm}
}

var honorifics = []string{"mr.", "mrs.", "ms.", "dr.", "mr", "mrs", "ms", "dr"}

// nameToken lowercases a display name and drops a leading honorific,
// e.g. "Mr. Maan Singh" -> "maan singh".
func nameToken(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) > 1 {
		for _, h := range honorifics {
			if fields[0] == h {
				fields = fields[1:]
				break
			}
		}
	}
	return strings.Join(fields, " ")
}

func firstName(name string) string {
	fields := strings.Fields(nameToken(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
