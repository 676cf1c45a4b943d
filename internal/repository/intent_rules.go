package repository

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// IntentUnknown is returned when no rule matches.
const IntentUnknown = "unknown"

//go:embed intents.yaml
var defaultIntentRules []byte

type IntentRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
	MaxWords int      `yaml:"max_words"`
}

type intentFile struct {
	Intents []IntentRule `yaml:"intents"`
}

// IntentRules is a keyword classifier with one canned answer per intent.
// It is read-only after construction.
type IntentRules struct {
	rules     []IntentRule
	responses map[string]string
}

// LoadIntentRules reads rules from path, or the built-in rules when path is
// empty.
func LoadIntentRules(path string) (*IntentRules, error) {
	if path == "" {
		return ParseIntentRules(defaultIntentRules)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent rules %s: %w", path, err)
	}
	return ParseIntentRules(data)
}

func ParseIntentRules(data []byte) (*IntentRules, error) {
	var file intentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse intent rules: %w", err)
	}

	r := &IntentRules{responses: make(map[string]string, len(file.Intents))}
	for i, rule := range file.Intents {
		if rule.Name == "" || rule.Name == IntentUnknown {
			return nil, fmt.Errorf("intent %d: invalid name %q", i, rule.Name)
		}
		if _, dup := r.responses[rule.Name]; dup {
			return nil, fmt.Errorf("intent %q defined twice", rule.Name)
		}
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("intent %q has no keywords", rule.Name)
		}

		normalized := make([]string, 0, len(rule.Keywords))
		for _, k := range rule.Keywords {
			if n := normalize(k); n != "" {
				normalized = append(normalized, n)
			}
		}
		rule.Keywords = normalized
		r.rules = append(r.rules, rule)
		r.responses[rule.Name] = rule.Response
	}
	return r, nil
}

// DetectIntent returns the name of the first matching rule, or IntentUnknown.
func (r *IntentRules) DetectIntent(text string) string {
	words := tokenize(text)
	if len(words) == 0 {
		return IntentUnknown
	}
	padded := " " + strings.Join(words, " ") + " "

	for _, rule := range r.rules {
		if rule.MaxWords > 0 && len(words) > rule.MaxWords {
			continue
		}
		for _, k := range rule.Keywords {
			if strings.Contains(padded, " "+k+" ") {
				return rule.Name
			}
		}
	}
	return IntentUnknown
}

// IntentResponse returns the canned answer for an intent label.
func (r *IntentRules) IntentResponse(label string) (string, bool) {
	resp, ok := r.responses[label]
	if !ok || resp == "" {
		return "", false
	}
	return resp, true
}

// tokenize lowercases text and splits it on anything that is not a letter,
// digit or combining mark (Devanagari vowel signs are marks).
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}

func normalize(phrase string) string {
	return strings.Join(tokenize(phrase), " ")
}
