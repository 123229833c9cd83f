package service

import "strings"

// ContentPolicy screens message text before persistence. Pluggable so
// a tenant can swap the word list for an external moderation service.
type ContentPolicy interface {
	Validate(text string) (ok bool, reason string)
}

// WordListPolicy rejects text containing any forbidden word,
// case-insensitively.
type WordListPolicy struct {
	words []string
}

// NewWordListPolicy creates a policy from a forbidden-word list
func NewWordListPolicy(words []string) *WordListPolicy {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &WordListPolicy{words: lowered}
}

// Validate scans the text against the word list
func (p *WordListPolicy) Validate(text string) (bool, string) {
	if len(p.words) == 0 {
		return true, ""
	}
	lowered := strings.ToLower(text)
	for _, w := range p.words {
		if strings.Contains(lowered, w) {
			return false, "forbidden word: " + w
		}
	}
	return true, ""
}
