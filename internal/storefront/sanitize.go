package storefront

import (
	"html"
	"strings"
)

// maxCleanRounds bounds how many layers of entity encoding clean will peel.
const maxCleanRounds = 4

// clean strips markup from free text and returns plain text for JSON payloads. Sanitizing and
// decoding repeat until the text is stable, so markup that arrives entity-encoded is stripped
// as well instead of being decoded back into tags.
func (a *App) clean(s string) string {
	cur := s
	for range maxCleanRounds {
		next := html.UnescapeString(a.sanitizer.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(next)
		}
		cur = next
	}
	// still encoded after every round: keep the sanitized form, which holds no markup
	return strings.TrimSpace(a.sanitizer.Sanitize(cur))
}

func (a *App) cleanFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = a.clean(v)
	}
	return out
}
