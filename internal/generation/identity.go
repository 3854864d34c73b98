package generation

import (
	"fmt"
	"strings"
	"time"

	"github.com/deloreyj/conversa/internal/domain"
)

// AssignCardIDs returns a copy of cards with `<unixMillis>-<ordinal>` ids.
// Pure given the supplied clock: the caller checkpoints the result, so a
// replayed invocation can never rewrite ids that earlier steps already saw.
// Uniqueness holds under the single-writer-per-pack assumption.
func AssignCardIDs(cards []domain.Card, now time.Time) []domain.Card {
	out := make([]domain.Card, len(cards))
	millis := now.UnixMilli()
	for i, c := range cards {
		c.ID = fmt.Sprintf("%d-%d", millis, i)
		out[i] = c
	}
	return out
}

var slugFolder = strings.NewReplacer(
	"ã", "a", "á", "a", "à", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"õ", "o", "ó", "o", "ô", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// Slugify derives a URL-safe identifier from a pack title: lowercase, trim,
// whitespace runs become single hyphens, Portuguese diacritics fold to ASCII,
// and everything outside [a-z0-9-] is dropped. Deterministic; collisions are
// the persistence layer's problem.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.Join(strings.Fields(s), "-")
	s = slugFolder.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
