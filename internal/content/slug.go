package content

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slugify converts text into a lowercase ASCII slug. Non alphanumeric runs collapse into a single hyphen.
func Slugify(s string) string {
	ascii := strings.ToLower(unidecode.Unidecode(s))

	var b strings.Builder
	b.Grow(len(ascii))
	pendingHyphen := false
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
