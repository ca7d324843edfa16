package extract

import "regexp"

// shareURLPattern deliberately stops at the first character outside
// [a-zA-Z0-9./], so query strings and trailing punctuation are dropped.
var shareURLPattern = regexp.MustCompile(`https?://[a-zA-Z0-9./]+`)

// FindShareURL returns the first URL embedded in free-form share text.
func FindShareURL(text string) (string, error) {
	u := shareURLPattern.FindString(text)
	if u == "" {
		return "", ErrNoURLFound
	}
	return u, nil
}
