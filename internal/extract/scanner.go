package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultMarker identifies the script that bootstraps client-side rendering.
	DefaultMarker = "window._ROUTER_DATA"

	// DefaultPrefix is the assignment stripped from that script's text.
	DefaultPrefix = "window._ROUTER_DATA = "
)

// Scanner locates the embedded JSON data block in a rendered page.
// There is no fallback when the marker disappears: a changed page is a hard
// failure until Marker and Prefix are updated.
type Scanner struct {
	Marker string
	Prefix string
}

// NewScanner returns a Scanner, defaulting empty arguments.
func NewScanner(marker, prefix string) Scanner {
	if marker == "" {
		marker = DefaultMarker
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Scanner{Marker: marker, Prefix: prefix}
}

// FindDataBlock returns the JSON text assigned in the first script element
// containing the marker.
func (s Scanner) FindDataBlock(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: parsing HTML: %v", ErrDataBlockNotFound, err)
	}

	var (
		content string
		found   bool
	)

	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, s.Marker) {
			return true
		}
		content, found = text, true
		return false
	})

	if !found {
		return "", ErrDataBlockNotFound
	}

	raw := strings.Replace(content, s.Prefix, "", 1)
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, ";")

	return strings.TrimSpace(raw), nil
}
