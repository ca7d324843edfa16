// Package media defines shared types for the vidresolve application.
package media

// Result is the outcome of one successful extraction.
type Result struct {
	ShareURL string `json:"share_url"` // Short link found in the share text
	PageURL  string `json:"page_url"`  // Final URL after redirects
	MediaURL string `json:"media_url"` // Direct, unwatermarked play URL
}
