// Package httputil provides a security-hardened HTTP client and input sanitization utilities.
package httputil

import (
	"crypto/tls"
	"net/http"
	"time"
)

// MobileUserAgent is the iPhone Safari user agent the share-link host needs
// to serve the mobile page variant carrying the router data block.
const MobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.0.3 Mobile/15E148 Safari/604.1"

// DefaultTimeout bounds a whole request, redirects included.
const DefaultTimeout = 30 * time.Second

// maxRedirects matches the net/http default policy.
const maxRedirects = 10

// NewClient creates a hardened HTTP client with secure defaults.
// jar may be nil. A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration, jar http.CookieJar) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			// App deep links and other non-web targets end the chain on the 3xx.
			if err := ValidateURL(req.URL.String()); err != nil {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// BrowserHeaders returns the standard headers sent with page requests.
func BrowserHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = MobileUserAgent
	}
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.5",
	}
}
