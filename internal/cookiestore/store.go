// Package cookiestore keeps per-host cookies in memory for the lifetime of a
// Store. It implements http.CookieJar so a single Store can be shared by every
// HTTP client and worker in the process.
package cookiestore

import (
	"net/http"
	"net/url"
	"sort"
	"sync"
)

// Store maps a host name to the cookies last received from it.
// Entries are replaced wholesale on save and never expire.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]*http.Cookie
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string][]*http.Cookie)}
}

// Save overwrites the cookies recorded for host.
func (s *Store) Save(host string, cookies []*http.Cookie) {
	cp := cloneCookies(cookies)

	s.mu.Lock()
	s.entries[host] = cp
	s.mu.Unlock()
}

// Load returns a copy of the cookies recorded for host, or an empty slice.
func (s *Store) Load(host string) []*http.Cookie {
	s.mu.RLock()
	cookies := s.entries[host]
	s.mu.RUnlock()

	return cloneCookies(cookies)
}

// Hosts returns the hosts with a recorded entry, sorted.
func (s *Store) Hosts() []string {
	s.mu.RLock()
	hosts := make([]string, 0, len(s.entries))
	for h := range s.entries {
		hosts = append(hosts, h)
	}
	s.mu.RUnlock()

	sort.Strings(hosts)
	return hosts
}

// SetCookies implements http.CookieJar.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.Save(u.Hostname(), cookies)
}

// Cookies implements http.CookieJar.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	return s.Load(u.Hostname())
}

var _ http.CookieJar = (*Store)(nil)

// cloneCookies copies both the slice and the cookies it points to so callers
// never share state with the store.
func cloneCookies(cookies []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil {
			continue
		}
		cc := *c
		out = append(out, &cc)
	}
	return out
}
