package cookiestore

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingHostReturnsEmpty(t *testing.T) {
	s := New()
	got := s.Load("v.example.com")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveOverwrites(t *testing.T) {
	s := New()
	s.Save("v.example.com", []*http.Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}})
	s.Save("v.example.com", []*http.Cookie{{Name: "c", Value: "3"}})

	got := s.Load("v.example.com")
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Name)
}

func TestLoadReturnsCopy(t *testing.T) {
	s := New()
	s.Save("v.example.com", []*http.Cookie{{Name: "sid", Value: "orig"}})

	got := s.Load("v.example.com")
	got[0].Value = "mutated"

	assert.Equal(t, "orig", s.Load("v.example.com")[0].Value)
}

func TestCookieJarKeysByHostname(t *testing.T) {
	s := New()
	u, err := url.Parse("https://www.example.com:8443/video/1")
	require.NoError(t, err)

	s.SetCookies(u, []*http.Cookie{{Name: "ttwid", Value: "x"}})

	assert.Equal(t, []string{"www.example.com"}, s.Hosts())
	other, _ := url.Parse("http://www.example.com/other")
	assert.Len(t, s.Cookies(other), 1)
}

func TestConcurrentHostsDoNotLeak(t *testing.T) {
	s := New()
	const hosts = 16
	const rounds = 200

	var wg sync.WaitGroup
	for h := 0; h < hosts; h++ {
		wg.Add(1)
		go func(h int) {
			defer wg.Done()
			host := fmt.Sprintf("h%d.example.com", h)
			for i := 0; i < rounds; i++ {
				s.Save(host, []*http.Cookie{{Name: "host", Value: host}, {Name: "round", Value: fmt.Sprint(i)}})
				for _, c := range s.Load(host) {
					if c.Name == "host" && c.Value != host {
						t.Errorf("host %s read cookie for %s", host, c.Value)
						return
					}
				}
			}
		}(h)
	}
	wg.Wait()

	require.Len(t, s.Hosts(), hosts)
	for h := 0; h < hosts; h++ {
		host := fmt.Sprintf("h%d.example.com", h)
		got := s.Load(host)
		require.Len(t, got, 2)
		assert.Equal(t, host, got[0].Value)
		assert.Equal(t, fmt.Sprint(rounds-1), got[1].Value)
	}
}
