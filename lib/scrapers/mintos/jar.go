package mintos

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"sync"
	"time"
)

// recordingJar wraps a standard cookie jar and keeps the full attributes of
// every cookie the server sets. The standard jar only hands back name/value
// pairs, which isn't enough to persist a session with its expiries.
type recordingJar struct {
	inner http.CookieJar

	mu     sync.Mutex
	latest map[string]*http.Cookie
}

func newRecordingJar() (*recordingJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &recordingJar{
		inner:  inner,
		latest: map[string]*http.Cookie{},
	}, nil
}

func (j *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	for _, c := range cookies {
		stored := *c
		if stored.Domain == "" {
			stored.Domain = u.Hostname()
		}
		if stored.MaxAge > 0 && stored.Expires.IsZero() {
			stored.Expires = time.Now().Add(time.Duration(stored.MaxAge) * time.Second)
		}
		if stored.MaxAge < 0 || (stored.Value == "" && stored.Expires.Before(time.Now()) && !stored.Expires.IsZero()) {
			delete(j.latest, stored.Name+";"+stored.Domain)
		} else {
			j.latest[stored.Name+";"+stored.Domain] = &stored
		}
	}
	j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
}

func (j *recordingJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// snapshot returns every live cookie with full attributes, in a stable order.
func (j *recordingJar) snapshot() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	keys := make([]string, 0, len(j.latest))
	for k := range j.latest {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*http.Cookie, len(keys))
	for i, k := range keys {
		out[i] = j.latest[k]
	}
	return out
}
