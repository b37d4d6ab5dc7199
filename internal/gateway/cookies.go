package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/NitinReddy01/codejudge-cli/internal/storage"
)

type savedCookie struct {
	URL     string    `json:"url"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires,omitempty"`
}

// PersistentJar wraps the in-memory cookie jar and mirrors every
// Set-Cookie into durable storage. A browser keeps the httpOnly
// refresh cookie across restarts for free; a standalone process has
// to do it itself, or the silent refresh on startup never has a
// cookie to send.
type PersistentJar struct {
	jar   http.CookieJar
	store storage.Storage

	mu    sync.Mutex
	saved map[string]savedCookie
}

func NewPersistentJar(st storage.Storage) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	p := &PersistentJar{
		jar:   jar,
		store: st,
		saved: make(map[string]savedCookie),
	}
	p.restore()

	return p, nil
}

func (p *PersistentJar) restore() {
	raw, ok := p.store.Get(storage.KeyCookies)
	if !ok || raw == "" {
		return
	}

	var cookies []savedCookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		return
	}

	for _, c := range cookies {
		u, err := url.Parse(c.URL)
		if err != nil {
			continue
		}
		if !c.Expires.IsZero() && time.Now().After(c.Expires) {
			continue
		}
		p.jar.SetCookies(u, []*http.Cookie{{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		}})
		p.saved[cookieKey(u.Host, c.Path, c.Name)] = c
	}
}

func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return p.jar.Cookies(u)
}

func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.jar.SetCookies(u, cookies)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = u.Path
		}
		// keyed by host+path+name, not the request URL, so a cookie
		// rotated by a different endpoint overwrites its predecessor
		key := cookieKey(u.Host, path, c.Name)

		// MaxAge < 0 is how the backend clears the cookie on logout
		if c.MaxAge < 0 || (!c.Expires.IsZero() && time.Now().After(c.Expires)) {
			delete(p.saved, key)
			continue
		}

		expires := c.Expires
		if c.MaxAge > 0 {
			expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		p.saved[key] = savedCookie{
			URL:     u.Scheme + "://" + u.Host + path,
			Name:    c.Name,
			Value:   c.Value,
			Path:    path,
			Expires: expires,
		}
	}

	p.flushLocked()
}

func (p *PersistentJar) flushLocked() {
	cookies := make([]savedCookie, 0, len(p.saved))
	for _, c := range p.saved {
		cookies = append(cookies, c)
	}

	data, err := json.Marshal(cookies)
	if err != nil {
		return
	}
	_ = p.store.Set(storage.KeyCookies, string(data))
}

func cookieKey(host string, path string, name string) string {
	return host + "\x00" + path + "\x00" + name
}
