// Package session holds short-lived per-browser values across the OAuth
// round trip, most importantly the CSRF state. The explicit Store contract
// keeps the callback's correlation logic testable without a cookie jar.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
)

// TTLSeconds bounds how long a stored value survives, sized to one OAuth
// round trip.
const TTLSeconds = 600

// Store is the key-value contract the login/callback handlers depend on.
// Values are scoped to a single browser session.
type Store interface {
	Set(w http.ResponseWriter, name, value string)
	Get(r *http.Request, name string) (string, bool)
	Clear(w http.ResponseWriter, name string)
}

// CookieStore keeps values client-side in HMAC-signed, HttpOnly cookies.
// Tampered or unsigned cookies read back as absent.
type CookieStore struct {
	secret []byte
	secure bool
}

// NewCookieStore signs cookies with the given secret. secure should be true
// whenever the gateway is served over TLS.
func NewCookieStore(secret []byte, secure bool) *CookieStore {
	return &CookieStore{secret: secret, secure: secure}
}

func (s *CookieStore) sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Set writes a signed session cookie.
func (s *CookieStore) Set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value + "." + s.sign(value),
		MaxAge:   TTLSeconds,
		Path:     "/",
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get returns the stored value when the cookie exists and its signature
// verifies; anything else reads as absent.
func (s *CookieStore) Get(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	idx := strings.LastIndex(cookie.Value, ".")
	if idx < 0 {
		return "", false
	}
	value, sig := cookie.Value[:idx], cookie.Value[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.sign(value))) {
		return "", false
	}
	return value, true
}

// Clear expires the cookie.
func (s *CookieStore) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// MemoryStore is a process-local Store for tests. It ignores the request and
// response and keeps a single session's values.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Set(_ http.ResponseWriter, name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

func (m *MemoryStore) Get(_ *http.Request, name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	return v, ok
}

func (m *MemoryStore) Clear(_ http.ResponseWriter, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
}
