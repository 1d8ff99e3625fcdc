package token

import (
	"strings"
	"time"

	json "github.com/json-iterator/go"

	"github.com/followme/attendance-cli/pkg/store"
)

const storeKey = "auth_token"

// Token is the cached bearer token and its derived capability flags.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId,omitempty"`
	Role        string    `json:"role,omitempty"`
	CanEditTags bool      `json:"canEditTags"`
}

// ExpiredAt reports whether the token is expired at the given instant.
// The boundary is inclusive: a token expiring exactly now is expired.
func (t *Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsExpired reports whether the token is expired right now.
func (t *Token) IsExpired() bool {
	return t.ExpiredAt(time.Now())
}

// IsAdmin reports whether the token carries the admin role.
func (t *Token) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(t.Role), "admin")
}

// EffectiveCanEditTags reports the tag-edit capability. Admins always have it.
func (t *Token) EffectiveCanEditTags() bool {
	return t.IsAdmin() || t.CanEditTags
}

// IsValid reports whether the token can be presented to the server.
func (t *Token) IsValid() bool {
	return t.AccessToken != "" && !t.IsExpired()
}

// Cache persists the current token in the secure store.
type Cache struct {
	store *store.Store
}

// NewCache creates a token cache backed by the given store.
func NewCache(s *store.Store) *Cache {
	return &Cache{store: s}
}

// Load loads the cached token. Returns nil when no token is stored.
func (c *Cache) Load() (*Token, error) {
	data, err := c.store.Get(storeKey)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var t Token
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		// An unreadable token is no token; the caller re-authenticates
		return nil, nil
	}
	return &t, nil
}

// Save replaces the cached token.
func (c *Cache) Save(t *Token) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.store.Put(storeKey, string(data))
}

// Clear deletes the cached token.
func (c *Cache) Clear() error {
	return c.store.Delete(storeKey)
}
