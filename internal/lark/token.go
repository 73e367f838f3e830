package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// AuthError indicates that a tenant access token could not be obtained.
// It carries either the vendor error (Code, Msg) or a wrapped transport error.
type AuthError struct {
	Code int64
	Msg  string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token refresh failed: %v", e.Err)
	}
	return fmt.Sprintf("token refresh failed: %s (code %d)", e.Msg, e.Code)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// CachedToken holds a tenant access token and its expiry instant.
// The zero value means no token is cached.
type CachedToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reports whether the token can still be used at the given instant.
func (t CachedToken) ValidAt(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// TokenStore holds exactly one CachedToken. A safety margin is subtracted
// from the advertised TTL on every write so a token is never handed out
// right before it expires mid-flight.
type TokenStore struct {
	mu           sync.RWMutex
	token        CachedToken
	safetyMargin time.Duration
}

// NewTokenStore creates an empty token store
func NewTokenStore(safetyMargin time.Duration) *TokenStore {
	return &TokenStore{safetyMargin: safetyMargin}
}

// Read returns a snapshot of the current token
func (s *TokenStore) Read() CachedToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Write stores a freshly issued token with the given time-to-live
func (s *TokenStore) Write(token string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = CachedToken{
		Value:     token,
		ExpiresAt: time.Now().Add(ttl - s.safetyMargin),
	}
}

// TokenManager guarantees that every caller receives a tenant access token
// valid for at least the duration of one outbound call. Refresh is lazy: it
// happens on the first call that observes an expired or absent token, never
// in the background.
type TokenManager struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
	store      *TokenStore

	// Serializes refresh round-trips so concurrent callers observing an
	// expired token do not each hit the token endpoint.
	refreshMu sync.Mutex
}

// NewTokenManager creates a token manager owning the given store
func NewTokenManager(appID, appSecret, baseURL string, httpClient *http.Client, store *TokenStore) *TokenManager {
	return &TokenManager{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    baseURL,
		httpClient: httpClient,
		store:      store,
	}
}

// Token returns a valid tenant access token, refreshing it if necessary.
// Returns *AuthError when the refresh fails; the cached value is left
// untouched in that case so the next call retries from scratch.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if tok := m.store.Read(); tok.ValidAt(time.Now()) {
		return tok.Value, nil
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another caller may have refreshed while we waited for the lock
	if tok := m.store.Read(); tok.ValidAt(time.Now()) {
		return tok.Value, nil
	}

	return m.refresh(ctx)
}

type tenantTokenResponse struct {
	Code              int64  `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int64  `json:"expire"`
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"app_id":     m.appID,
		"app_secret": m.appSecret,
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/auth/v3/tenant_access_token/internal", bytes.NewReader(payload))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("token request: %w", err)}
	}
	defer resp.Body.Close()

	var result tenantTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}

	if result.Code != 0 {
		return "", &AuthError{Code: result.Code, Msg: result.Msg}
	}

	m.store.Write(result.TenantAccessToken, time.Duration(result.Expire)*time.Second)
	fmt.Printf("[Lark] Tenant access token refreshed (ttl=%ds)\n", result.Expire)
	return result.TenantAccessToken, nil
}
