package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Manager signs and validates the cookie that binds a browser to its session.
type Manager struct {
	Secret       []byte
	Duration     time.Duration
	CookieName   string
	SecureCookie bool

	now func() time.Time
}

// Claims captures decoded cookie data.
type Claims struct {
	SessionID string
	ExpiresAt time.Time
}

// RandomSecret returns a fresh signing key for deployments without a configured one.
func RandomSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return secret, nil
}

// Issue builds a signed token for the given session.
func (m Manager) Issue(sessionID string) (string, time.Time, error) {
	if len(m.Secret) == 0 {
		return "", time.Time{}, errors.New("session secret missing")
	}
	expires := m.clock().Add(m.sessionDuration())
	payload := fmt.Sprintf("%s|%d", sessionID, expires.Unix())
	token := payload + "." + base64.RawURLEncoding.EncodeToString(m.sign(payload))
	return token, expires, nil
}

// Parse validates a token and returns its claims.
func (m Manager) Parse(token string) (Claims, error) {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 {
		return Claims{}, errors.New("invalid token format")
	}
	payload := token[:idx]
	sig, err := base64.RawURLEncoding.DecodeString(token[idx+1:])
	if err != nil {
		return Claims{}, fmt.Errorf("decode signature: %w", err)
	}
	if !hmac.Equal(m.sign(payload), sig) {
		return Claims{}, errors.New("signature mismatch")
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 2 || parts[0] == "" {
		return Claims{}, errors.New("invalid payload")
	}
	expUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("parse expiry: %w", err)
	}
	return Claims{SessionID: parts[0], ExpiresAt: time.Unix(expUnix, 0)}, nil
}

// NeedsRefresh reports whether a still-valid cookie has used up half its lifetime.
func (m Manager) NeedsRefresh(claims Claims) bool {
	return claims.ExpiresAt.Sub(m.clock()) < m.sessionDuration()/2
}

func (m Manager) expired(claims Claims) bool {
	return !claims.ExpiresAt.After(m.clock())
}

func (m Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m Manager) sign(payload string) []byte {
	mac := hmac.New(sha256.New, m.Secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func (m Manager) cookie(token string, expires time.Time) http.Cookie {
	return http.Cookie{
		Name:     m.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(expires.Sub(m.clock()).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.SecureCookie,
	}
}

func (m Manager) cookieName() string {
	if m.CookieName != "" {
		return m.CookieName
	}
	return "dental_session"
}

func (m Manager) sessionDuration() time.Duration {
	if m.Duration <= 0 {
		return 24 * time.Hour
	}
	return m.Duration
}
