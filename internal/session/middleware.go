package session

import (
	"context"
	"log"
	"net/http"
)

type contextKey string

const stateContextKey contextKey = "session/state"

// Middleware attaches the caller's session to the request context, creating
// one (and setting its cookie) when the request carries none or an unusable one.
type Middleware struct {
	Store    Store
	Sessions Manager
}

// Attach wraps next so every request sees exactly one session.
func (m Middleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, claims := m.lookup(r)
		if state != nil && m.Sessions.NeedsRefresh(claims) {
			m.setCookie(w, state.ID())
		}
		if state == nil {
			created, err := m.Store.Create(r.Context())
			if err != nil {
				log.Printf("session create failed: %v", err)
				http.Error(w, "could not start session", http.StatusInternalServerError)
				return
			}
			if err := m.setCookie(w, created.ID()); err != nil {
				http.Error(w, "could not start session", http.StatusInternalServerError)
				return
			}
			state = created
		}
		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
	})
}

// setCookie issues a fresh token for the session, sliding its expiry forward.
func (m Middleware) setCookie(w http.ResponseWriter, sessionID string) error {
	token, exp, err := m.Sessions.Issue(sessionID)
	if err != nil {
		log.Printf("session issue failed: %v", err)
		return err
	}
	cookie := m.Sessions.cookie(token, exp)
	http.SetCookie(w, &cookie)
	return nil
}

func (m Middleware) lookup(r *http.Request) (*State, Claims) {
	cookie, err := r.Cookie(m.Sessions.cookieName())
	if err != nil || cookie.Value == "" {
		return nil, Claims{}
	}
	claims, err := m.Sessions.Parse(cookie.Value)
	if err != nil || m.Sessions.expired(claims) {
		return nil, Claims{}
	}
	state, err := m.Store.Get(r.Context(), claims.SessionID)
	if err != nil {
		return nil, Claims{}
	}
	return state, claims
}

// WithState stores the session in context.
func WithState(ctx context.Context, state *State) context.Context {
	return context.WithValue(ctx, stateContextKey, state)
}

// FromContext extracts the session from context if present.
func FromContext(ctx context.Context) (*State, bool) {
	state, ok := ctx.Value(stateContextKey).(*State)
	return state, ok && state != nil
}
