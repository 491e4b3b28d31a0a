package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/session"
)

type contextKey string

const (
	sessionKey    contextKey = "session"
	sessionNewKey contextKey = "session_new"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Sessions attaches a server-side session to every request, issuing a new
// cookie when the caller has none or presents a malformed id. A new session
// is not stored until something is written to it.
func Sessions(store *session.Store, opts SessionOptions) func(http.Handler) http.Handler {
	if opts.CookieName == "" {
		opts.CookieName = "legal_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(opts.CookieName); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					id = c.Value
				}
			}
			if id != "" {
				ctx := context.WithValue(r.Context(), sessionKey, store.Open(id))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			ctx := context.WithValue(r.Context(), sessionKey, store.Handle(id))
			ctx = context.WithValue(ctx, sessionNewKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom extracts the session from context, or nil outside Sessions.
func SessionFrom(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return nil
}

// SessionIsNew reports whether the session was issued by this request, i.e.
// the caller presented no usable cookie.
func SessionIsNew(ctx context.Context) bool {
	v, _ := ctx.Value(sessionNewKey).(bool)
	return v
}
