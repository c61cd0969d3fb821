package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dat2/workout-tracking-app/internal/logger"
	"github.com/dat2/workout-tracking-app/internal/session"
)

// unexported, collision-proof context key
type sessionContextKeyType struct{}

var sessionKey = sessionContextKeyType{}

// SessionFromContext extracts the authenticated session from context.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(session.Session)
	return sess, ok
}

// UserIDFromContext extracts the authenticated user id from context.
func UserIDFromContext(ctx context.Context) (int, bool) {
	sess, ok := SessionFromContext(ctx)
	return sess.UserID, ok
}

type AuthMiddleware struct {
	Manager *session.Manager
	Cookies *session.CookieCodec
}

func NewAuthMiddleware(manager *session.Manager, cookies *session.CookieCodec) *AuthMiddleware {
	return &AuthMiddleware{Manager: manager, Cookies: cookies}
}

// ResolveOptional turns the request's cookie into a session, or nil
// when the client is effectively anonymous. A missing cookie is the
// normal not-logged-in path; malformed tokens, dead sessions, and
// corrupt records all degrade to anonymous here, with the distinction
// kept in the server log. Only cache transport failures surface as
// errors, for callers that want to retry once.
func (a *AuthMiddleware) ResolveOptional(r *http.Request) (*session.Session, error) {
	token, present, err := a.Cookies.ReadToken(r)
	if !present {
		return nil, nil
	}
	if err != nil {
		logger.Warn("session cookie failed verification", map[string]any{
			"remote": r.RemoteAddr,
		})
		return nil, nil
	}

	sess, err := a.Manager.Resolve(r.Context(), token)
	switch {
	case err == nil:
		return &sess, nil
	case errors.Is(err, session.ErrBackend):
		return nil, err
	case errors.Is(err, session.ErrCorrupt):
		logger.Error("corrupt session record", map[string]any{
			"error": err.Error(),
		})
		return nil, nil
	case errors.Is(err, session.ErrInvalidToken):
		logger.Warn("unparsable session token", nil)
		return nil, nil
	default:
		// ErrNotFound: expired or never existed, ordinary churn.
		return nil, nil
	}
}

// RequireAuth gates a handler on a live session. Any resolution
// failure produces the same opaque 401 so clients cannot distinguish
// a malformed token from an expired session or a backend outage; the
// log retains the kind. Successful resolution slides the session's
// expiry window and attaches it to the request context.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.ResolveOptional(r)
		if err != nil {
			logger.Error("session backend unavailable", map[string]any{
				"error": err.Error(),
			})
			unauthorized(w)
			return
		}
		if sess == nil {
			unauthorized(w)
			return
		}

		if err := a.Manager.Renew(r.Context(), sess.ID); err != nil {
			// Renewal is best-effort; the session is still live.
			logger.Warn("session renewal failed", map[string]any{
				"error": err.Error(),
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, *sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}
