package session

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

const CookieName = "session"

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if !o.HttpOnly {
		o.HttpOnly = true
	}
	return o
}

// CookieCodec issues and reads the tamper-evident session cookie. The
// cookie carries the decimal session id, HMAC-signed so a client
// cannot substitute an arbitrary id.
type CookieCodec struct {
	sc *securecookie.SecureCookie
}

// NewCookieCodec builds a codec from the signing secret. The secret
// must be shared across server instances for cookies to survive
// load-balancing.
func NewCookieCodec(secret []byte) *CookieCodec {
	return &CookieCodec{
		sc: securecookie.New(secret, nil),
	}
}

// SetCookie signs the session's token and issues it to the client.
func (c *CookieCodec) SetCookie(w http.ResponseWriter, sess Session, opts CookieOptions) error {
	opts = opts.normalize()

	encoded, err := c.sc.Encode(CookieName, FormatToken(sess.ID))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
	return nil
}

// ReadToken extracts and authenticates the raw token from the request
// cookie. ok is false when the cookie is absent; a present cookie that
// fails signature verification returns an error so callers can tell
// "not logged in" apart from tampering.
func (c *CookieCodec) ReadToken(r *http.Request) (token string, ok bool, err error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false, nil
	}

	if err := c.sc.Decode(CookieName, cookie.Value, &token); err != nil {
		return "", true, ErrInvalidToken
	}

	return token, true, nil
}

// ClearCookie removes the session cookie from the client.
func (c *CookieCodec) ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
