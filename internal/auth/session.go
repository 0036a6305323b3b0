// Package auth holds the admin session: the backend token obtained at login
// and the single answer to "is this request authenticated".
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	cookieName  = "vrcadmin-auth"
	keyToken    = "token"
	keyUsername = "username"
	keyExpires  = "exp"
)

// Session is the authenticated admin.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// NewSession builds a session for a freshly issued token. If the token is a
// JWT carrying an exp claim, the session expires with it. The signature is
// not checked here; the backend checks it on the calls that carry it.
func NewSession(token, username string) *Session {
	s := &Session{Token: token, Username: username}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// IsAuthenticated reports whether the session holds a live token.
func (s *Session) IsAuthenticated(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Load reads the session from the request cookie. A missing or unreadable
// cookie yields nil.
func Load(c echo.Context) *Session {
	sess, err := session.Get(cookieName, c)
	if err != nil {
		return nil
	}
	token, _ := sess.Values[keyToken].(string)
	if token == "" {
		return nil
	}
	s := &Session{Token: token}
	s.Username, _ = sess.Values[keyUsername].(string)
	if exp, ok := sess.Values[keyExpires].(int64); ok && exp > 0 {
		s.ExpiresAt = time.Unix(exp, 0)
	}
	return s
}

// Save writes the session cookie.
func Save(c echo.Context, s *Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	sess, err := session.Get(cookieName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		sess.Options.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	sess.Values[keyToken] = s.Token
	sess.Values[keyUsername] = s.Username
	var exp int64
	if !s.ExpiresAt.IsZero() {
		exp = s.ExpiresAt.Unix()
	}
	sess.Values[keyExpires] = exp
	return sess.Save(c.Request(), c.Response())
}

// Clear removes the session cookie.
func Clear(c echo.Context) error {
	sess, err := session.Get(cookieName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{Path: "/", MaxAge: -1}
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(c.Request(), c.Response())
}

type contextKey struct{}

// NewContext returns ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by the auth middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
