package handlers

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.blogger/internal/boot"
	"uk.co.dudmesh.blogger/internal/model"
)

const (
	SessionName         = "blogger-session"
	sessionKeyLoggedIn  = "loggedIn"
	sessionKeyAccountID = "accountId"
)

// NewCookieStore derives separate signing and encryption keys from the
// configured session key.
func NewCookieStore(config *boot.Config) *sessions.CookieStore {
	authKey := sha256.Sum256([]byte(config.Session.Key + "auth"))
	encKey := sha256.Sum256([]byte(config.Session.Key + "encryption"))

	store := sessions.NewCookieStore(authKey[:], encKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(config.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	// also bounds the age of cookies the codecs will accept
	store.MaxAge(int(config.Session.MaxAge.Seconds()))
	return store
}

// loadSession reads the visitor's session from the cookie. A missing or
// undecodable cookie is an anonymous visitor.
func loadSession(c echo.Context) model.Session {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return model.Session{}
	}

	loggedIn, _ := sess.Values[sessionKeyLoggedIn].(bool)
	s := model.Session{LoggedIn: loggedIn}
	if id, ok := sess.Values[sessionKeyAccountID].(int64); ok {
		accountID := model.AccountID(id)
		s.AccountID = &accountID
	}
	return s
}

// saveSession writes s back to the visitor's cookie. An anonymous session
// expires the cookie.
func saveSession(c echo.Context, s model.Session) error {
	sess, err := session.Get(SessionName, c)
	if sess == nil {
		return fmt.Errorf("getting session: %w", err)
	}

	if id, ok := s.CurrentAccount(); ok {
		sess.Values[sessionKeyLoggedIn] = true
		sess.Values[sessionKeyAccountID] = int64(id)
	} else {
		delete(sess.Values, sessionKeyLoggedIn)
		delete(sess.Values, sessionKeyAccountID)
		sess.Options.MaxAge = -1
	}

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
