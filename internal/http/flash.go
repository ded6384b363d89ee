package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	flashCookieName = "dompetku_flash"
	flashLifetime   = 60 * time.Second
)

// Severity is the visual weight of a flash notice.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Severity Severity `json:"s"`
	Message  string   `json:"m"`
}

type flashPayload struct {
	Flash
	Expires int64 `json:"e"`
}

// FlashCodec stores flash notices in a securecookie-signed cookie. The
// cookie expires after a minute and is cleared the first time it is read.
type FlashCodec struct {
	cookies *securecookie.SecureCookie
	now     func() time.Time
}

// NewFlashCodec signs with secret, or with a random per-process key when
// secret is empty.
func NewFlashCodec(secret []byte) (*FlashCodec, error) {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("generate flash signing key")
		}
	}
	sc := securecookie.New(secret, nil).
		MaxAge(int(flashLifetime.Seconds())).
		SetSerializer(securecookie.JSONEncoder{})
	return &FlashCodec{cookies: sc, now: time.Now}, nil
}

// Set attaches f to the response.
func (c *FlashCodec) Set(w http.ResponseWriter, f Flash) {
	value, err := c.cookies.Encode(flashCookieName, flashPayload{Flash: f, Expires: c.now().Add(flashLifetime).Unix()})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flashLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears the cookie. Tampered
// or expired cookies are dropped silently.
func (c *FlashCodec) Pop(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return Flash{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	var p flashPayload
	if err := c.cookies.Decode(flashCookieName, cookie.Value, &p); err != nil {
		return Flash{}, false
	}
	if c.now().Unix() > p.Expires {
		return Flash{}, false
	}
	return p.Flash, true
}
