// Package i18n holds the two-valued UI language preference and its message catalog.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CookieName is the key the preference is persisted under.
const CookieName = "language"

const cookieMaxAge = 365 * 24 * time.Hour

type Language string

const (
	En Language = "en"
	Zh Language = "zh"
)

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

// Parse accepts "en" or "zh" (any case, surrounding space ignored).
func Parse(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case En:
		return En, true
	case Zh:
		return Zh, true
	}
	return "", false
}

// Toggle flips en <-> zh. Anything unrecognized is treated as en.
func Toggle(l Language) Language {
	if l == Zh {
		return En
	}
	return Zh
}

// Label is the switcher caption for l.
func (l Language) Label() string {
	if l == Zh {
		return "🇨🇳 中文"
	}
	return "🇺🇸 EN"
}

func (l Language) Tag() language.Tag {
	if l == Zh {
		return language.Chinese
	}
	return language.English
}

func (l Language) String() string { return string(l) }

// FromRequest resolves the preference: cookie, then Accept-Language, then en.
func FromRequest(r *http.Request) Language {
	if r == nil {
		return En
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if l, ok := Parse(c.Value); ok {
			return l
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No && supported[idx] == language.Chinese {
				return Zh
			}
		}
	}
	return En
}

// Persist stores l on the response as a long-lived cookie.
func Persist(w http.ResponseWriter, l Language) {
	if w == nil {
		return
	}
	if _, ok := Parse(string(l)); !ok {
		l = En
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(l),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Printer returns a message printer bound to the catalog for l.
func Printer(l Language) *message.Printer {
	return message.NewPrinter(l.Tag())
}
