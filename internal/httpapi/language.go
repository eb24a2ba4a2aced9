package httpapi

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/hamed0406/connprobe/internal/i18n"
)

type languageBody struct {
	Language i18n.Language `json:"language"`
	Label    string        `json:"label"`
}

func bodyFor(l i18n.Language) languageBody {
	return languageBody{Language: l, Label: l.Label()}
}

func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bodyFor(i18n.FromRequest(r)))
}

// handleToggleLanguage flips and persists the preference. Browsers are sent
// back where they came from so the page reloads in the new language.
func (s *Server) handleToggleLanguage(w http.ResponseWriter, r *http.Request) {
	next := i18n.Toggle(i18n.FromRequest(r))
	i18n.Persist(w, next)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, bodyFor(next))
		return
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

// returnPath is the Referer's path when it points back at this host, else "/".
func returnPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "/"
	}
	if u.Host != "" && !strings.EqualFold(u.Host, r.Host) {
		return "/"
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.Contains(u.Path, `\`) {
		return "/"
	}
	out := &url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return out.String()
}
