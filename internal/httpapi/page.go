package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var testPage = template.Must(template.ParseFS(templateFS, "templates/test.html"))

var displayNames = map[domain.Backend]string{
	domain.BackendPostgres: "PostgreSQL",
	domain.BackendRedis:    "Redis",
}

type pageSection struct {
	Name   string
	OK     bool
	Status string
	JSON   string
}

type pageData struct {
	Lang        string
	Title       string
	Label       string
	SwitchTitle string
	Sections    []pageSection
	Generated   string
}

// indentJSON renders v the way the page shows it: two-space indent.
func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func (s *Server) handleTestPage(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r)
	p := i18n.Printer(lang)

	data := pageData{
		Lang:        lang.String(),
		Title:       p.Sprintf(i18n.MsgPageTitle),
		Label:       lang.Label(),
		SwitchTitle: p.Sprintf(i18n.MsgSwitch),
	}
	for _, nr := range s.Probes.Run(r.Context()) {
		status := p.Sprintf(i18n.MsgProbeHealthy)
		if !nr.Result.Success {
			s.logFailure(r, nr.Backend, nr.Result)
			status = p.Sprintf(i18n.MsgProbeFailed)
		}
		name, ok := displayNames[nr.Backend]
		if !ok {
			name = string(nr.Backend)
		}
		data.Sections = append(data.Sections, pageSection{
			Name:   name,
			OK:     nr.Result.Success,
			Status: status,
			JSON:   indentJSON(nr.Result),
		})
	}
	data.Generated = p.Sprintf(i18n.MsgGeneratedAt, time.Now().UTC().Format(time.RFC3339))

	var buf bytes.Buffer
	if err := testPage.Execute(&buf, data); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
