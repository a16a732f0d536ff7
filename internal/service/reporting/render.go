package reporting

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

//go:embed templates/report.html
var templateFS embed.FS

// Renderer turns a structured report into a standalone HTML document.
type Renderer struct {
	tmpl   *template.Template
	format formatter
	lang   string
}

// NewRenderer parses the embedded report template for locale.
func NewRenderer(locale string) (*Renderer, error) {
	f := newFormatter(locale)
	tmpl, err := template.New("report.html").Funcs(template.FuncMap{
		"number": f.number,
		"date":   f.date,
		"clock":  func(t time.Time) string { return t.Format("15:04") },
	}).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	lang := "fr"
	if f.dates != dayLayout {
		lang = locale
	}
	return &Renderer{tmpl: tmpl, format: f, lang: lang}, nil
}

// Render executes the template. Every dynamic value is escaped by html/template.
func (r *Renderer) Render(report models.Report, generatedAt time.Time) (string, error) {
	data := struct {
		Lang        string
		Report      models.Report
		LastDay     time.Time
		GeneratedAt time.Time
	}{
		Lang:        r.lang,
		Report:      report,
		LastDay:     report.PeriodEnd.AddDate(0, 0, -1),
		GeneratedAt: generatedAt,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report %q: %w", report.Title, err)
	}
	return buf.String(), nil
}
