// Package render turns a computed report into a standalone printable page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/lshigami/Kindred/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var printTemplate = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{
			"date": func(t time.Time) string { return t.Format("January 2, 2006") },
		}).
		ParseFS(templateFS, "templates/report.html"),
)

type Document struct {
	Title        string
	Partner1Name string
	Partner2Name string
	Report       report.Report
	Summary      report.Summary
	GeneratedAt  time.Time
}

func Print(w io.Writer, doc Document) error {
	if doc.Title == "" {
		doc.Title = fmt.Sprintf("%s & %s: Relationship Report", doc.Partner1Name, doc.Partner2Name)
	}
	if err := printTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
