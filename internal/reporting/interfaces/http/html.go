package http

import (
	"bytes"
	"embed"
	"html/template"

	reportapp "well-analysis/internal/reporting/application"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"num":  formatPtr,
	"dash": dash,
}).ParseFS(templateFS, "templates/report.html"))

// BuildReportHTML renders the report as an escaped HTML page.
func BuildReportHTML(report *reportapp.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
