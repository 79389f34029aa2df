package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/citruscounter/citruscounter/internal/model"
)

// reportTemplate is the printable HTML document for a farm report. The
// layout is deliberately self-contained: no external stylesheets, so the
// file can be opened or printed offline.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Citrus Count Report - {{.FarmerName}}</title>
<style>
body { font-family: Georgia, serif; max-width: 640px; margin: 2em auto; color: #222; }
h1 { border-bottom: 2px solid #e8891a; padding-bottom: 0.3em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.5em 0.8em; text-align: left; }
th { background: #fdf3e3; }
.estimate { font-size: 1.4em; font-weight: bold; color: #c96a00; }
footer { margin-top: 2em; font-size: 0.8em; color: #888; }
</style>
</head>
<body>
<h1>Citrus Count Report</h1>
<table>
<tr><th>Farmer</th><td>{{.FarmerName}}</td></tr>
<tr><th>Date</th><td>{{.DateString}}</td></tr>
<tr><th>Total Trees</th><td>{{.TotalTrees}}</td></tr>
<tr><th>Citrus per Tree</th><td>{{.CitrusCountPerTree}}</td></tr>
<tr><th>Citrus per Acre</th><td class="estimate">{{.CitrusCountPerAcre}}</td></tr>
</table>
{{if .History}}
<h2>Counting History</h2>
<table>
<tr><th>Date</th><th>Citrus Count</th></tr>
{{range .History}}<tr><td>{{.Date}}</td><td>{{.CitrusCount}}</td></tr>
{{end}}</table>
{{end}}
<footer>Report generated by Citrus Counter</footer>
</body>
</html>
`))

// Renderer turns a rendered HTML document into a shareable artifact and
// returns a URI pointing at it. Implementations may write a file, hand the
// document to a print service, or convert it to PDF.
type Renderer interface {
	Render(ctx context.Context, html []byte) (string, error)
}

// HTMLRenderer renders a report to a printable HTML document and passes it
// to a Renderer for delivery.
type HTMLRenderer struct {
	renderer Renderer
}

// NewHTMLRenderer creates an HTMLRenderer backed by the given Renderer.
func NewHTMLRenderer(renderer Renderer) *HTMLRenderer {
	return &HTMLRenderer{renderer: renderer}
}

// RenderHTML executes the report template and returns the raw document.
func RenderHTML(report *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.Bytes(), nil
}

// Render renders the report and delivers it, returning the artifact URI.
func (h *HTMLRenderer) Render(ctx context.Context, report *model.Report) (string, error) {
	html, err := RenderHTML(report)
	if err != nil {
		return "", err
	}
	return h.renderer.Render(ctx, html)
}

// FileRenderer is a Renderer that writes the document into a directory and
// returns a file:// URI. It stands in for platform print services on
// systems where none is available.
type FileRenderer struct {
	// Dir is the directory the document is written into.
	Dir string

	// Name is the file name without extension. Defaults to "report".
	Name string
}

// Render writes the HTML document to disk and returns its file:// URI.
func (f *FileRenderer) Render(_ context.Context, html []byte) (string, error) {
	if f.Dir == "" {
		return "", ErrNoDataDir
	}
	if err := os.MkdirAll(f.Dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := f.Name
	if name == "" {
		name = "report"
	}
	path := filepath.Join(f.Dir, name+".html")
	if err := os.WriteFile(path, html, 0600); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve report path: %w", err)
	}
	return "file://" + abs, nil
}
