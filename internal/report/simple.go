package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/citruscounter/citruscounter/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// printer formats counts with locale-aware digit grouping, so a
	// per-acre estimate reads "2,400" rather than "2400".
	printer *message.Printer

	// showHistory controls whether the counting history section is shown.
	showHistory bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithHistory configures the writer to include the counting history.
func WithHistory(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showHistory = show
	}
}

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.printer = message.NewPrinter(tag)
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:  newBaseWriter(output),
		printer:     message.NewPrinter(language.English),
		showHistory: true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeEstimate(&sb, report)
	if w.showHistory {
		w.writeHistory(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with farm information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                  CITRUS COUNT REPORT\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Farmer:       %s\n", report.FarmerName))
	sb.WriteString(fmt.Sprintf("Date:         %s\n", report.DateString()))
	sb.WriteString(w.printer.Sprintf("Total Trees:  %d\n", report.TotalTrees))
	sb.WriteString("\n")
}

// writeEstimate writes the count figures.
func (w *SimpleWriter) writeEstimate(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("ESTIMATE\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	sb.WriteString(w.printer.Sprintf("  Citrus per tree:  %d\n", report.CitrusCountPerTree))
	sb.WriteString(w.printer.Sprintf("  Citrus per acre:  %d\n", report.CitrusCountPerAcre()))
	sb.WriteString("\n")
}

// writeHistory writes the counting history section.
func (w *SimpleWriter) writeHistory(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("COUNTING HISTORY\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	if len(report.History) == 0 {
		sb.WriteString("  No previous counts recorded\n")
	} else {
		for _, entry := range report.History {
			sb.WriteString(w.printer.Sprintf("  %s  %d citrus\n", entry.Date, entry.CitrusCount))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("Report generated by Citrus Counter\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
}
