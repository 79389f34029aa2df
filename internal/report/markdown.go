package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/citruscounter/citruscounter/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeEstimate(md, report)
	w.writeHistory(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with farm information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Citrus Count Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Farmer", report.FarmerName},
			{"Date", report.DateString()},
			{"Total Trees", strconv.Itoa(report.TotalTrees)},
		},
	})
	md.PlainText("")
}

// writeEstimate writes the count figures.
func (w *MarkdownWriter) writeEstimate(md *markdown.Markdown, report *model.Report) {
	md.H2("Estimate")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Measure", "Count"},
		Rows: [][]string{
			{"Citrus per tree", strconv.Itoa(report.CitrusCountPerTree)},
			{"Citrus per acre", "**" + strconv.Itoa(report.CitrusCountPerAcre()) + "**"},
		},
	})
	md.PlainText("")

	if report.CitrusCountPerTree == 0 {
		md.Note("The latest count is zero. Check that the submitted images show fruit-bearing trees.")
		md.PlainText("")
	}
}

// writeHistory writes the counting history section.
func (w *MarkdownWriter) writeHistory(md *markdown.Markdown, report *model.Report) {
	md.H2("Counting History")
	md.PlainText("")

	if len(report.History) == 0 {
		md.PlainText("No previous counts recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.History))
	for i, entry := range report.History {
		rows[i] = []string{entry.Date, strconv.Itoa(entry.CitrusCount)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Date", "Citrus Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by Citrus Counter*")
}
