package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"docforge/pkg/generator"
	"docforge/pkg/registry"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a flag value to a Mode, defaulting to ASCII.
func ParseMode(value string) Mode {
	if strings.EqualFold(strings.TrimSpace(value), "markdown") {
		return Markdown
	}
	return ASCII
}

// Batch renders one generation result as a table: one row per produced
// document, one row per failed template, and a totals footer.
func Batch(result generator.Result, mode Mode) string {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}

	w.AppendHeader(table.Row{"TEMPLATE", "DOCUMENT", "BYTES", "STATUS"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMax: 72},
	})

	totalBytes := 0
	for _, doc := range result.Documents {
		w.AppendRow(table.Row{doc.Template, doc.Name, FmtBytes(doc.Bytes), "ok"})
		totalBytes += doc.Bytes
	}
	for _, failure := range result.Failures {
		w.AppendRow(table.Row{failure.Template, "-", "-", "failed: " + firstLine(failure.Err)})
	}
	w.AppendFooter(table.Row{"", Summary(result), FmtBytes(totalBytes), ""})

	if mode == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// Summary returns a one-line outcome, e.g. "3 ok, 1 failed".
func Summary(result generator.Result) string {
	return fmt.Sprintf("%d ok, %d failed", len(result.Documents), len(result.Failures))
}

// Projects renders the registry listing. The active project is marked in the
// first column.
func Projects(records []registry.ProjectRecord, currentID string, mode Mode) string {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}

	w.AppendHeader(table.Row{"", "ID", "NAME", "DATASET", "CREATED"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 48},
	})

	for _, record := range records {
		marker := ""
		if record.ID == currentID {
			marker = "*"
		}
		w.AppendRow(table.Row{marker, record.ID, record.Name, record.Path, record.CreatedAt.Format("2006-01-02")})
	}

	if mode == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// FmtBytes formats a byte count with KB/MB suffix for readability.
func FmtBytes(n int) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1f MB", float64(n)/1_000_000.0)
	}
	if n >= 1000 {
		return fmt.Sprintf("%.1f KB", float64(n)/1000.0)
	}
	return fmt.Sprintf("%d B", n)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// firstLine keeps table rows single-line even when an error carries a
// multi-line diagnostic payload.
func firstLine(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	return Truncate(msg, 96)
}
