package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"worktimer/internal/core/timer"
	"worktimer/internal/ledger"
)

type styles struct {
	title  lipgloss.Style
	span   lipgloss.Style
	header lipgloss.Style
	plain  lipgloss.Style
	id     lipgloss.Style
	count  lipgloss.Style
	time   lipgloss.Style
	hours  lipgloss.Style
	total  lipgloss.Style
	empty  lipgloss.Style
}

func newStyles(renderer *lipgloss.Renderer) styles {
	return styles{
		title:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		span:   renderer.NewStyle().Foreground(lipgloss.Color("241")),
		header: renderer.NewStyle().Bold(true).Underline(true),
		plain:  renderer.NewStyle(),
		id:     renderer.NewStyle().Width(12),
		count:  renderer.NewStyle().Width(9).Align(lipgloss.Right),
		time:   renderer.NewStyle().Width(14).Align(lipgloss.Right),
		hours:  renderer.NewStyle().Width(8).Align(lipgloss.Right),
		total:  renderer.NewStyle().Bold(true),
		empty:  renderer.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

// RenderText formats a ledger report as a table. Dates are shown in
// location. A nil renderer writes for the process's standard output.
func RenderText(rep ledger.Report, location *time.Location, renderer *lipgloss.Renderer) string {
	if location == nil {
		location = time.Local
	}
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	st := newStyles(renderer)

	var builder strings.Builder
	builder.WriteString(st.title.Render("Time report: " + string(rep.Period)))
	builder.WriteString("\n")
	builder.WriteString(st.span.Render(formatRange(rep, location)))
	builder.WriteString("\n\n")

	buckets := rep.Sorted()
	if len(buckets) == 0 {
		builder.WriteString(st.empty.Render("No time entries in this period."))
		builder.WriteString("\n")
		return builder.String()
	}

	builder.WriteString(st.row(st.header, "Work item", "Entries", "Time", "Hours"))
	for _, bucket := range buckets {
		builder.WriteString(st.row(st.plain,
			fmt.Sprintf("#%d", bucket.WorkItemID),
			fmt.Sprintf("%d", len(bucket.Entries)),
			timer.FormatElapsed(bucket.TotalSeconds),
			HoursDecimal(bucket.TotalSeconds),
		))
	}
	builder.WriteString("\n")
	builder.WriteString(st.total.Render(fmt.Sprintf("Total: %s (%s h)",
		timer.FormatElapsed(rep.TotalSeconds()), HoursDecimal(rep.TotalSeconds()))))
	builder.WriteString("\n")
	return builder.String()
}

// HoursDecimal renders seconds as hours with two decimals.
func HoursDecimal(seconds int64) string {
	return fmt.Sprintf("%.2f", float64(seconds)/3600)
}

func (st styles) row(style lipgloss.Style, id, count, elapsed, hours string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Inherit(st.id).Render(id),
		style.Inherit(st.count).Render(count),
		style.Inherit(st.time).Render(elapsed),
		style.Inherit(st.hours).Render(hours),
	) + "\n"
}

func formatRange(rep ledger.Report, location *time.Location) string {
	to := time.UnixMilli(rep.To).In(location).Format("2006-01-02 15:04")
	if rep.From <= 0 {
		return "through " + to
	}
	from := time.UnixMilli(rep.From).In(location).Format("2006-01-02 15:04")
	return from + " - " + to
}
