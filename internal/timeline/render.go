package timeline

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	titleRule    = "==================== CASE TIMELINE ===================="
	separatorLen = 110
	emptyNotice  = "No active cases found."
)

type column struct {
	title string
	width int
}

var columns = []column{
	{"#", 3},
	{"CaseID", 15},
	{"Deadline", 10},
	{"ΔDays", 6},
	{"Surgery", 10},
	{"Region", 15},
	{"Cpx", 4},
	{"Stage", 20},
}

type RenderOptions struct {
	// Styled enables lipgloss styling. The plain-text layout is identical either way.
	Styled bool
}

// Render formats rows (already sorted) as the timeline table: data rows first, highest
// index on top, then a separator and the column header.
func Render(rows []Row, opt RenderOptions) string {
	if len(rows) == 0 {
		return emptyNotice + "\n"
	}

	header := lipgloss.NewStyle().Bold(true)
	backlog := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleRule)
	b.WriteByte('\n')

	total := len(rows)
	for i, r := range rows {
		line := formatLine([]string{
			strconv.Itoa(DisplayIndex(i, total)),
			r.ProjectID,
			r.Deadline,
			r.DaysLeftString(),
			r.SurgeryDate,
			r.Region,
			r.Complexity,
			r.Stage,
		})
		if opt.Styled && !r.HasDeadline() {
			line = backlog.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat("-", separatorLen))
	b.WriteByte('\n')

	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.title
	}
	line := formatLine(titles)
	if opt.Styled {
		line = header.Render(line)
	}
	b.WriteString(line)
	b.WriteByte('\n')
	return b.String()
}

func formatLine(cells []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		parts[i] = fit(v, c.width)
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}

// fit truncates s to width display cells and pads it with spaces.
func fit(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = xansi.Truncate(s, width, "")
	if pad := width - xansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
