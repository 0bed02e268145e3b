package timeline

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "No active cases found.\n", Render(nil, RenderOptions{}))
}

func TestRender_Layout(t *testing.T) {
	rows := []Row{
		{ProjectID: "P116-XYZ-PK1", Stage: "intake"},
		{ProjectID: "P113-ABC-PK1", Deadline: "2024-01-20", DaysLeft: intPtr(12), SurgeryDate: "2024-01-25", Region: "Reborde Infraorbitario", Complexity: "B", Stage: "design"},
	}
	out := Render(rows, RenderOptions{})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "==================== CASE TIMELINE ====================", lines[0])
	assert.Equal(t, "2   P116-XYZ-PK1                                                      intake", lines[1])
	assert.Equal(t, "1   P113-ABC-PK1    2024-01-20 12     2024-01-25 Reborde Infraor B    design", lines[2])
	assert.Equal(t, strings.Repeat("-", 110), lines[3])
	assert.Equal(t, "#   CaseID          Deadline   ΔDays  Surgery    Region          Cpx  Stage", lines[4])
}

func TestRender_TruncatesByDisplayWidth(t *testing.T) {
	rows := []Row{{ProjectID: "P113-ABC-PK1", Region: "Ángulo Mandibular", Stage: strings.Repeat("x", 40)}}
	out := Render(rows, RenderOptions{})
	line := strings.Split(out, "\n")[1]

	assert.Contains(t, line, "Ángulo Mandibul ")
	assert.True(t, strings.HasSuffix(line, strings.Repeat("x", 20)))
	assert.Equal(t, 3+1+15+1+10+1+6+1+10+1+15+1+4+1+20, xansi.StringWidth(line))
}

func TestRender_StyledKeepsText(t *testing.T) {
	rows := []Row{{ProjectID: "P116-XYZ-PK1"}, {ProjectID: "P113-ABC-PK1", DaysLeft: intPtr(1)}}
	plain := Render(rows, RenderOptions{})
	styled := Render(rows, RenderOptions{Styled: true})
	assert.Equal(t, plain, xansi.Strip(styled))
}
