package report

import (
	"fmt"
	"strconv"
	"strings"

	"datsys/internal/model"

	"github.com/charmbracelet/glamour"
)

// CaseCard renders a case as Markdown for `case show`.
func CaseCard(c model.PeekCase, client model.Client, daysLeft *int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.IDCaso)
	if c.EstadoCaso != "" {
		fmt.Fprintf(&b, "**Stage:** %s\n\n", c.EstadoCaso)
	}

	due := c.FechaEntregaEstimada
	if daysLeft != nil {
		due = fmt.Sprintf("%s (%d business days left)", due, *daysLeft)
	}
	doctor := c.NombreDoctor
	if client.Contact != "" {
		doctor = fmt.Sprintf("%s (%s)", doctor, client.Contact)
	}

	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, kv := range [][2]string{
		{"Patient", NormalizeDicomName(c.NombrePaciente)},
		{"Doctor", doctor},
		{"Hospital", c.HospitalClinica},
		{"Region", c.RegionAnatomica},
		{"Complexity", c.Complejidad},
		{"Surgery", strings.TrimSpace(c.FechaCirugia + " " + c.HoraCirugia)},
		{"Delivery", due},
		{"Base price", money(c.PrecioBase)},
		{"Final price", finalPrice(c)},
		{"Created", c.CreadoEn},
		{"Updated", c.ActualizadoEn},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", kv[0], cell(kv[1]))
	}

	if r := strings.TrimSpace(c.Requerimiento); r != "" {
		fmt.Fprintf(&b, "\n## Requirement\n\n%s\n", r)
	}
	if n := strings.TrimSpace(c.Notas); n != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", n)
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal with a fixed glamour style. On renderer errors
// the Markdown source is returned unchanged.
func RenderMarkdown(md string, style string, width int) string {
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func finalPrice(c model.PeekCase) string {
	s := money(c.PrecioFinal)
	if s == "" {
		return ""
	}
	if c.IVAIncluido {
		return s + " IVA incl. (neto " + money(Neto(c.PrecioFinal, true)) + ")"
	}
	return s + " + IVA"
}

// money formats CLP with dot thousands separators: 1.080.000.
func money(n int) string {
	if n <= 0 {
		return ""
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
