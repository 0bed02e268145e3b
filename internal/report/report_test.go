package report

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"datsys/internal/model"
	"datsys/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDicomName(t *testing.T) {
	for in, want := range map[string]string{
		"PEREZ LOPEZ^JUAN":  "Juan Perez Lopez",
		"soto^ana maria^^":  "Ana Maria Soto",
		"MUÑOZ, PEDRO":      "Muñoz Pedro",
		"  ":                "",
		"GONZALEZ^":         "Gonzalez",
		"juan   perez":      "Juan Perez",
	} {
		assert.Equal(t, want, NormalizeDicomName(in), in)
	}
}

func TestNeto(t *testing.T) {
	assert.Equal(t, 605_042, Neto(720_000, true))
	assert.Equal(t, 720_000, Neto(720_000, false))
	assert.Equal(t, 0, Neto(0, true))
}

func TestHQRow(t *testing.T) {
	c := model.NewPeekCase()
	c.IDCaso = "P113-ABC-PK1"
	c.NombreDoctor = "dr. ANA soto"
	c.NombrePaciente = "typed name"
	c.HospitalClinica = "Clínica Alemana"
	c.CreadoEn = "2025-01-13T09:30:00"
	c.FechaEntregaEstimada = "2025-01-20"
	c.Complejidad = "B"
	c.FechaCirugia = "2025-01-25"
	c.Requerimiento = "Implante de mentón"
	c.PrecioFinal = 720_000
	c.Extra = map[string]json.RawMessage{"nombre_paciente_dicom": json.RawMessage(`"PEREZ^JUAN"`)}

	row := HQRow(c, model.Client{ID: "ABC", Contact: "+56 9 1234"})
	require.Len(t, row, len(HQHeaders))
	assert.Equal(t, []string{
		"P113-ABC-PK1", "Dr. Ana Soto", "Clínica Alemana", "Juan Perez", "+56 9 1234",
		"2025-01-13T09:30:00", "2025-01-20", "B", "2025-01-25", "Implante de mentón", "720000", "605042",
	}, row)

	c.PrecioFinal = 0
	row = HQRow(c, model.Client{})
	assert.Equal(t, "", row[10])
	assert.Equal(t, "", row[11])
}

func TestExportHQ(t *testing.T) {
	st := store.Store{
		ClientsDir: filepath.Join(t.TempDir(), "clients"),
		Clock:      func() time.Time { return time.Date(2025, 1, 13, 9, 30, 0, 0, time.Local) },
	}
	require.NoError(t, st.Ensure())
	out := filepath.Join(t.TempDir(), "exports", "HQ.tsv")

	n, err := ExportHQ(st, out, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no file without cases")

	_, err = st.CreateClient("ABC", "ana soto", "ana@example.com")
	require.NoError(t, err)
	res, err := st.CreateProject("ABC", model.ProjectTypePEEK)
	require.NoError(t, err)
	_, err = st.CreateProject("ABC", model.ProjectTypePLA)
	require.NoError(t, err)
	broken, err := st.CreateProject("ABC", model.ProjectTypePEEK)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(broken.Ref.CasePath(), []byte("{"), 0o644))

	var logs bytes.Buffer
	n, err = ExportHQ(st, out, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, logs.String(), "skipping unreadable case")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(HQHeaders, "\t"), lines[0])
	fields := strings.Split(lines[1], "\t")
	assert.Equal(t, res.Ref.ProjectID, fields[0])
	assert.Equal(t, "Ana Soto", fields[1])
	assert.Equal(t, "ana@example.com", fields[4])
}

func TestCaseCard(t *testing.T) {
	c := model.NewPeekCase()
	c.IDCaso = "P113-ABC-PK1"
	c.EstadoCaso = "design"
	c.NombrePaciente = "PEREZ^JUAN"
	c.NombreDoctor = "Dr. Ana Soto"
	c.RegionAnatomica = "Mentón"
	c.PrecioBase = 720_000
	c.PrecioFinal = 1_080_000
	c.FechaEntregaEstimada = "2025-01-20"
	c.Notas = "left side | revise"
	days := 6

	md := CaseCard(c, model.Client{Contact: "ana@example.com"}, &days)
	assert.Contains(t, md, "# P113-ABC-PK1")
	assert.Contains(t, md, "**Stage:** design")
	assert.Contains(t, md, "| Patient | Juan Perez |")
	assert.Contains(t, md, "| Doctor | Dr. Ana Soto (ana@example.com) |")
	assert.Contains(t, md, "| Delivery | 2025-01-20 (6 business days left) |")
	assert.Contains(t, md, "| Base price | $720.000 |")
	assert.Contains(t, md, "| Final price | $1.080.000 IVA incl. (neto $907.563) |")
	assert.Contains(t, md, "## Notes\n\nleft side | revise")

	rendered := RenderMarkdown(md, "notty", 80)
	assert.Contains(t, rendered, "P113-ABC-PK1")
	assert.Contains(t, rendered, "Juan Perez")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "", money(0))
	assert.Equal(t, "$999", money(999))
	assert.Equal(t, "$1.000", money(1000))
	assert.Equal(t, "$12.345.678", money(12_345_678))
}
