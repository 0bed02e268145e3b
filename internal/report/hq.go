package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"

	"datsys/internal/model"
	"datsys/internal/store"
)

// ivaFactor is the Chilean VAT multiplier (19%).
const ivaFactor = 1.19

var HQHeaders = []string{
	"ID del Caso",
	"Nombre del Doctor",
	"Hospital",
	"Nombre del Paciente",
	"Contacto",
	"Fecha Ingreso",
	"Fecha Entrega",
	"DC",
	"Fecha Cirugía",
	"Descripcion",
	"Precio Implante (IVA Incluido)",
	"Neto",
}

// HQRows builds one export row per case under the clients root, in directory order.
// Unreadable cases are logged and skipped.
func HQRows(st store.Store, logger *slog.Logger) ([][]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clients, err := st.ListClients()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for _, clientID := range clients {
		client, err := st.LoadClient(clientID)
		if err != nil {
			logger.Warn("client file unreadable", "client", clientID, "error", err)
			client = model.Client{ID: clientID}
		}
		refs, err := st.ListProjects(clientID)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			if !st.CaseExists(ref) {
				continue
			}
			c, err := st.LoadCase(ref)
			if err != nil {
				logger.Warn("skipping unreadable case", "path", ref.CasePath(), "error", err)
				continue
			}
			rows = append(rows, HQRow(c, client))
		}
	}
	return rows, nil
}

// HQRow maps one case and its client to the export columns.
func HQRow(c model.PeekCase, client model.Client) []string {
	patient := c.NombrePaciente
	if dicomName := extraString(c, "nombre_paciente_dicom"); dicomName != "" {
		patient = dicomName
	}
	price, neto := "", ""
	if c.PrecioFinal > 0 {
		price = strconv.Itoa(c.PrecioFinal)
		neto = strconv.Itoa(Neto(c.PrecioFinal, c.IVAIncluido))
	}
	return []string{
		c.IDCaso,
		TitleCase(c.NombreDoctor),
		c.HospitalClinica,
		NormalizeDicomName(patient),
		client.Contact,
		c.CreadoEn,
		c.FechaEntregaEstimada,
		c.Complejidad,
		c.FechaCirugia,
		c.Requerimiento,
		price,
		neto,
	}
}

// WriteHQ writes the header and rows as tab-separated values.
func WriteHQ(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(HQHeaders); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// ExportHQ writes the HQ export to path and returns the number of case rows.
// Nothing is written when there are no cases.
func ExportHQ(st store.Store, path string, logger *slog.Logger) (int, error) {
	rows, err := HQRows(st, logger)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var buf bytes.Buffer
	if err := WriteHQ(&buf, rows); err != nil {
		return 0, err
	}
	if err := store.WriteFile(path, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(rows), nil
}

// Neto removes VAT from a price when it is included.
func Neto(price int, ivaIncluded bool) int {
	if !ivaIncluded {
		return price
	}
	return int(math.Round(float64(price) / ivaFactor))
}

// NormalizeDicomName turns a DICOM person name ("PEREZ LOPEZ^JUAN") into "Juan Perez Lopez".
func NormalizeDicomName(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "^")
	if len(parts) == 1 {
		return TitleCase(parts[0])
	}
	last := TitleCase(parts[0])
	first := TitleCase(parts[1])
	return strings.TrimSpace(first + " " + last)
}

// TitleCase capitalizes the first letter of each word and lowercases the rest.
// Runs of whitespace collapse to one space.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func extraString(c model.PeekCase, key string) string {
	raw, ok := c.Extra[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
