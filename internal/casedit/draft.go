package casedit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"datsys/internal/catalog"
	"datsys/internal/model"
)

// OtherHospital is the hospital choice that asks for a new registry entry.
const OtherHospital = "\x00other"

// Draft holds the editable case fields as form strings.
type Draft struct {
	NombrePaciente  string
	Hospital        string
	NewHospitalName string
	NewHospitalCode string
	Region          string
	Complejidad     string
	// PrecioFinal empty means the list price for Region and Complejidad.
	PrecioFinal   string
	Requerimiento string
	IVAIncluido   bool
	FechaCirugia  string
	HoraCirugia   string
	FechaEntrega  string
	EstadoCaso    string
	Notas         string
}

func NewDraft(c model.PeekCase) Draft {
	d := Draft{
		NombrePaciente: c.NombrePaciente,
		Hospital:       c.HospitalClinica,
		Region:         c.RegionAnatomica,
		Complejidad:    c.Complejidad,
		Requerimiento:  c.Requerimiento,
		IVAIncluido:    c.IVAIncluido,
		FechaCirugia:   c.FechaCirugia,
		HoraCirugia:    c.HoraCirugia,
		FechaEntrega:   c.FechaEntregaEstimada,
		EstadoCaso:     c.EstadoCaso,
		Notas:          c.Notas,
	}
	if c.PrecioFinal > 0 && c.PrecioFinal != c.PrecioBase {
		d.PrecioFinal = strconv.Itoa(c.PrecioFinal)
	}
	return d
}

// Result reports side effects of Apply that the caller persists outside the case.
type Result struct {
	// NewHospital is set when the draft names a hospital missing from the registry.
	NewHospital *catalog.Hospital
}

// Apply validates the draft and copies it onto c. c is unchanged on error.
func (d Draft) Apply(c *model.PeekCase) (Result, error) {
	var res Result
	next := *c

	next.NombrePaciente = strings.TrimSpace(d.NombrePaciente)

	switch d.Hospital {
	case OtherHospital:
		name := strings.TrimSpace(d.NewHospitalName)
		if name == "" {
			return Result{}, errors.New("new hospital name is required")
		}
		code := strings.ToUpper(strings.TrimSpace(d.NewHospitalCode))
		if code == "" {
			code = catalog.DeriveCode(name)
		} else if !catalog.IsCode(code) {
			return Result{}, fmt.Errorf("hospital code must be three letters: %q", code)
		}
		res.NewHospital = &catalog.Hospital{Code: code, Name: name}
		next.HospitalClinica = name
	default:
		next.HospitalClinica = strings.TrimSpace(d.Hospital)
	}

	next.RegionAnatomica = strings.TrimSpace(d.Region)
	next.Complejidad = strings.ToUpper(strings.TrimSpace(d.Complejidad))
	if next.Complejidad != "" && !catalog.ValidComplexity(next.Complejidad) {
		return Result{}, fmt.Errorf("invalid complexity: %q", d.Complejidad)
	}

	final, err := ParsePrice(d.PrecioFinal)
	if err != nil {
		return Result{}, err
	}
	if next.RegionAnatomica != "" && next.Complejidad != "" {
		base, err := catalog.Price(next.RegionAnatomica, next.Complejidad)
		if err != nil {
			return Result{}, err
		}
		next.PrecioBase = base
		if final == 0 {
			final = base
		}
	}
	if final > 0 {
		next.PrecioFinal = final
	}

	for _, f := range []struct {
		label, value string
		check        func(string) error
		dst          *string
	}{
		{"surgery date", d.FechaCirugia, ValidateDate, &next.FechaCirugia},
		{"surgery time", d.HoraCirugia, ValidateTime, &next.HoraCirugia},
		{"delivery date", d.FechaEntrega, ValidateDate, &next.FechaEntregaEstimada},
	} {
		v := strings.TrimSpace(f.value)
		if err := f.check(v); err != nil {
			return Result{}, fmt.Errorf("%s: %w", f.label, err)
		}
		*f.dst = v
	}

	next.Requerimiento = strings.TrimSpace(d.Requerimiento)
	next.IVAIncluido = d.IVAIncluido
	next.EstadoCaso = strings.TrimSpace(d.EstadoCaso)
	next.Notas = strings.TrimSpace(d.Notas)

	*c = next
	return res, nil
}

// ParsePrice reads a CLP amount. Dots and "$" are ignored; empty is 0.
func ParsePrice(s string) (int, error) {
	s = strings.NewReplacer(".", "", "$", "", " ", "", "_", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid price: %q", s)
	}
	return n, nil
}

// ValidateDate accepts an empty value or YYYY-MM-DD.
func ValidateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return nil
}

// ValidateTime accepts an empty value or 24h HH:MM.
func ValidateTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("expected HH:MM, got %q", s)
	}
	return nil
}
