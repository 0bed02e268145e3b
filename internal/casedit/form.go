package casedit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"datsys/internal/catalog"
	"datsys/internal/model"
	"datsys/internal/store"

	"github.com/charmbracelet/huh"
)

// Editor runs the interactive case form and saves the result.
type Editor struct {
	Store    store.Store
	Registry catalog.Registry

	// In and Out default to the terminal when nil.
	In  io.Reader
	Out io.Writer
	// Accessible switches huh to plain line prompts.
	Accessible bool
}

// Edit opens the form for ref, creating peekCase.json first when the project has none.
// Aborting the form leaves the case untouched.
func (e Editor) Edit(ctx context.Context, ref store.ProjectRef) error {
	if _, err := e.Store.InitCase(ref, ""); err != nil {
		return err
	}
	c, err := e.Store.LoadCase(ref)
	if err != nil {
		return err
	}
	hospitals, err := e.Registry.Load()
	if err != nil {
		return err
	}

	d := NewDraft(c)
	if err := e.form(&d, c, hospitals).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	res, err := d.Apply(&c)
	if err != nil {
		return err
	}
	if res.NewHospital != nil {
		if _, dup := catalog.Lookup(hospitals, res.NewHospital.Name); !dup {
			if err := e.Registry.Append(*res.NewHospital); err != nil {
				return fmt.Errorf("add hospital: %w", err)
			}
		}
	}
	return e.Store.SaveCase(ref, c)
}

func (e Editor) form(d *Draft, c model.PeekCase, hospitals []catalog.Hospital) *huh.Form {
	hospitalOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	known := false
	for _, h := range hospitals {
		hospitalOpts = append(hospitalOpts, huh.NewOption(h.Code+" - "+h.Name, h.Name))
		known = known || h.Name == d.Hospital
	}
	if d.Hospital != "" && !known {
		hospitalOpts = append(hospitalOpts, huh.NewOption(d.Hospital, d.Hospital))
	}
	hospitalOpts = append(hospitalOpts, huh.NewOption("Other...", OtherHospital))

	regionOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, r := range catalog.Regions() {
		regionOpts = append(regionOpts, huh.NewOption(r, r))
	}
	complexityOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, g := range catalog.Complexities {
		complexityOpts = append(complexityOpts, huh.NewOption(g, g))
	}

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("PEEK case "+c.IDCaso).
				Description("Doctor: "+c.NombreDoctor),
			huh.NewInput().
				Key("nombre_paciente").
				Title("Patient").
				Value(&d.NombrePaciente),
			huh.NewSelect[string]().
				Key("hospital_clinica").
				Title("Hospital").
				Options(hospitalOpts...).
				Value(&d.Hospital),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("New hospital name").
				Value(&d.NewHospitalName).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Code").
				Description("Three letters. Empty uses the first letters of the name.").
				CharLimit(3).
				Value(&d.NewHospitalCode),
		).WithHideFunc(func() bool { return d.Hospital != OtherHospital }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("region_anatomica").
				Title("Anatomical region").
				Options(regionOpts...).
				Value(&d.Region),
			huh.NewSelect[string]().
				Key("complejidad").
				Title("Complexity").
				Options(complexityOpts...).
				Value(&d.Complejidad),
			huh.NewInput().
				Key("precio_final").
				Title("Final price (CLP)").
				DescriptionFunc(func() string {
					if p, err := catalog.Price(d.Region, d.Complejidad); err == nil {
						return fmt.Sprintf("List price %d. Empty uses the list price.", p)
					}
					return "Empty keeps the list price."
				}, &d.Complejidad).
				Value(&d.PrecioFinal).
				Validate(func(s string) error {
					_, err := ParsePrice(s)
					return err
				}),
			huh.NewConfirm().
				Key("iva_incluido").
				Title("IVA included?").
				Value(&d.IVAIncluido),
			huh.NewText().
				Key("requerimiento").
				Title("Requirement").
				Value(&d.Requerimiento),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("fecha_cirugia").
				Title("Surgery date").
				Placeholder("YYYY-MM-DD").
				Value(&d.FechaCirugia).
				Validate(ValidateDate),
			huh.NewInput().
				Key("hora_cirugia").
				Title("Surgery time").
				Placeholder("HH:MM").
				Value(&d.HoraCirugia).
				Validate(ValidateTime),
			huh.NewInput().
				Key("fecha_entrega_estimada").
				Title("Estimated delivery").
				Placeholder("YYYY-MM-DD").
				Value(&d.FechaEntrega).
				Validate(ValidateDate),
			huh.NewInput().
				Key("estado_caso").
				Title("Stage").
				Value(&d.EstadoCaso),
			huh.NewText().
				Key("notas").
				Title("Notes").
				Value(&d.Notas),
		),
	).WithShowHelp(false).WithAccessible(e.Accessible)

	if e.In != nil {
		f = f.WithInput(e.In)
	}
	if e.Out != nil {
		f = f.WithOutput(e.Out)
	}
	return f
}
