package cli

import (
	"strings"

	"datsys/internal/catalog"

	"github.com/spf13/cobra"
)

func newHospitalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hospitals",
		Short: "Manage the hospital registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered hospitals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := app.registry().Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]map[string]any, 0, len(hs))
			for i, h := range hs {
				out = append(out, map[string]any{"index": i + 1, "code": h.Code, "name": h.Name})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <code> <name...>",
		Short: "Register a hospital under a 3-letter code",
		Example: strings.TrimSpace(`
  datsys hospitals add CLC Clinica Las Condes`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			if !catalog.IsCode(code) {
				return writeErr(cmd, errUsage("hospital code must be three letters: %q", args[0]))
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			reg := app.registry()
			hs, err := reg.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if h, dup := catalog.Lookup(hs, name); dup {
				return writeErr(cmd, errUsage("hospital already registered: %s (%s)", h.Name, h.Code))
			}
			h := catalog.Hospital{Code: code, Name: name}
			if err := reg.Append(h); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"code": h.Code, "name": h.Name}})
		},
	})
	return cmd
}

func newPricesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Print the price list (CLP) by region and complexity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]map[string]any, 0)
			for _, e := range catalog.PriceList() {
				prices := map[string]int{}
				for i, g := range catalog.Complexities {
					prices[g] = e.Prices[i]
				}
				out = append(out, map[string]any{"region": e.Region, "prices": prices})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}
