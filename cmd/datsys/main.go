package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"datsys/internal/cli"
	"datsys/internal/model"
	"datsys/internal/store"
)

func isProjectID(s string) bool {
	s = strings.TrimSpace(s)
	if _, ok := model.ClientIDFromProjectID(s); !ok {
		return false
	}
	code, _, _ := strings.Cut(s, "-")
	_, err := store.ParseDateCode(code)
	return err == nil
}

func rewriteDirectCaseLookupArgs(argv []string) []string {
	// Convenience: `datsys <project-id>` works like `datsys case show <project-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `datsys --clients-dir ... <project-id>`), so we
	// look for the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":      true,
		"--clients-dir": true,
		"--log-level":   true,
		"--format":      true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isProjectID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "case", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectCaseLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
