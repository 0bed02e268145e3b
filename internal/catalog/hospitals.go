package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// HospitalsFile is the registry file name inside the data directory.
const HospitalsFile = "hospitals.csv"

type Hospital struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Registry is the TAB-separated hospital list (CODE<TAB>Name per line).
type Registry struct {
	Path string
}

func NewRegistry(dataDir string) Registry {
	return Registry{Path: filepath.Join(dataDir, HospitalsFile)}
}

// Load returns the hospitals in file order. A missing file is an empty registry.
func (r Registry) Load() ([]Hospital, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Hospital
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		code, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected CODE<TAB>Name", r.Path, n)
		}
		out = append(out, Hospital{Code: strings.ToUpper(strings.TrimSpace(code)), Name: strings.TrimSpace(name)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Append adds one hospital to the end of the registry, creating the file if needed.
func (r Registry) Append(h Hospital) error {
	h.Code = strings.ToUpper(strings.TrimSpace(h.Code))
	h.Name = strings.TrimSpace(h.Name)
	if h.Code == "" || h.Name == "" {
		return errors.New("hospital code and name are required")
	}
	if strings.ContainsAny(h.Code+h.Name, "\t\n") {
		return errors.New("hospital code and name must not contain tabs or newlines")
	}
	if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%s\t%s\n", h.Code, h.Name); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Lookup finds a hospital by 1-based index, code, or case-insensitive name.
func Lookup(hospitals []Hospital, val string) (Hospital, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return Hospital{}, false
	}
	if n, err := strconv.Atoi(val); err == nil {
		if n >= 1 && n <= len(hospitals) {
			return hospitals[n-1], true
		}
		return Hospital{}, false
	}
	for _, h := range hospitals {
		if strings.EqualFold(val, h.Code) || strings.EqualFold(val, h.Name) {
			return h, true
		}
	}
	return Hospital{}, false
}

// IsCode reports whether val looks like a hospital code: exactly three letters.
func IsCode(val string) bool {
	r := []rune(strings.TrimSpace(val))
	if len(r) != 3 {
		return false
	}
	for _, c := range r {
		if !unicode.IsLetter(c) {
			return false
		}
	}
	return true
}

// DeriveCode builds a code from the first three letters of a hospital name.
func DeriveCode(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}
