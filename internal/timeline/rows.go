package timeline

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"datsys/internal/store"
)

// Row is one case in the timeline. Rows are rebuilt on every display and never stored.
type Row struct {
	ProjectID   string `json:"project_id"`
	ClientID    string `json:"client_id"`
	RequestDate string `json:"request_date"`
	Deadline    string `json:"deadline"`
	DaysLeft    *int   `json:"days_left"`
	SurgeryDate string `json:"surgery_date"`
	Region      string `json:"region"`
	Complexity  string `json:"complexity"`
	Stage       string `json:"stage"`
}

func (r Row) HasDeadline() bool { return r.DaysLeft != nil }

func (r Row) DaysLeftString() string {
	if r.DaysLeft == nil {
		return ""
	}
	return strconv.Itoa(*r.DaysLeft)
}

type Aggregator struct {
	Store    store.Store
	Excluded time.Weekday
	Logger   *slog.Logger

	// Today defaults to time.Now.
	Today func() time.Time
}

// Rows walks clients/<client>/<project>/ and returns one sorted row per project that has a
// case file. Corrupt case files are logged and skipped.
func (a Aggregator) Rows() ([]Row, error) {
	today := time.Now()
	if a.Today != nil {
		today = a.Today()
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clients, err := a.Store.ListClients()
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, clientID := range clients {
		refs, err := a.Store.ListProjects(clientID)
		if err != nil {
			logger.Warn("skipping client", "client", clientID, "error", err)
			continue
		}
		for _, ref := range refs {
			if !a.Store.CaseExists(ref) {
				continue
			}
			c, err := a.Store.LoadCase(ref)
			if err != nil {
				logger.Warn("skipping unreadable case", "path", filepath.Clean(ref.CasePath()), "error", err)
				continue
			}
			rows = append(rows, Row{
				ProjectID:   ref.ProjectID,
				ClientID:    ref.ClientID,
				RequestDate: prefix(c.CreadoEn, 10),
				Deadline:    c.FechaEntregaEstimada,
				DaysLeft:    DaysLeft(today, c.FechaEntregaEstimada, a.Excluded),
				SurgeryDate: c.FechaCirugia,
				Region:      c.RegionAnatomica,
				Complexity:  c.Complejidad,
				Stage:       c.EstadoCaso,
			})
		}
	}
	Sort(rows)
	return rows, nil
}

// Sort orders rows by (has deadline, -days left, project id): backlog first, then the
// cases with the most days left, so the most urgent case ends up last.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.HasDeadline() != b.HasDeadline() {
			return !a.HasDeadline()
		}
		if da, db := daysOrZero(a), daysOrZero(b); da != db {
			return da > db
		}
		return a.ProjectID < b.ProjectID
	})
}

// DisplayIndex is the 1-based index shown for sort position i of n rows.
func DisplayIndex(i, n int) int { return n - i }

// Resolve maps a selector (display index or literal project id) to a row.
func Resolve(rows []Row, selector string) (Row, bool) {
	total := len(rows)
	if n, ok := parseIndex(selector); ok && n >= 1 && n <= total {
		return rows[total-n], true
	}
	for _, r := range rows {
		if r.ProjectID == selector {
			return r, true
		}
	}
	return Row{}, false
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func daysOrZero(r Row) int {
	if r.DaysLeft == nil {
		return 0
	}
	return *r.DaysLeft
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
