package timeline

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"datsys/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func writeCase(t *testing.T, root, client, project, body string) {
	t.Helper()
	dir := filepath.Join(root, client, project)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if body != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, store.CaseFileName), []byte(body), 0o644))
	}
}

func TestAggregator_Rows(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "ABC", "P113-ABC-PK1", `{"id_caso":"P113-ABC-PK1","fecha_entrega_estimada":"2024-01-20","creado_en":"2024-01-02T10:00:00","region_anatomica":"Mentón","complejidad":"B","estado_caso":"design","fecha_cirugia":"2024-01-25"}`)
	writeCase(t, root, "ABC", "P114-ABC-PK2", `{"id_caso":"P114-ABC-PK2","fecha_entrega_estimada":"2024-01-09"}`)
	writeCase(t, root, "ABC", "P115-ABC-PL3", "")
	writeCase(t, root, "XYZ", "P116-XYZ-PK1", `{"id_caso":"P116-XYZ-PK1"}`)
	writeCase(t, root, "XYZ", "P117-XYZ-PK2", `{not json`)
	writeCase(t, root, "XYZ", "P118-XYZ-PK3", `{"region":"Cigomático","fecha_entrega_estimada":"garbage"}`)
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	var logs bytes.Buffer
	agg := Aggregator{
		Store:    store.Store{ClientsDir: root},
		Excluded: time.Sunday,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
		Today:    func() time.Time { return day("2024-01-06") },
	}

	rows, err := agg.Rows()
	require.NoError(t, err)

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ProjectID
	}
	assert.Equal(t, []string{"P116-XYZ-PK1", "P118-XYZ-PK3", "P113-ABC-PK1", "P114-ABC-PK2"}, ids)

	first := rows[2]
	assert.Equal(t, "ABC", first.ClientID)
	assert.Equal(t, "2024-01-02", first.RequestDate)
	assert.Equal(t, "Mentón", first.Region)
	assert.Equal(t, "B", first.Complexity)
	assert.Equal(t, "design", first.Stage)
	assert.Equal(t, "2024-01-25", first.SurgeryDate)
	require.NotNil(t, first.DaysLeft)
	assert.Equal(t, 12, *first.DaysLeft)

	legacy := rows[1]
	assert.Equal(t, "Cigomático", legacy.Region, "v1 region is migrated")
	assert.Nil(t, legacy.DaysLeft, "unparseable deadline")
	assert.Equal(t, "garbage", legacy.Deadline)

	assert.Contains(t, logs.String(), "skipping unreadable case")
	assert.Contains(t, logs.String(), "P117-XYZ-PK2")

	again, err := agg.Rows()
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestAggregator_MissingRoot(t *testing.T) {
	agg := Aggregator{Store: store.Store{ClientsDir: filepath.Join(t.TempDir(), "nope")}}
	rows, err := agg.Rows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSort(t *testing.T) {
	rows := []Row{
		{ProjectID: "C", DaysLeft: intPtr(2)},
		{ProjectID: "B"},
		{ProjectID: "E", DaysLeft: intPtr(0)},
		{ProjectID: "A"},
		{ProjectID: "D", DaysLeft: intPtr(9)},
		{ProjectID: "F", DaysLeft: intPtr(2)},
	}
	Sort(rows)

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ProjectID
	}
	assert.Equal(t, []string{"A", "B", "D", "C", "F", "E"}, ids)
}

func TestResolve(t *testing.T) {
	rows := []Row{{ProjectID: "A"}, {ProjectID: "B"}, {ProjectID: "P113-ABC-PK1"}}

	for k := 1; k <= len(rows); k++ {
		r, ok := Resolve(rows, itoa(k))
		require.True(t, ok, "index %d", k)
		assert.Equal(t, rows[len(rows)-k].ProjectID, r.ProjectID)
	}

	r, ok := Resolve(rows, "1")
	require.True(t, ok)
	assert.Equal(t, "P113-ABC-PK1", r.ProjectID, "index 1 is the last sorted row")

	r, ok = Resolve(rows, "P113-ABC-PK1")
	require.True(t, ok)
	assert.Equal(t, "P113-ABC-PK1", r.ProjectID)

	for _, sel := range []string{"0", "4", "-1", "", "a", "99999999999999999999"} {
		_, ok := Resolve(rows, sel)
		assert.False(t, ok, "selector %q", sel)
	}

	_, ok = Resolve(nil, "1")
	assert.False(t, ok)
}

func itoa(n int) string {
	return string(rune('0' + n))
}
