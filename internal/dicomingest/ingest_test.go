package dicomingest

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"datsys/internal/model"
	"datsys/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func mustElement(t *testing.T, tg tag.Tag, v any) *dicom.Element {
	t.Helper()
	e, err := dicom.NewElement(tg, v)
	require.NoError(t, err)
	return e
}

// writeDICOM writes a minimal CT instance without pixel data.
func writeDICOM(t *testing.T, path, patient string) {
	t.Helper()
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		mustElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.2"}),
		mustElement(t, tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustElement(t, tag.ImplementationClassUID, []string{"1.2.826.0.1.3680043.8.498"}),
		mustElement(t, tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustElement(t, tag.SOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.2"}),
		mustElement(t, tag.Modality, []string{"CT"}),
		mustElement(t, tag.PatientName, []string{patient}),
		mustElement(t, tag.PatientID, []string{"12345"}),
	}}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, dicom.Write(f, ds))
	require.NoError(t, f.Close())
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func newProject(t *testing.T) (store.Store, store.ProjectRef) {
	t.Helper()
	st := store.Store{
		ClientsDir: filepath.Join(t.TempDir(), "clients"),
		Clock:      func() time.Time { return time.Date(2025, 1, 13, 9, 30, 0, 0, time.Local) },
	}
	require.NoError(t, st.Ensure())
	_, err := st.CreateClient("ABC", "Dr. Ana Soto", "")
	require.NoError(t, err)
	res, err := st.CreateProject("ABC", model.ProjectTypePEEK)
	require.NoError(t, err)
	return st, res.Ref
}

func TestRecentInputs(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		p := filepath.Join(dir, fmt.Sprintf("scan%02d.zip", i))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
		require.NoError(t, os.Chtimes(p, base, base.Add(time.Duration(i)*time.Hour)))
	}
	newest := filepath.Join(dir, "IMG.DCM")
	require.NoError(t, os.WriteFile(newest, nil, 0o644))
	require.NoError(t, os.Chtimes(newest, base, base.Add(48*time.Hour)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.zip"), 0o755))

	got, err := RecentInputs(dir)
	require.NoError(t, err)
	require.Len(t, got, MaxRecent)
	assert.Equal(t, "IMG.DCM", got[0].Name)
	assert.Equal(t, "scan11.zip", got[1].Name)
	assert.Equal(t, "scan03.zip", got[9].Name)

	none, err := RecentInputs(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIngest_SingleFileFillsPatient(t *testing.T) {
	st, ref := newProject(t)
	src := filepath.Join(t.TempDir(), "IM0001.dcm")
	writeDICOM(t, src, "PEREZ^JUAN")

	res, err := Ingester{Store: st}.Ingest(ref, src, false)
	require.NoError(t, err)
	assert.Equal(t, "PEREZ^JUAN", res.PatientName)
	assert.True(t, res.PatientUpdated)
	assert.FileExists(t, filepath.Join(ref.DICOMDir(), "IM0001.dcm"))

	c, err := st.LoadCase(ref)
	require.NoError(t, err)
	assert.Equal(t, "PEREZ^JUAN", c.NombrePaciente)

	log, err := os.ReadFile(ref.LogPath())
	require.NoError(t, err)
	assert.Equal(t, "[2025-01-13 09:30] DICOM ingested from \"IM0001.dcm\"\n", string(log))
}

func TestIngest_KeepsExistingPatientName(t *testing.T) {
	st, ref := newProject(t)
	_, err := st.UpdateCase(ref, func(c *model.PeekCase) error {
		c.NombrePaciente = "Juan Pérez"
		return nil
	})
	require.NoError(t, err)
	src := filepath.Join(t.TempDir(), "series")
	writeDICOM(t, filepath.Join(src, "IM0001"), "PEREZ^JUAN")

	res, err := Ingester{Store: st}.Ingest(ref, src, false)
	require.NoError(t, err)
	assert.False(t, res.PatientUpdated)
	assert.FileExists(t, filepath.Join(ref.DICOMDir(), "IM0001"))

	c, err := st.LoadCase(ref)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", c.NombrePaciente)
}

func TestIngest_Zip(t *testing.T) {
	st, ref := newProject(t)
	src := filepath.Join(t.TempDir(), "study.zip")
	writeZip(t, src, map[string]string{"STUDY/SERIES/IM0001": "not really dicom", "README.txt": "x"})

	res, err := Ingester{Store: st}.Ingest(ref, src, false)
	require.NoError(t, err)
	assert.Empty(t, res.PatientName, "unparseable files are skipped")
	assert.FileExists(t, filepath.Join(ref.DICOMDir(), "STUDY", "SERIES", "IM0001"))
}

func TestIngest_NoDICOMCleansUp(t *testing.T) {
	st, ref := newProject(t)
	src := filepath.Join(t.TempDir(), "docs.zip")
	writeZip(t, src, map[string]string{"report.pdf": "x"})

	_, err := Ingester{Store: st}.Ingest(ref, src, false)
	assert.ErrorIs(t, err, ErrNoDICOM)
	assert.NoDirExists(t, ref.DICOMDir())
	assert.NoFileExists(t, ref.LogPath())
}

func TestIngest_ReplaceRequiresConfirmation(t *testing.T) {
	st, ref := newProject(t)
	first := filepath.Join(t.TempDir(), "a.dcm")
	writeDICOM(t, first, "A^B")
	_, err := Ingester{Store: st}.Ingest(ref, first, false)
	require.NoError(t, err)

	second := filepath.Join(t.TempDir(), "b.dcm")
	writeDICOM(t, second, "C^D")
	_, err = Ingester{Store: st}.Ingest(ref, second, false)
	assert.ErrorIs(t, err, ErrDICOMExists)
	assert.FileExists(t, filepath.Join(ref.DICOMDir(), "a.dcm"))

	_, err = Ingester{Store: st}.Ingest(ref, second, true)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(ref.DICOMDir(), "a.dcm"))
	assert.FileExists(t, filepath.Join(ref.DICOMDir(), "b.dcm"))
}

func TestIngest_BadSources(t *testing.T) {
	st, ref := newProject(t)

	_, err := Ingester{Store: st}.Ingest(ref, filepath.Join(t.TempDir(), "missing.zip"), false)
	assert.ErrorContains(t, err, "path not found")

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = Ingester{Store: st}.Ingest(ref, txt, false)
	assert.ErrorContains(t, err, "unsupported DICOM input")
	assert.NoDirExists(t, ref.DICOMDir())

	gone := ref
	gone.Dir = filepath.Join(t.TempDir(), "nope")
	_, err = Ingester{Store: st}.Ingest(gone, txt, false)
	var nf store.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	src := filepath.Join(t.TempDir(), "evil.zip")
	writeZip(t, src, map[string]string{"../../outside": "x"})
	dest := t.TempDir()

	err := Extract(src, dest)
	assert.ErrorContains(t, err, "escapes destination")
	assert.ErrorContains(t, Extract(filepath.Join(dest, "x.tar"), dest), "unsupported archive format")
}

func TestContainsDICOM(t *testing.T) {
	dir := t.TempDir()
	ok, err := ContainsDICOM(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	ok, _ = ContainsDICOM(dir)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "X.DCM"), nil, 0o644))
	ok, _ = ContainsDICOM(dir)
	assert.True(t, ok)
}
