package artifacts

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestBundle creates a temporary artifact bundle for testing
func createTestBundle(t *testing.T, dir string, contents map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, "model.bundle")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE artifacts (name TEXT PRIMARY KEY, data BLOB)`)
	require.NoError(t, err)

	for name, data := range contents {
		_, err := db.Exec(`INSERT INTO artifacts (name, data) VALUES (?, ?)`, name, []byte(data))
		require.NoError(t, err)
	}

	return path
}

func TestEncoderName(t *testing.T) {
	assert.Equal(t, "Sex_encoder.json", EncoderName("Sex"))
	assert.Equal(t, "Saving accounts_encoder.json", EncoderName("Saving accounts"))
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClassifierName), []byte(`{"kind":"logistic"}`), 0644))

	src, err := Open(dir)
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &DirSource{}, src)
	assert.Equal(t, dir, src.Location())

	data, err := src.Read(ClassifierName)
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"logistic"}`, string(data))
}

func TestDirSourceMissingArtifact(t *testing.T) {
	src := NewDirSource(t.TempDir())

	_, err := src.Read(EncoderName("Sex"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirSourceRejectsPaths(t *testing.T) {
	src := NewDirSource(t.TempDir())

	_, err := src.Read("../secret.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBundleSource(t *testing.T) {
	dir := t.TempDir()
	path := createTestBundle(t, dir, map[string]string{
		ClassifierName:     `{"kind":"tree_ensemble"}`,
		EncoderName("Sex"): `{"field":"Sex","classes":["female","male"]}`,
	})

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &BundleSource{}, src)
	assert.Equal(t, path, src.Location())

	data, err := src.Read(EncoderName("Sex"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "female")

	_, err = src.Read(EncoderName("Housing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBundleDSN(t *testing.T) {
	assert.Equal(t, "file:/data/model.bundle?mode=ro", bundleDSN("/data/model.bundle"))
	assert.Equal(t, "file:/data/a%3fb%23c%2541.bundle?mode=ro", bundleDSN("/data/a?b#c%41.bundle"))
}

func TestBundleSourceOddPath(t *testing.T) {
	dir := t.TempDir()
	built := createTestBundle(t, dir, map[string]string{
		ClassifierName: `{"kind":"logistic"}`,
	})

	// the bundle is built under a plain name, then moved
	path := filepath.Join(dir, "v2?draft#1%20.bundle")
	require.NoError(t, os.Rename(built, path))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	data, err := src.Read(ClassifierName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logistic")
}

func TestOpenBundleInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bundle")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (id INTEGER)`)
	require.NoError(t, err)
	db.Close()

	_, err = OpenBundle(path)
	assert.Error(t, err)
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}
