package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/store"
)

func TestLoad_MissingFileYieldsEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	s := store.New(path, &logging.MockLogger{})

	mappings, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concept-mappings.yaml")
	s := store.New(path, &logging.MockLogger{})

	in := map[string]store.ConceptMapping{
		"expense::arbitraxe": {CategoryID: "cat-arb", TeamID: "team-a"},
		"income::cuotas":     {CategoryID: "cat-cuotas", ProjectID: "proj-1"},
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "mappings.yaml")
	s := store.New(path, &logging.MockLogger{})

	require.NoError(t, s.Save(map[string]store.ConceptMapping{
		"expense::material": {CategoryID: "cat-mat"},
	}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{invalid: ["), 0600))

	s := store.New(path, &logging.MockLogger{})
	_, err := s.Load()
	assert.Error(t, err)
}
