package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("Sharma family", "Asha")
	assert.Equal(t, "Sharma family", cfg.Household.Name)
	assert.Equal(t, "Asha", cfg.Owner.Name)
	assert.Equal(t, "owner", cfg.Owner.UserID)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "gharkhata.db", cfg.Store.Path)
	assert.Equal(t, "INR", cfg.Currency)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gharkhata.yaml")

	cfg := Default("Sharma family", "Asha")
	cfg.Household.ID = "hh-123"
	cfg.Currency = "USD"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
