package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/pkg/configuration"
)

func TestLoadEnv_MissingFilesAreSkipped(t *testing.T) {
	n, err := configuration.LoadEnv([]string{"does-not-exist.env"})
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestLoadEnv_LoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FREIGHT_DWH_TEST_KEY=hello\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("FREIGHT_DWH_TEST_KEY") })

	n, err := configuration.LoadEnv([]string{envFile})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "hello", os.Getenv("FREIGHT_DWH_TEST_KEY"))
}

func TestDatabaseOptions_Validate(t *testing.T) {
	opts := configuration.DatabaseOptions{Host: "localhost", Port: "5432"}
	require.Error(t, opts.Validate())

	opts.Name = "dwh"
	require.Error(t, opts.Validate())

	opts.User = "loader"
	require.NoError(t, opts.Validate())
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	opts := configuration.DatabaseOptions{
		Name:     "dwh",
		Host:     "db.internal",
		Port:     "5433",
		User:     "loader",
		Password: "secret",
	}
	require.Equal(
		t,
		"host=db.internal port=5433 user=loader dbname=dwh password=secret sslmode=disable",
		opts.ConnectionString(),
	)
}
