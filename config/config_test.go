package config

import (
	"os"
	"path/filepath"
	"testing"

	db "dbstash/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbstash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
tables:
  - users
  - posts
backup:
  user: root
  database: app
restore:
  driver: postgres
  user: admin
  database: app_copy
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "posts"}, cfg.Tables)
	assert.Equal(t, "mysql", cfg.Backup.Driver)
	assert.Equal(t, DefaultHost, cfg.Backup.Host)
	assert.Equal(t, DefaultMySQLPort, cfg.Backup.Port)
	assert.Equal(t, "postgres", cfg.Restore.Driver)
	assert.Equal(t, DefaultPostgresPort, cfg.Restore.Port)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
tables: [users]
backup:
  host: db1.internal
  port: 3307
  user: root
  database: app
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db1.internal", cfg.Backup.Host)
	assert.Equal(t, 3307, cfg.Backup.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "not a file")
}

func TestLoadRejectsEmptyTableList(t *testing.T) {
	path := writeConfig(t, `
backup:
  user: root
  database: app
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "no tables")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "tables: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("backup", db.Config{User: "root", Database: "app"}))
	assert.ErrorContains(t, Validate("backup", db.Config{Database: "app"}), "user is required")
	assert.ErrorContains(t, Validate("restore", db.Config{User: "root"}), "database is required")
}
