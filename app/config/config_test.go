package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, DriverBadger, cfg.Storage.Driver)
	assert.Equal(t, 2, cfg.Blog.PageSize)
	assert.Equal(t, 4, cfg.Blog.SimilarLimit)
	assert.Equal(t, 0.1, cfg.Blog.SearchThreshold)
	assert.Equal(t, OrderAsc, cfg.Blog.SearchOrder)
	assert.Equal(t, MailConsole, cfg.Mail.Backend)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "inkwell.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
site:
  base_url: "https://blog.example.com/"
storage:
  driver: sqlite
  sqlite_path: blog.db
blog:
  search_order: DESC
mail:
  backend: smtp
  host: smtp.example.com
  from: blog@example.com
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMTP_PORT=2525\n"), 0644))
	t.Setenv("INKWELL_HTTP_ADDR", ":9100")
	t.Cleanup(func() { os.Unsetenv("SMTP_PORT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, "https://blog.example.com", cfg.Site.BaseURL)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "blog.db", cfg.Storage.SQLitePath)
	assert.Equal(t, OrderDesc, cfg.Blog.SearchOrder)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 2525, cfg.Mail.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }},
		{"postgres without url", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"smtp without host", func(c *Config) { c.Mail.Backend = MailSMTP }},
		{"bad search order", func(c *Config) { c.Blog.SearchOrder = "random" }},
		{"zero page size", func(c *Config) { c.Blog.PageSize = 0 }},
		{"no sender", func(c *Config) { c.Mail.From = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
