package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9090
store:
  backend: mysql
database:
  host: db.local
  port: 3306
  username: flavor
  password: from-file
  database: flavor_ai
  parse_time: true
recommend:
  top_n: 5
  open_now_only: true
places:
  result_cap: 10
`), 0644))

	t.Setenv("DATABASE_PASSWORD", "from-env")
	t.Setenv("LLM_API_KEY", "llm-secret")

	cfg := LoadFile(path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mysql", cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Recommend.TopN)
	assert.True(t, cfg.Recommend.OpenNowOnly)
	assert.Equal(t, 10, cfg.Places.ResultCap)
	assert.Equal(t, "llm-secret", cfg.LLM.APIKey)
	assert.Equal(t, "flavor:from-env@tcp(db.local:3306)/flavor_ai?charset=utf8mb4&parseTime=true", cfg.DB.DSN)

	// 未配置的字段使用默认值
	assert.Equal(t, "user_profile.csv", cfg.Store.CSVPath)
	assert.Equal(t, 34.052235, cfg.Recommend.FallbackLat)
	assert.Equal(t, -118.243683, cfg.Recommend.FallbackLon)
}

func TestLoadFile_MissingFallsBackToEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("STORE_CSV_PATH", "/tmp/profiles.csv")
	t.Setenv("DB_DSN", "u:p@tcp(h:1)/d")

	cfg := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/profiles.csv", cfg.Store.CSVPath)
	assert.Equal(t, "csv", cfg.Store.Backend)
	assert.Equal(t, "u:p@tcp(h:1)/d", cfg.DB.DSN)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Recommend.TopN)
	assert.Equal(t, 20, cfg.Places.ResultCap)
	assert.Equal(t, 2.0, cfg.Recommend.RadiusValue)
	assert.Equal(t, "miles", cfg.Recommend.RadiusUnit)
	assert.Equal(t, uint32(3), cfg.Breaker.MaxRequests)
	assert.Empty(t, cfg.DB.DSN)
}
