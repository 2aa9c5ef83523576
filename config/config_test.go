package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("GYM_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")
	t.Setenv("GYM_MONGO_DATABASE", "gym_test")

	// 在无配置文件的目录中加载：仅依赖默认值与环境变量
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gym_test", cfg.Mongo.Database)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Auth.LegacyPlaintextEnabled)
	assert.Equal(t, 5*time.Second, cfg.Mongo.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("GYM_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: "file-secret-at-least-16"
  legacy_plaintext_enabled: true
mongo:
  uri: "mongodb://mongo:27017"
  database: "gym"
  timeout: "3s"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Auth.LegacyPlaintextEnabled)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, 3*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, 20, cfg.Report.DefaultTopLimit)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
		Mongo:  MongoConfig{URI: "mongodb://localhost", Database: "gym"},
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Auth.JWTSecret = "short"
	assert.Error(t, short.Validate())

	badPort := valid
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	noMongo := valid
	noMongo.Mongo.Database = ""
	assert.Error(t, noMongo.Validate())
}
