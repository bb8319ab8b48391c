package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	viper.Reset()

	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "truthfinder-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
	viper.Reset()
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	suite.Equal("info", cfg.App.LogLevel)
	suite.Equal(15*time.Second, cfg.Generation.Timeout)
	suite.Equal("gemini-2.5-flash", cfg.Generation.Model)
	suite.Equal(50, cfg.Orchestrator.HistoryFetchLimit)
	suite.Equal(20, cfg.Orchestrator.HistoryFoldLimit)
	suite.Equal(10, cfg.Orchestrator.LookupMaxResults)
	suite.Equal(60*time.Second, cfg.Server.RequestTimeout)
	suite.True(cfg.Lookup.CacheEnabled)
}

func (suite *ConfigTestSuite) TestLoadConfigFromFile() {
	configYAML := `
app:
  log_level: debug
generation:
  api_key: test-key
  timeout: 5s
orchestrator:
  history_fetch_limit: 10
  history_fold_limit: 30
server:
  listen_addr: ":9000"
`
	path := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(path, []byte(configYAML), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(suite.T(), err)

	suite.Equal("debug", cfg.App.LogLevel)
	suite.Equal("test-key", cfg.Generation.APIKey)
	suite.Equal(5*time.Second, cfg.Generation.Timeout)
	suite.Equal(":9000", cfg.Server.ListenAddr)
	// fold limit is clamped to the fetch limit
	suite.Equal(10, cfg.Orchestrator.HistoryFoldLimit)
}

func (suite *ConfigTestSuite) TestLoadConfigRejectsBadTimeout() {
	configYAML := `
generation:
  timeout: -1s
`
	path := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(path, []byte(configYAML), 0o644))

	_, err := LoadConfig(path)
	suite.Error(err)
}
