package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml next to
// the executable.
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Insight InsightConfig `toml:"insight"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configures file locations.
type DataConfig struct {
	DataDir       string `toml:"data_dir"`
	SourceFile    string `toml:"source_file"`
	FormattedFile string `toml:"formatted_file"`
}

// InsightConfig configures the derived-metric windows. The risk window is
// inclusive on both ends and expressed in whole weeks without activity.
type InsightConfig struct {
	RiskWeekMin      int `toml:"risk_week_min"`
	RiskWeekMax      int `toml:"risk_week_max"`
	RecentWindowDays int `toml:"recent_window_days"`
}

// LoadConfigInfo carries metadata about how the config was loaded.
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20315,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:       "data",
			SourceFile:    "dados.xlsx",
			FormattedFile: "Arquivo_Formatado.xlsx",
		},
		Insight: InsightConfig{
			RiskWeekMin:      4,
			RiskWeekMax:      4,
			RecentWindowDays: 7,
		},
	}
}

// Normalize repairs out-of-range insight parameters instead of failing the
// boot: a misconfigured window falls back to the defaults.
func (c *AppConfig) Normalize() {
	def := DefaultConfig()
	if c.Insight.RiskWeekMin < 0 || c.Insight.RiskWeekMax < c.Insight.RiskWeekMin {
		c.Insight.RiskWeekMin = def.Insight.RiskWeekMin
		c.Insight.RiskWeekMax = def.Insight.RiskWeekMax
	}
	if c.Insight.RecentWindowDays <= 0 {
		c.Insight.RecentWindowDays = def.Insight.RecentWindowDays
	}
	if c.Server.Port <= 0 {
		c.Server.Port = def.Server.Port
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory holding the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml and returns load metadata alongside.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// Environment overrides, used by local runs against another export.
	if v := os.Getenv("CHURNRADAR_SOURCE_FILE"); v != "" {
		config.Data.SourceFile = v
	}
	if v := os.Getenv("CHURNRADAR_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	config.Normalize()

	return config, info, nil
}

// LoadConfig loads config.toml from the executable's directory.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory tree and returns its path.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath resolves a file inside the data directory.
func GetDataPath(config *AppConfig, subdir, filename string) string {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, _ := GetExeDir()
		if exeDir == "" {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}
	return filepath.Join(dataDir, subdir, filename)
}

// SourcePath resolves the configured default source spreadsheet. Relative
// paths are anchored at the executable's directory.
func SourcePath(config *AppConfig) string {
	if filepath.IsAbs(config.Data.SourceFile) {
		return config.Data.SourceFile
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.SourceFile)
}
