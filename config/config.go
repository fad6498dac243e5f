package config

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	Demo     bool   `yaml:"demo"` // seed the demo catalog on first start
}

// WebConfig admin api configuration
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig Database configuration
// Type is either "sqlite" (Name is the database file, relative to workdir/data)
// or "postgres".
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system"`
	Web      WebConfig `yaml:"web"`
	Database DBConfig  `yaml:"database"`
	Logger   LogConfig `yaml:"logger"`
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetMetricsDir() string {
	return path.Join(c.System.Workdir, "data", "metrics")
}

// InitDirs creates the data, log and metrics directories under the workdir
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(c.GetDataDir(), 0o700)
	_ = os.MkdirAll(c.GetLogDir(), 0o700)
	_ = os.MkdirAll(c.GetMetricsDir(), 0o700)
}

// DefaultAppConfig returns a configuration that runs a local SQLite ledger
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ZincStore",
		Location: "Local",
		Workdir:  "/var/zincstore",
		Debug:    false,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1980,
	},
	Database: DBConfig{
		Type:     "sqlite",
		Name:     "store_inventory.db",
		MaxConn:  1,
		IdleConn: 1,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/zincstore/zincstore.log",
	},
}

// LoadConfig reads the yaml file at cfile (if any), applies ZINCSTORE_* environment
// overrides and creates the working directories.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile == "" {
		cfile = "zincstore.yml"
	}
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("ZINCSTORE_APPID", &cfg.System.Appid)
	setEnvValue("ZINCSTORE_LOCATION", &cfg.System.Location)
	setEnvValue("ZINCSTORE_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("ZINCSTORE_DEBUG", &cfg.System.Debug)
	setEnvBoolValue("ZINCSTORE_DEMO", &cfg.System.Demo)

	setEnvValue("ZINCSTORE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("ZINCSTORE_WEB_PORT", &cfg.Web.Port)

	setEnvValue("ZINCSTORE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("ZINCSTORE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("ZINCSTORE_DB_PORT", &cfg.Database.Port)
	setEnvValue("ZINCSTORE_DB_NAME", &cfg.Database.Name)
	setEnvValue("ZINCSTORE_DB_USER", &cfg.Database.User)
	setEnvValue("ZINCSTORE_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("ZINCSTORE_DB_MAX_CONN", &cfg.Database.MaxConn)
	setEnvIntValue("ZINCSTORE_DB_IDLE_CONN", &cfg.Database.IdleConn)
	setEnvBoolValue("ZINCSTORE_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("ZINCSTORE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvValue("ZINCSTORE_LOGGER_FILENAME", &cfg.Logger.Filename)
	setEnvBoolValue("ZINCSTORE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	cfg.Database.Type = strings.ToLower(strings.TrimSpace(cfg.Database.Type))
	cfg.InitDirs()
	return cfg
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}
