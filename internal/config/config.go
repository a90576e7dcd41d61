// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. GAUNTLET_WAIT_TIMEOUT.
const EnvPrefix = "GAUNTLET"

// Config holds the whole runner configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	AppCfg    AppConfig    `mapstructure:"app" yaml:"app"`
	DriverCfg DriverConfig `mapstructure:"driver" yaml:"driver"`
	WaitCfg   WaitConfig   `mapstructure:"wait" yaml:"wait"`
	ReportCfg ReportConfig `mapstructure:"report" yaml:"report"`
}

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) App() AppConfig       { return c.AppCfg }
func (c *Config) Driver() DriverConfig { return c.DriverCfg }
func (c *Config) Wait() WaitConfig     { return c.WaitCfg }
func (c *Config) Report() ReportConfig { return c.ReportCfg }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the color used for each log level on the console.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// AppConfig describes the application under test.
type AppConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DriverConfig selects and tunes the browser.
type DriverConfig struct {
	// Mode is "local" (launch Chrome) or "remote" (attach to RemoteURL).
	Mode      string `mapstructure:"mode" yaml:"mode"`
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	// CommandTimeout bounds every single protocol round trip.
	CommandTimeout   time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
	Headless         bool          `mapstructure:"headless" yaml:"headless"`
	Args             []string      `mapstructure:"args" yaml:"args"`
	ExecPath         string        `mapstructure:"exec_path" yaml:"exec_path"`
	DisablePDFViewer bool          `mapstructure:"disable_pdf_viewer" yaml:"disable_pdf_viewer"`
	// DownloadRoot receives one sub-directory per local session.
	DownloadRoot string `mapstructure:"download_root" yaml:"download_root"`
}

// WaitConfig sets the default bounds for the polling helpers.
type WaitConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Interval    time.Duration `mapstructure:"interval" yaml:"interval"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	IdleProbe   string        `mapstructure:"idle_probe" yaml:"idle_probe"`
}

// ReportConfig controls test output and failure artifacts.
type ReportConfig struct {
	// Dir is the parent of the per-build report directory.
	Dir       string `mapstructure:"dir" yaml:"dir"`
	BuildPath string `mapstructure:"build_path" yaml:"build_path"`
	JUnit     bool   `mapstructure:"junit" yaml:"junit"`
	Color     bool   `mapstructure:"color" yaml:"color"`
	// RescueTeardownErrors swallows failures from screenshot capture and browser shutdown.
	RescueTeardownErrors bool `mapstructure:"rescue_teardown_errors" yaml:"rescue_teardown_errors"`
}

// OutputDir is where screenshots and junit.xml for this build go.
func (r ReportConfig) OutputDir() string {
	name := "report"
	if r.BuildPath != "" {
		name += "_" + r.BuildPath
	}
	return filepath.Join(r.Dir, name)
}

// legacyEnv maps keys to the environment names older CI jobs still export.
var legacyEnv = map[string]string{
	"app.base_url":                  "BASE_URL",
	"driver.mode":                   "DRIVER",
	"driver.remote_url":             "SELENIUM_HUB_URL",
	"driver.disable_pdf_viewer":     "DISABLE_PDF_VIEWER",
	"report.build_path":             "BUILD_PATH",
	"report.rescue_teardown_errors": "RESCUE_EXCEPTION",
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every key so environment overrides resolve.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gauntlet")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- App --
	v.SetDefault("app.base_url", "https://qa-services.dev/")

	// -- Driver --
	v.SetDefault("driver.mode", "local")
	v.SetDefault("driver.remote_url", "")
	v.SetDefault("driver.command_timeout", "10m")
	v.SetDefault("driver.headless", true)
	v.SetDefault("driver.args", []string{})
	v.SetDefault("driver.exec_path", "")
	v.SetDefault("driver.disable_pdf_viewer", false)
	v.SetDefault("driver.download_root", "data/downloads")

	// -- Wait --
	v.SetDefault("wait.timeout", "10s")
	v.SetDefault("wait.interval", "500ms")
	v.SetDefault("wait.idle_timeout", "20s")
	v.SetDefault("wait.idle_probe", "")

	// -- Report --
	v.SetDefault("report.dir", "tmp")
	v.SetDefault("report.build_path", "default")
	v.SetDefault("report.junit", true)
	v.SetDefault("report.color", true)
	v.SetDefault("report.rescue_teardown_errors", false)
}

// BindEnv wires the GAUNTLET_ prefix and the legacy variable names into v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}

// NewConfigFromViper builds and validates a Config from v, applying environment overrides.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	BindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// normalize folds legacy spellings and expands home-relative paths.
func (c *Config) normalize() error {
	c.DriverCfg.Mode = strings.ToLower(strings.TrimSpace(c.DriverCfg.Mode))

	for _, p := range []*string{&c.DriverCfg.DownloadRoot, &c.DriverCfg.ExecPath, &c.ReportCfg.Dir, &c.LoggerCfg.LogFile} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the fields the runner cannot work without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.AppCfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("app.base_url must be an absolute url, got %q", c.AppCfg.BaseURL)
	}
	switch c.DriverCfg.Mode {
	case "local":
	case "remote":
		if c.DriverCfg.RemoteURL == "" {
			return fmt.Errorf("driver.remote_url is required when driver.mode is remote")
		}
	default:
		return fmt.Errorf("driver.mode must be local or remote, got %q", c.DriverCfg.Mode)
	}
	if c.WaitCfg.Timeout <= 0 {
		return fmt.Errorf("wait.timeout must be a positive duration")
	}
	if c.WaitCfg.Interval <= 0 {
		return fmt.Errorf("wait.interval must be a positive duration")
	}
	if c.WaitCfg.Interval > c.WaitCfg.Timeout {
		return fmt.Errorf("wait.interval must not exceed wait.timeout")
	}
	return nil
}
