package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the scrape orchestration system
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
	Facade    FacadeConfig    `mapstructure:"facade"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and polling settings
type ServerConfig struct {
	Address string `mapstructure:"address"`

	// Polling windows for the search endpoint. Email searches scan more
	// rows, so they get the longer bound.
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	SearchWait      time.Duration `mapstructure:"search_wait"`
	SearchWaitEmail time.Duration `mapstructure:"search_wait_email"`
	CollabPoll      time.Duration `mapstructure:"collab_poll"`
	CollabWait      time.Duration `mapstructure:"collab_wait"`
	WorkerBinary    string        `mapstructure:"worker_binary"`
	MetricsEnabled  bool          `mapstructure:"metrics_enabled"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("server.address is required")
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("server.poll_interval must be > 0")
	}
	if s.SearchWait <= 0 || s.SearchWaitEmail <= 0 {
		return fmt.Errorf("server.search_wait and server.search_wait_email must be > 0")
	}
	if s.CollabPoll <= 0 || s.CollabWait <= 0 {
		return fmt.Errorf("server.collab_poll and server.collab_wait must be > 0")
	}
	return nil
}

// DirectoryConfig contains settings for the academic directory site
type DirectoryConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	UserAgent  string        `mapstructure:"user_agent"`
	NavTimeout time.Duration `mapstructure:"nav_timeout"`
	Headless   bool          `mapstructure:"headless"`
	NoSandbox  bool          `mapstructure:"no_sandbox"`
}

func (d DirectoryConfig) Validate() error {
	if strings.TrimSpace(d.BaseURL) == "" {
		return fmt.Errorf("directory.base_url is required")
	}
	if d.NavTimeout <= 0 {
		return fmt.Errorf("directory.nav_timeout must be > 0")
	}
	return nil
}

// ScraperConfig contains row caps and pacing for the scrape worker
type ScraperConfig struct {
	MaxProfiles      int           `mapstructure:"max_profiles"`
	MaxEmailScan     int           `mapstructure:"max_email_scan"`
	MaxPages         int           `mapstructure:"max_pages"`
	CollabPause      time.Duration `mapstructure:"collab_pause"`
	DefaultPhotoPath string        `mapstructure:"default_photo_path"`
}

func (s ScraperConfig) Validate() error {
	if s.MaxProfiles <= 0 {
		return fmt.Errorf("scraper.max_profiles must be > 0")
	}
	if s.MaxEmailScan <= 0 {
		return fmt.Errorf("scraper.max_email_scan must be > 0")
	}
	if s.MaxPages <= 0 {
		return fmt.Errorf("scraper.max_pages must be > 0")
	}
	return nil
}

// SessionsConfig contains the session store location
type SessionsConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

func (s SessionsConfig) Validate() error {
	if strings.TrimSpace(s.DataDir) == "" {
		return fmt.Errorf("sessions.data_dir is required")
	}
	return nil
}

// FacadeConfig contains client-side timeouts and retry policy
type FacadeConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CollabTimeout time.Duration `mapstructure:"collab_timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

func (f FacadeConfig) Validate() error {
	if strings.TrimSpace(f.BaseURL) == "" {
		return fmt.Errorf("facade.base_url is required")
	}
	if f.MaxRetries <= 0 {
		return fmt.Errorf("facade.max_retries must be > 0")
	}
	return nil
}

// CatalogConfig points at the field/specialty registry override file
type CatalogConfig struct {
	FieldsFile string `mapstructure:"fields_file"`
}

// LoadConfig loads config from file, with env and defaults layered under it
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":3002")
	viper.SetDefault("server.poll_interval", 500*time.Millisecond)
	viper.SetDefault("server.search_wait", 60*time.Second)
	viper.SetDefault("server.search_wait_email", 120*time.Second)
	viper.SetDefault("server.collab_poll", 2*time.Second)
	viper.SetDefault("server.collab_wait", 300*time.Second)
	viper.SetDefault("server.metrics_enabled", true)
	viper.SetDefault("directory.base_url", "https://akademik.yok.gov.tr/")
	viper.SetDefault("directory.user_agent", "Mozilla/5.0")
	viper.SetDefault("directory.nav_timeout", 10*time.Second)
	viper.SetDefault("directory.headless", true)
	viper.SetDefault("directory.no_sandbox", true)
	viper.SetDefault("scraper.max_profiles", 20)
	viper.SetDefault("scraper.max_email_scan", 100)
	viper.SetDefault("scraper.max_pages", 50)
	viper.SetDefault("scraper.collab_pause", 500*time.Millisecond)
	viper.SetDefault("scraper.default_photo_path", "/default_photo.jpg")
	viper.SetDefault("sessions.data_dir", "./data/collaborator-sessions")
	viper.SetDefault("facade.base_url", "http://localhost:3002")
	viper.SetDefault("facade.timeout", 120*time.Second)
	viper.SetDefault("facade.collab_timeout", 180*time.Second)
	viper.SetDefault("facade.max_retries", 3)
	viper.SetDefault("facade.retry_delay", 2*time.Second)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("AKADEMIKNET")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	// A missing config file is fine: defaults plus env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Server.Validate(); err != nil {
		panic(err)
	}
	if err := config.Directory.Validate(); err != nil {
		panic(err)
	}
	if err := config.Scraper.Validate(); err != nil {
		panic(err)
	}
	if err := config.Sessions.Validate(); err != nil {
		panic(err)
	}
	if err := config.Facade.Validate(); err != nil {
		panic(err)
	}
	return &config
}
