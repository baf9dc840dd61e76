// Package configlib loads the optional YAML configuration of the commands
package configlib

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"goTopWords/exportlib"
	"goTopWords/poslib"
	"goTopWords/ranklib"
	"goTopWords/stringlib"
)

// DefaultURL is the Google 10,000 English words list (USA, no swears)
const DefaultURL = "https://raw.githubusercontent.com/first20hours/google-10000-english/master/google-10000-english-usa-no-swears.txt"

// Config holds every setting of a run
type Config struct {
	URL         string
	Limit       int
	OutputFile  string
	PreviewRows int

	Tagset    string
	DataDir   string
	Resources []string

	DownloadTimeout time.Duration
	ProxyHost       string
	ProxyUser       string
	ProxyPass       string
	CacheFile       string
	CacheTTL        time.Duration
	HTMLToText      bool

	LogLevel string
	LogFile  string
	Debug    bool
}

// Load reads <name>.yaml (or any format viper knows) from the given
// directories, the working directory when none is given. A missing file
// leaves every key at its default.
func Load(name, defaultOutput string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v, defaultOutput)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	cfg := &Config{
		URL:             stringlib.RmNewLines(v.GetString("url")),
		Limit:           v.GetInt("limit"),
		OutputFile:      v.GetString("output"),
		PreviewRows:     v.GetInt("preview"),
		Tagset:          v.GetString("tagset"),
		DataDir:         v.GetString("dataDir"),
		Resources:       v.GetStringSlice("resources"),
		DownloadTimeout: time.Duration(v.GetInt("downloadTimeout")) * time.Second,
		ProxyHost:       v.GetString("proxyHost"),
		ProxyUser:       v.GetString("proxyUser"),
		ProxyPass:       v.GetString("proxyPass"),
		CacheFile:       v.GetString("cacheFile"),
		CacheTTL:        time.Duration(v.GetInt("cacheTTL")) * time.Minute,
		HTMLToText:      v.GetBool("htmlToText"),
		LogLevel:        v.GetString("logLevel"),
		LogFile:         v.GetString("logFile"),
		Debug:           v.GetBool("debug"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaultOutput string) {
	v.SetDefault("url", DefaultURL)
	v.SetDefault("limit", ranklib.DefaultLimit)
	v.SetDefault("output", defaultOutput)
	v.SetDefault("preview", exportlib.DefaultPreviewRows)
	v.SetDefault("tagset", poslib.TagsetUniversal)
	v.SetDefault("dataDir", defaultDataDir())
	v.SetDefault("resources", []string{"averaged_perceptron_tagger", "universal_tagset"})
	v.SetDefault("downloadTimeout", 0)
	v.SetDefault("proxyHost", "")
	v.SetDefault("proxyUser", "")
	v.SetDefault("proxyPass", "")
	v.SetDefault("cacheFile", "")
	v.SetDefault("cacheTTL", 24*60)
	v.SetDefault("htmlToText", false)
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("debug", false)
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, "topwords_data")
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.ProxyPass != "" {
		c.ProxyPass = "***"
	}
	return c
}

// Validate rejects settings no run could use
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output is required")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	if c.DownloadTimeout < 0 {
		return fmt.Errorf("downloadTimeout must not be negative")
	}
	return nil
}
