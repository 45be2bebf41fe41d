// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"MANGAFE_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"MANGAFE_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"MANGAFE_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"MANGAFE_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"MANGAFE_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"MANGAFE_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		// Path prefix the application is mounted under, e.g. "/manga-app/".
		BasePath string `env:"MANGAFE_BASE_PATH,overwrite" yaml:"basePath"`
	} `yaml:"basic"`

	Upstream struct {
		RawAPIURL   string        `env:"MANGAFE_API_URL,overwrite" yaml:"apiUrl"`
		APIURL      url.URL       `yaml:"-"`
		RawCoverURL string        `env:"MANGAFE_COVER_URL,overwrite" yaml:"coverUrl"`
		CoverURL    url.URL       `yaml:"-"`
		UserAgent   string        `env:"MANGAFE_USER_AGENT,overwrite" yaml:"userAgent"`
		Timeout     time.Duration `env:"MANGAFE_UPSTREAM_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"upstream"`

	Reader struct {
		// Translated languages requested from the chapter feed, in ISO 639-1 form.
		Languages       []string `env:"MANGAFE_LANGUAGES,overwrite" yaml:"languages"`
		ChapterPageSize int      `env:"MANGAFE_CHAPTER_PAGE_SIZE,overwrite" yaml:"chapterPageSize"`
		DataSaver       bool     `env:"MANGAFE_DATA_SAVER,overwrite" yaml:"dataSaver"`
	} `yaml:"reader"`

	Cache struct {
		Enabled  bool          `env:"MANGAFE_CACHE,overwrite" yaml:"enabled"`
		Size     int           `env:"MANGAFE_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL      time.Duration `env:"MANGAFE_CACHE_TTL,overwrite" yaml:"cacheTTL"`
		Compress bool          `env:"MANGAFE_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"MANGAFE_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"MANGAFE_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Instance struct {
		StartingTime string `yaml:"-"`
		InstanceID   string `yaml:"-"`
		RepoURL      string `env:"MANGAFE_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"MANGAFE_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"MANGAFE_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"MANGAFE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"MANGAFE_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled    bool     `env:"MANGAFE_LIMITER,overwrite" yaml:"enabled"`
		Rate       float64  `env:"MANGAFE_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst      int      `env:"MANGAFE_LIMITER_BURST,overwrite" yaml:"burst"`
		PassIPs    []string `env:"MANGAFE_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs   []string `env:"MANGAFE_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		IPv4Prefix int      `env:"MANGAFE_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int      `env:"MANGAFE_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
	} `yaml:"limiter"`

	Metrics struct {
		Enabled bool   `env:"MANGAFE_METRICS,overwrite" yaml:"enabled"`
		Path    string `env:"MANGAFE_METRICS_PATH,overwrite" yaml:"path"`
	} `yaml:"metrics"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"MANGAFE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Precedence: -config flag, MANGAFE_CONFIGFILE, then ./config.yaml with a ./config.yml fallback.
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("MANGAFE_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	return cfg.load(configFilePath, true)
}

// LoadConfigFile loads the configuration from the given YAML file and the environment,
// skipping command-line parsing and .env discovery.
func (cfg *ServerConfig) LoadConfigFile(configFilePath string) error {
	return cfg.load(configFilePath, false)
}

func (cfg *ServerConfig) load(configFilePath string, dotEnv bool) error {
	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.InstanceID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if dotEnv {
		if err := useDotEnv(); err != nil {
			return fmt.Errorf("error using .env file: %w", err)
		}
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if cfg.Basic.UnixSocket == "" && isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var skippedPathPrefixes = []string{"/healthz"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range skippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return cfg.Metrics.Enabled && path == cfg.Metrics.Path
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
