// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidBasePath              = errors.New("Basic.BasePath must be an absolute path")
	errInvalidUpstreamTimeout       = errors.New("Upstream.Timeout must be positive")
	errNoReaderLanguages            = errors.New("Reader.Languages must list at least one language")
	errInvalidChapterPageSize       = errors.New("Reader.ChapterPageSize must be between 1 and 500")
	errInvalidCacheSize             = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidLimiterRate           = errors.New("Limiter.Rate and Limiter.Burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errInvalidMetricsPath           = errors.New("Metrics.Path must be an absolute path")
	errInvalidLogFormat             = errors.New("Log.Format must be either console or json")
)

const maxChapterPageSize = 500

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	basePath, err := normalizeBasePath(cfg.Basic.BasePath)
	if err != nil {
		return err
	}

	cfg.Basic.BasePath = basePath

	apiURL, err := utils.ParseURL(cfg.Upstream.RawAPIURL, "upstream API")
	if err != nil {
		return fmt.Errorf("invalid upstream API URL: %w", err)
	}

	cfg.Upstream.APIURL = *apiURL

	coverURL, err := utils.ParseURL(cfg.Upstream.RawCoverURL, "cover")
	if err != nil {
		return fmt.Errorf("invalid cover URL: %w", err)
	}

	cfg.Upstream.CoverURL = *coverURL

	if cfg.Upstream.Timeout <= 0 {
		return errInvalidUpstreamTimeout
	}

	if len(cfg.Reader.Languages) == 0 {
		return errNoReaderLanguages
	}

	if cfg.Reader.ChapterPageSize < 1 || cfg.Reader.ChapterPageSize > maxChapterPageSize {
		return errInvalidChapterPageSize
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errInvalidLogFormat
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errInvalidMetricsPath
	}

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseFileMode(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if name := cfg.Basic.UnixSocketUser; name != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(name) {
			lookup = user.LookupId
		}

		if _, err := lookup(name); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if name := cfg.Basic.UnixSocketGroup; name != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(name) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(name); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseFileMode accepts octal ("660", "0660") or symbolic ("rw-rw----") permissions.
func parseFileMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case fileModeOctalRegexp.MatchString(raw):
		mode, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(mode), nil
	case fileModeStringRegexp.MatchString(raw):
		const bitsInMode = 8

		mode := os.FileMode(0)

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (bitsInMode - i)
			}
		}

		return mode, nil
	default:
		return 0, errUnixSocketInvalidPermissions
	}
}

// normalizeBasePath returns p with exactly one leading and one trailing slash.
func normalizeBasePath(p string) (string, error) {
	if p == "" {
		return "/", nil
	}

	if !strings.HasPrefix(p, "/") || strings.Contains(p, "//") {
		return "", fmt.Errorf("%w: %q", errInvalidBasePath, p)
	}

	if !strings.HasSuffix(p, "/") {
		p += "/"
	}

	return p, nil
}
