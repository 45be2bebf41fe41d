// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("instance_id", cfg.Instance.InstanceID).
		Msg("Starting MangaFE")

	// The limiter lists may hold addresses of real clients.
	printableConfig := *cfg
	printableConfig.Limiter.PassIPs = redactList(cfg.Limiter.PassIPs)
	printableConfig.Limiter.BlockIPs = redactList(cfg.Limiter.BlockIPs)

	configYAML, err := printableConfig.ToYAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}

func redactList(list []string) []string {
	if len(list) == 0 {
		return list
	}

	return []string{fmt.Sprintf("[%d entries redacted]", len(list))}
}
