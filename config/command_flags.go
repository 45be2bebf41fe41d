// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// parseCommandLineArgs defines and parses flags, returning the value of the "config" flag.
func parseCommandLineArgs() string {
	configFilePath := "./config.yaml"

	if f := flag.Lookup("config"); f == nil {
		flag.StringVar(&configFilePath, "config", configFilePath, "Path to a MangaFE configuration file in YAML format.")
	} else {
		configFilePath = f.Value.String()
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if f := flag.Lookup("config"); f != nil {
		configFilePath = f.Value.String()
	}

	return configFilePath
}
