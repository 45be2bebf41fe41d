// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package audit records HTTP traffic in flight, both requests served to users and
requests made to the upstream catalog, as structured log events and Server-Timing metrics.
*/
package audit

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup if no config is set.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
