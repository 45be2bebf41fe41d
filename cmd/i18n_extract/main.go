// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract collects the msgids passed to package i18n and writes
// a gettext template.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/mangafe/mangafe/core/audit"
)

func main() {
	audit.SetDefaultLogger()

	outPath := flag.String("o", "server/assets/po/mangafe.pot", "output file")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	refs, err := extract(wd, "./...")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract messages")
	}

	var b strings.Builder
	writePOT(&b, refs, detectVersion(), nowUTC())

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(*outPath, []byte(b.String()), 0o644); err != nil { // #nosec G306 -- the template is public
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write output file")
	}

	log.Info().
		Str("path", *outPath).
		Int("messages", len(refs)).
		Msg("Wrote message template")
}

// extract loads the packages matching patterns under dir, including their
// syntax and type information, and returns every msgid reference found.
func extract(dir string, patterns ...string) (map[key][]ref, error) {
	cfg := &packages.Config{Mode: packages.LoadAllSyntax, Dir: dir}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}

	if packages.PrintErrors(pkgs) > 0 {
		return nil, errPackageErrors
	}

	return extractRefs(pkgs, findProjectRoot(dir), findI18nPkgPaths(pkgs)), nil
}
