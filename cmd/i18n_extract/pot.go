// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// writePOT writes refs as a gettext template sorted by msgid, with the
// source references of each entry deduplicated.
func writePOT(w io.Writer, refs map[key][]ref, version string, created time.Time) {
	writeHeader(w, version, created)

	keys := make([]key, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(strings.Compare(a.id, b.id), strings.Compare(a.plural, b.plural))
	})

	for i, k := range keys {
		rs := slices.Clone(refs[k])
		slices.SortFunc(rs, func(a, b ref) int {
			return cmp.Or(strings.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
		})

		fmt.Fprint(w, "#:")

		for _, r := range slices.Compact(rs) {
			fmt.Fprintf(w, " %s:%d", r.file, r.line)
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "msgid %q\n", k.id)

		if k.plural != "" {
			fmt.Fprintf(w, "msgid_plural %q\n", k.plural)
			fmt.Fprintln(w, `msgstr[0] ""`)
			fmt.Fprintln(w, `msgstr[1] ""`)
		} else {
			fmt.Fprintln(w, `msgstr ""`)
		}

		if i < len(keys)-1 {
			fmt.Fprintln(w)
		}
	}
}

func writeHeader(w io.Writer, version string, created time.Time) {
	fmt.Fprintln(w, `msgid ""`)
	fmt.Fprintln(w, `msgstr ""`)
	fmt.Fprintf(w, "\"Project-Id-Version: MangaFE %s\\n\"\n", version)
	fmt.Fprintf(w, "\"POT-Creation-Date: %s\\n\"\n", created.Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(w, `"Language: en\n"`)
	fmt.Fprintln(w, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(w, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(w, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(w, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)
	fmt.Fprintln(w)
}

// detectVersion resolves a version string using git describe, or "dev"
// outside a git checkout.
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot returns the git toplevel directory, else the nearest
// directory containing go.mod, else wd.
func findProjectRoot(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	if out, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	for dir := filepath.Clean(wd); ; dir = filepath.Dir(dir) {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}
