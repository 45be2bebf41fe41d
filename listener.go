// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
)

var (
	errChmodSocket = errors.New("failed to change unix socket permissions")
	errChownSocket = errors.New("failed to change unix socket ownership")
)

// listen opens the Unix domain socket when one is configured, or a TCP listener otherwise.
func listen(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig

	if socket := config.Global.Basic.UnixSocket; socket != "" {
		ln, err := lc.Listen(ctx, "unix", socket)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", socket, err)
		}

		if err := setupSocket(config.Global.Basic.UnixSocketUser, config.Global.Basic.UnixSocketGroup); err != nil {
			_ = ln.Close()

			return nil, err
		}

		log.Info().
			Str("address", socket).
			Msg("Listening on Unix domain socket")

		return ln, nil
	}

	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(config.Global.Basic.Host, config.Global.Basic.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener: %w", err)
	}

	addr := ln.Addr().String()

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = ln.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("url", fmt.Sprintf("http://localhost:%s%s", port, config.Global.Basic.BasePath)).
		Msg("Listening on address")

	return ln, nil
}

// setupSocket applies the configured ownership and permissions to the socket file.
func setupSocket(owner, group string) error {
	socket := config.Global.Basic.UnixSocket

	uid, err := lookupID(owner, func(name string) (string, error) {
		u, err := user.Lookup(name)
		if err != nil {
			return "", err
		}

		return u.Uid, nil
	})
	if err != nil {
		return fmt.Errorf("%w: user %q: %w", errChownSocket, owner, err)
	}

	gid, err := lookupID(group, func(name string) (string, error) {
		g, err := user.LookupGroup(name)
		if err != nil {
			return "", err
		}

		return g.Gid, nil
	})
	if err != nil {
		return fmt.Errorf("%w: group %q: %w", errChownSocket, group, err)
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(socket, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if err := os.Chmod(socket, config.Global.Basic.UnixSocketPermissions); err != nil {
		return fmt.Errorf("%w: %w", errChmodSocket, err)
	}

	return nil
}

// lookupID returns -1 for an empty value, the number for a numeric value,
// and otherwise resolves the name with lookup.
func lookupID(value string, lookup func(string) (string, error)) (int, error) {
	if value == "" {
		return -1, nil
	}

	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	raw, err := lookup(value)
	if err != nil {
		return -1, err
	}

	return strconv.Atoi(raw)
}
