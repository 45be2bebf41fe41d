// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits HTTP requests per client network.

Clients are grouped by IPv4 or IPv6 prefix and share one token bucket per
network. Addresses on the pass list skip limiting and addresses on the block
list are always refused.
*/
package limiter
