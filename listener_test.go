// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupID(t *testing.T) {
	t.Parallel()

	names := map[string]string{"manga": "1001"}
	lookup := func(name string) (string, error) {
		if id, ok := names[name]; ok {
			return id, nil
		}

		return "", errors.New("unknown")
	}

	id, err := lookupID("", lookup)
	require.NoError(t, err)
	assert.Equal(t, -1, id)

	id, err = lookupID("42", lookup)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	id, err = lookupID("manga", lookup)
	require.NoError(t, err)
	assert.Equal(t, 1001, id)

	_, err = lookupID("nobody", lookup)
	assert.Error(t, err)
}
