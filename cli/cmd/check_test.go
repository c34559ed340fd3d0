/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPathsSortsAndDedupsGlobMatches(t *testing.T) {
	dir, err := os.MkdirTemp("", "cstyle-expand")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	for _, name := range []string{"zeta.c", "alpha.c", "mid.c"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("int main(void) {}\n"), 0644))
	}

	pattern := filepath.Join(dir, "*.c")

	paths, err := expandPaths([]string{pattern, pattern})
	assert.NoError(t, err)
	assert.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "alpha.c"), paths[0])
	assert.Equal(t, filepath.Join(dir, "mid.c"), paths[1])
	assert.Equal(t, filepath.Join(dir, "zeta.c"), paths[2])
}

func TestExpandPathsPassesThroughNonGlobArgUnchanged(t *testing.T) {
	paths, err := expandPaths([]string{"does-not-exist-no-glob-chars.c"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"does-not-exist-no-glob-chars.c"}, paths)
}

func TestExpandPathsRejectsMalformedGlob(t *testing.T) {
	_, err := expandPaths([]string{"["})
	assert.Error(t, err)
}
