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
	"io/ioutil"
	"os"

	"github.com/krotik/common/fileutil"

	"github.com/krotik/cstyle/parser"
	"github.com/krotik/cstyle/util"
)

/*
loadAndParse runs the lex -> parse half of the pipeline for one file,
logging each stage at debug level.
*/
func loadAndParse(path string) ([]byte, *parser.Buffer, *parser.Module, error) {
	if ok, _ := fileutil.PathExists(path); !ok {
		return nil, nil, nil, util.NewError(path, util.ErrIO, "file does not exist", 0, 0)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, nil, err
	}

	log.LogDebug("lexing ", path)
	buf, err := parser.Lex(path, string(data))
	if err != nil {
		return data, buf, nil, err
	}

	log.LogDebug("parsing ", path)
	mod, err := parser.Parse(path, buf)
	if err != nil {
		return data, buf, mod, err
	}

	return data, buf, mod, nil
}

/*
writeFileAtomic rewrites path with data, preserving its original file
mode, via a temp-file-plus-rename so a crash mid-write never leaves a
truncated file behind.
*/
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode()
	}

	tmp := path + ".cstyle-tmp"
	if err := ioutil.WriteFile(tmp, data, mode); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
