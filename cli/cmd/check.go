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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/krotik/common/sortutil"
	"github.com/spf13/cobra"

	"github.com/krotik/cstyle/check"
	"github.com/krotik/cstyle/linepass"
)

var fixFlag bool

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check (or fix) the formatting of one or more source files; arguments may be glob patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("need at least one file to check")
		}

		paths, err := expandPaths(args)
		if err != nil {
			return err
		}

		violated := false

		for _, path := range paths {
			ok, err := checkFile(path, fixFlag)
			if err != nil {
				fmt.Println(fmt.Sprintf("%v: %v", path, err))
				violated = true
				continue
			}
			if !ok {
				violated = true
			}
		}

		if violated {
			return errors.New("one or more files have formatting violations")
		}

		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&fixFlag, "fix", false, "rewrite files in place instead of reporting violations")
	rootCmd.AddCommand(checkCmd)
}

/*
expandPaths expands every glob pattern in args into the matching file
paths, deduplicates, and sorts the result so a given set of arguments is
always checked in the same order regardless of the shell's or the
filesystem's own enumeration order.
*/
func expandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var keys []interface{}

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("%v: %v", arg, err)
		}
		if matches == nil {
			matches = []string{arg}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				keys = append(keys, m)
			}
		}
	}

	sortutil.InterfaceStrings(keys)

	paths := make([]string, len(keys))
	for i, k := range keys {
		paths[i] = k.(string)
	}

	return paths, nil
}

/*
checkFile runs the full lex -> parse -> walk -> line-pass pipeline on one
file. In report mode it prints every violation and returns false (without
error) if there was any. In fix mode it writes the repaired source back to
disk, but only if it differs from what was read.
*/
func checkFile(path string, fix bool) (bool, error) {
	data, buf, mod, err := loadAndParse(path)
	if err != nil {
		return false, err
	}

	walker := check.NewWalker(path, buf)
	violations := walker.Walk(mod, fix)
	lineViolations := linepass.Run(path, buf, fix)

	if fix {
		fixed := buf.Text()
		if fixed == string(data) {
			return true, nil
		}
		return true, writeFileAtomic(path, []byte(fixed))
	}

	for _, v := range violations {
		fmt.Println(v.String())
	}
	for _, v := range lineViolations {
		fmt.Println(v.String())
	}

	return len(violations) == 0 && len(lineViolations) == 0, nil
}
