/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package linepass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krotik/cstyle/check"
	"github.com/krotik/cstyle/parser"
)

// stamp lexes and parses src, then runs the walker in report mode purely
// to stamp IndentLevel/LineBegin on every token - the prerequisite state
// linepass needs, same as the check command's real pipeline.
func stamp(t *testing.T, src string) *parser.Buffer {
	buf, err := parser.Lex("test.c", src)
	assert.NoError(t, err)
	m, err := parser.Parse("test.c", buf)
	assert.NoError(t, err)
	check.NewWalker("test.c", buf).Walk(m, false)
	return buf
}

func TestLinePassCleanSourceNoViolations(t *testing.T) {
	src := "int main(void)\n{\n\treturn 0;\n}\n"
	buf := stamp(t, src)

	violations := Run("test.c", buf, false)
	assert.Empty(t, violations)
}

func TestLinePassCleanSourceFixIsNoop(t *testing.T) {
	src := "int main(void)\n{\n\treturn 0;\n}\n"
	buf := stamp(t, src)

	violations := Run("test.c", buf, true)
	assert.Empty(t, violations)
	assert.Equal(t, src, buf.Text())
}

func TestLinePassSpacesInsteadOfTabsReport(t *testing.T) {
	src := "int main(void)\n{\n    return 0;\n}\n"
	buf := stamp(t, src)

	violations := Run("test.c", buf, false)

	var sawWrongTabs, sawNoSpaces bool
	for _, v := range violations {
		if v.Message == "Wrong indentation: found 0 tabs, should be 1 tabs" {
			sawWrongTabs = true
		}
		if v.Message == "Non-continuation line should not have any spaces for indentation (found 4)" {
			sawNoSpaces = true
		}
	}
	assert.True(t, sawWrongTabs)
	assert.True(t, sawNoSpaces)
}

func TestLinePassSpacesInsteadOfTabsFix(t *testing.T) {
	src := "int main(void)\n{\n    return 0;\n}\n"
	buf := stamp(t, src)

	Run("test.c", buf, true)
	assert.Equal(t, "int main(void)\n{\n\treturn 0;\n}\n", buf.Text())
}

func TestLinePassTrailingWhitespaceReport(t *testing.T) {
	src := "int x;   \n"
	buf := stamp(t, src)

	violations := Run("test.c", buf, false)

	var found bool
	for _, v := range violations {
		if v.Message == "Whitespace at end of line" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLinePassTrailingWhitespaceFix(t *testing.T) {
	src := "int x;   \n"
	buf := stamp(t, src)

	Run("test.c", buf, true)
	assert.Equal(t, "int x;\n", buf.Text())
}

func TestLinePassLineTooLongReportAndFixIsNoop(t *testing.T) {
	src := "int f(void)\n{\n\tx = 1111111111 + 2222222222 + 3333333333 + 4444444444 + 55555555555555555555555555;\n}\n"
	buf := stamp(t, src)

	violations := Run("test.c", buf, false)

	var found bool
	for _, v := range violations {
		if len(v.Message) >= len("Line too long") && v.Message[:len("Line too long")] == "Line too long" {
			found = true
		}
	}
	assert.True(t, found)

	before := buf.Text()
	Run("test.c", buf, true)
	assert.Equal(t, before, buf.Text(), "fix mode must never rewrite an over-length line")
}

func TestLinePassMixingTabsAndSpacesReport(t *testing.T) {
	src := "int main(void)\n{\n \treturn 0;\n}\n"
	buf := stamp(t, src)

	violations := Run("test.c", buf, false)

	var found bool
	for _, v := range violations {
		if v.Message == "mixing tabs and spaces" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLinePassReportModeNeverMutatesBuffer(t *testing.T) {
	src := "int main(void)\n{\n    return 0;   \n}\n"
	buf := stamp(t, src)

	Run("test.c", buf, false)
	assert.Equal(t, src, buf.Text())
}

func TestLinePassFixTwiceEqualsFixOnce(t *testing.T) {
	src := "int main(void)\n{\n    return 0;   \n}\n"
	buf := stamp(t, src)

	Run("test.c", buf, true)
	onceFixed := buf.Text()

	buf2 := stamp(t, onceFixed)
	Run("test.c", buf2, true)

	assert.Equal(t, onceFixed, buf2.Text())
}
