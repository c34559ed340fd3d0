/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package check

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krotik/cstyle/parser"
)

func buildPair(kw, ws, id parser.Kind, kwText, wsText, idText string) (*parser.Buffer, *parser.Token, *parser.Token) {
	b := parser.NewBuffer()
	t1 := b.Append(kw, kwText, parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 1 + len(kwText)})
	if wsText != "" {
		b.Append(ws, wsText, t1.End, parser.Pos{Line: 1, Col: t1.End.Col + len(wsText)})
	}
	t2 := b.Append(id, idText, parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 1 + len(idText)})
	return b, t1, t2
}

func TestNoWSBeforeReport(t *testing.T) {
	b, _, id := buildPair(parser.Keyword, parser.Space, parser.Identifier, "int", " ", "x")

	s := NewScope(false)
	v := s.NoWSBefore("f.c", b, id, "no space expected")

	assert.NotNil(t, v)
	assert.Equal(t, "no space expected", v.Message)
	assert.Equal(t, "int x", b.Text())
}

func TestNoWSBeforeFix(t *testing.T) {
	b, _, id := buildPair(parser.Keyword, parser.Space, parser.Identifier, "int", " ", "x")

	s := NewScope(true)
	v := s.NoWSBefore("f.c", b, id, "no space expected")

	assert.Nil(t, v)
	assert.Equal(t, "intx", b.Text())
	assert.False(t, parser.IsWspace(id.Prev().Kind))
}

func TestBreakSpaceBeforeFix(t *testing.T) {
	b, kw, id := buildPair(parser.Keyword, parser.Space, parser.Identifier, "int", "", "x")

	s := NewScope(true)
	v := s.BreakSpaceBefore("f.c", b, id, "space expected")

	assert.Nil(t, v)
	assert.Equal(t, "int x", b.Text())
	assert.True(t, parser.IsWspace(id.Prev().Kind))
	assert.Equal(t, kw, id.Prev().Prev())
}

func TestBreakSpaceBeforeReport(t *testing.T) {
	b, _, id := buildPair(parser.Keyword, parser.Space, parser.Identifier, "int", "", "x")

	s := NewScope(false)
	v := s.BreakSpaceBefore("f.c", b, id, "space expected")

	assert.NotNil(t, v)
	assert.Equal(t, "intx", b.Text())
}

func TestLineBeginFix(t *testing.T) {
	b := parser.NewBuffer()
	b.Append(parser.Punctuator, ";", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 2})
	ret := b.Append(parser.Keyword, "return", parser.Pos{Line: 1, Col: 2}, parser.Pos{Line: 1, Col: 8})

	s := &Scope{IndentLevel: 2, Fix: true}
	v := s.LineBegin("f.c", b, ret, "expected new line")

	assert.Nil(t, v)
	assert.Equal(t, ";\n\t\treturn", b.Text())
	assert.Equal(t, 2, ret.IndentLevel)
	assert.True(t, ret.LineBegin)
}

func TestLineBeginNoReportWhenAlreadyAtLineStart(t *testing.T) {
	b := parser.NewBuffer()
	b.Append(parser.Newline, "\n", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 2, Col: 1})
	ret := b.Append(parser.Keyword, "return", parser.Pos{Line: 2, Col: 1}, parser.Pos{Line: 2, Col: 7})

	s := NewScope(false)
	v := s.LineBegin("f.c", b, ret, "expected new line")

	assert.Nil(t, v)
}

func TestNBSpaceBeforeAcceptsMultipleSpaces(t *testing.T) {
	b := parser.NewBuffer()
	kw := b.Append(parser.Keyword, "else", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 5})
	b.Append(parser.Space, "   ", kw.End, parser.Pos{Line: 1, Col: 8})
	brace := b.Append(parser.Punctuator, "{", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 2})

	s := NewScope(true)
	v := s.NBSpaceBefore("f.c", b, brace, "single space expected")

	assert.Nil(t, v)
	assert.Equal(t, "else   {", b.Text())
}

func TestNoSpaceBreakAfterAllowsTrailingNewline(t *testing.T) {
	b := parser.NewBuffer()
	semi := b.Append(parser.Punctuator, ";", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 2})
	b.Append(parser.Newline, "\n", semi.End, parser.Pos{Line: 2, Col: 1})

	s := NewScope(false)
	v := s.NoSpaceBreakAfter("f.c", b, semi, "no trailing space")

	assert.Nil(t, v)
}

func TestNoSpaceBreakAfterFixRemovesTrailingSpace(t *testing.T) {
	b := parser.NewBuffer()
	semi := b.Append(parser.Punctuator, ";", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 2})
	b.Append(parser.Space, "   ", semi.End, parser.Pos{Line: 1, Col: 5})
	b.Append(parser.Newline, "\n", parser.Pos{Line: 1, Col: 5}, parser.Pos{Line: 2, Col: 1})

	s := NewScope(true)
	v := s.NoSpaceBreakAfter("f.c", b, semi, "no trailing space")

	assert.Nil(t, v)
	assert.Equal(t, ";\n", b.Text())
}

func TestAnyStampsIndentLevelOnly(t *testing.T) {
	b := parser.NewBuffer()
	tok := b.Append(parser.Identifier, "x", parser.Pos{Line: 1, Col: 1}, parser.Pos{Line: 1, Col: 2})

	s := &Scope{IndentLevel: 3, Fix: false}
	v := s.Any(b, tok)

	assert.Nil(t, v)
	assert.Equal(t, 3, tok.IndentLevel)
}
