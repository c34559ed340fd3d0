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
	"fmt"

	"github.com/krotik/cstyle/parser"
)

/*
Violation is one reported whitespace or layout problem, positioned at the
offending token.
*/
type Violation struct {
	Source  string
	Pos     parser.Pos
	Message string
}

/*
String formats a Violation as "file:line:col: message".
*/
func (v *Violation) String() string {
	return fmt.Sprintf("%v:%v: %v", v.Source, v.Pos, v.Message)
}

func isWspaceTok(tok *parser.Token) bool {
	return tok != nil && parser.IsWspace(tok.Kind)
}

/*
violation builds a Violation at tok's starting position, tagged with the
walker's source name.
*/
func violation(source string, tok *parser.Token, msg string) *Violation {
	return &Violation{Source: source, Pos: tok.Begin, Message: msg}
}

// Primitives
// ==========
//
// Every primitive stamps tok.IndentLevel from the current scope before
// doing anything else - this happens for every significant token the
// walker visits, violation or not. Each primitive either reports (report
// mode) or mutates the buffer (fix mode) for the same violation, never
// both.

/*
Any stamps the indent level and never reports or fixes anything. It marks
a token the walker must visit (for indent-level bookkeeping) but imposes
no adjacency constraint.
*/
func (s *Scope) Any(buf *parser.Buffer, tok *parser.Token) *Violation {
	tok.IndentLevel = s.IndentLevel
	return nil
}

/*
LineBegin requires tok to be the first non-whitespace token of its line.
*/
func (s *Scope) LineBegin(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel
	tok.LineBegin = true

	if parser.IsLineBegin(tok) {
		return nil
	}

	if !s.Fix {
		return violation(source, tok, msg)
	}

	parser.RemoveWsBefore(buf, tok)
	buf.InsertBefore(tok, parser.Newline, "\n")
	for i := 0; i < s.IndentLevel; i++ {
		buf.InsertBefore(tok, parser.Tab, "\t")
	}

	return nil
}

/*
NoWSBefore requires no whitespace immediately before tok.
*/
func (s *Scope) NoWSBefore(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel

	if !isWspaceTok(tok.Prev()) {
		return nil
	}

	if !s.Fix {
		return violation(source, tok, msg)
	}

	parser.RemoveWsBefore(buf, tok)
	return nil
}

/*
NoWSAfter requires no whitespace immediately after tok.
*/
func (s *Scope) NoWSAfter(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel

	if !isWspaceTok(tok.Next()) {
		return nil
	}

	if !s.Fix {
		return violation(source, tok, msg)
	}

	parser.RemoveWsAfter(buf, tok)
	return nil
}

/*
NoSpaceBreakAfter requires no horizontal whitespace after tok but allows a
single following newline to stand.
*/
func (s *Scope) NoSpaceBreakAfter(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel

	n := tok.Next()
	if !isWspaceTok(n) || n.Kind == parser.Newline {
		return nil
	}

	if !s.Fix {
		return violation(source, tok, msg)
	}

	cur := tok.Next()
	for cur != nil && parser.IsWspace(cur.Kind) && cur.Kind != parser.Newline {
		next := cur.Next()
		buf.Remove(cur)
		cur = next
	}

	return nil
}

/*
BreakSpaceBefore requires some whitespace immediately before tok.
*/
func (s *Scope) BreakSpaceBefore(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel

	if isWspaceTok(tok.Prev()) {
		return nil
	}

	if !s.Fix {
		return violation(source, tok, msg)
	}

	buf.InsertBefore(tok, parser.Space, " ")
	return nil
}

/*
BreakSpaceAfter requires some whitespace immediately after tok.
*/
func (s *Scope) BreakSpaceAfter(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel

	if isWspaceTok(tok.Next()) {
		return nil
	}

	if !s.Fix {
		return violation(source, tok, msg)
	}

	buf.InsertAfter(tok, parser.Space, " ")
	return nil
}

/*
NBSpaceBefore requires non-breaking whitespace immediately before tok: some
whitespace must precede it, and tok must not be at the start of a line (a
line-begin token is indented by tabs, not a leading space). A run of
several spaces on the same line is accepted as is; a violation is repaired
by replacing all whitespace before tok with a single space.
*/
func (s *Scope) NBSpaceBefore(source string, buf *parser.Buffer, tok *parser.Token, msg string) *Violation {
	tok.IndentLevel = s.IndentLevel

	if !isWspaceTok(tok.Prev()) || parser.IsLineBegin(tok) {
		if !s.Fix {
			return violation(source, tok, msg)
		}
		parser.RemoveWsBefore(buf, tok)
		buf.InsertBefore(tok, parser.Space, " ")
	}

	return nil
}
