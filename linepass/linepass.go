/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package linepass implements the final, sequential scan over the token
buffer that verifies or repairs leading indentation, trailing whitespace
and line length - the per-line checks that only make sense once the AST
walk has stamped every significant token with its indent level and
line-begin flag.
*/
package linepass

import (
	"fmt"

	"github.com/krotik/cstyle/config"
	"github.com/krotik/cstyle/parser"
)

/*
Violation is one reported line-level problem.
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

/*
Run scans buf one logical line at a time, checking/repairing leading
indentation, trailing whitespace and line length. fix selects repair mode
over report mode; the two are mutually exclusive per line, same as the
check package's primitives.
*/
func Run(source string, buf *parser.Buffer, fix bool) []*Violation {
	p := &pass{source: source, buf: buf, fix: fix}

	for tok := buf.First(); tok != nil; {
		tok = p.line(tok)
	}

	return p.violations
}

type pass struct {
	source     string
	buf        *parser.Buffer
	fix        bool
	violations []*Violation
}

func (p *pass) report(tok *parser.Token, msg string) {
	if !p.fix {
		p.violations = append(p.violations, &Violation{Source: p.source, Pos: tok.Begin, Message: msg})
	}
}

/*
line processes one logical line starting at lineStart and returns the
token the next line begins at (nil at end of buffer).
*/
func (p *pass) line(lineStart *parser.Token) *parser.Token {
	tabs, spaces, extra := 0, 0, 0
	cur := lineStart

	for cur != nil && cur.Kind == parser.Tab {
		tabs++
		cur = cur.Next()
	}
	for cur != nil && cur.Kind == parser.Space {
		spaces++
		cur = cur.Next()
	}
	for cur != nil && parser.IsHorizontalWspace(cur.Kind) {
		extra++
		cur = cur.Next()
	}

	first := cur
	lineEnd := p.findLineEnd(lineStart)

	if first == nil || first.Kind == parser.Newline || first.Kind == parser.EOF {
		p.checkTrailing(lineStart, lineEnd)
		return nextLineStart(lineEnd)
	}

	if first.Kind == parser.Preprocessor {
		first.LineBegin = true
	}

	if first.Kind == parser.Comment || first.Kind == parser.DocComment {
		p.checkTrailing(lineStart, lineEnd)
		return nextLineStart(lineEnd)
	}

	violated := false

	if extra != 0 {
		p.report(first, "mixing tabs and spaces")
		violated = true
	}
	if first.LineBegin {
		if spaces != 0 {
			p.report(first, "Non-continuation line should not have any spaces for indentation (found "+itoa(spaces)+")")
			violated = true
		}
	} else {
		if spaces != config.Int(config.ContinuationSpaces) {
			p.report(first, "Continuation line should be indented with "+itoa(config.Int(config.ContinuationSpaces))+" spaces (found "+itoa(spaces)+")")
			violated = true
		}
	}
	if tabs != first.IndentLevel {
		p.report(first, "Wrong indentation: found "+itoa(tabs)+" tabs, should be "+itoa(first.IndentLevel)+" tabs")
		violated = true
	}

	if violated && p.fix {
		parser.LineRemoveWsBefore(p.buf, first)
		for i := 0; i < first.IndentLevel; i++ {
			p.buf.InsertBefore(first, parser.Tab, "\t")
		}
		if !first.LineBegin {
			for i := 0; i < config.Int(config.ContinuationSpaces); i++ {
				p.buf.InsertBefore(first, parser.Space, " ")
			}
		}
	}

	p.checkTrailing(lineStart, lineEnd)
	p.checkLength(first, lineEnd)

	return nextLineStart(lineEnd)
}

/*
findLineEnd returns the Newline token terminating the line containing
start, or the last token of the buffer if the line is not newline
terminated (end of file).
*/
func (p *pass) findLineEnd(start *parser.Token) *parser.Token {
	cur := start
	var last *parser.Token
	for cur != nil {
		if cur.Kind == parser.Newline {
			return cur
		}
		last = cur
		cur = cur.Next()
	}
	return last
}

func nextLineStart(lineEnd *parser.Token) *parser.Token {
	if lineEnd == nil {
		return nil
	}
	return lineEnd.Next()
}

/*
checkTrailing reports or fixes whitespace between the last non-whitespace
token of the line and its terminating newline.
*/
func (p *pass) checkTrailing(lineStart, lineEnd *parser.Token) {
	if lineEnd == nil || lineEnd.Kind != parser.Newline {
		return
	}

	prev := lineEnd.Prev()
	if prev == nil || !parser.IsHorizontalWspace(prev.Kind) {
		return
	}

	// Confirm the line has at least one non-whitespace token before the
	// trailing run - an all-whitespace (blank/indentation-only) line has
	// nothing trailing to report.
	hasContent := false
	for cur := lineStart; cur != nil && cur != lineEnd; cur = cur.Next() {
		if !parser.IsWspace(cur.Kind) {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return
	}

	p.report(lineEnd, "Whitespace at end of line")

	if p.fix {
		parser.LineRemoveWsBefore(p.buf, lineEnd)
	}
}

/*
checkLength reports a line whose terminating newline (or EOF) falls past
the configured column limit. Fix mode never rewrites this - spec
non-goal: correcting violations that require breaking long expressions.
*/
func (p *pass) checkLength(first, lineEnd *parser.Token) {
	limit := config.Int(config.LineLength)

	var col int
	if lineEnd != nil {
		if lineEnd.Kind == parser.Newline {
			col = lineEnd.Begin.Col
		} else {
			col = lineEnd.End.Col
		}
	}

	if col > limit+1 {
		over := col - 1 - limit
		p.report(first, fmt.Sprintf("Line too long (%d columns over limit)", over))
	}
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
