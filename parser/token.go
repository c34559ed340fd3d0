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
Package parser implements the lossless token model, the AST and the
recursive-descent parser which builds it for the C-family source language
that cstyle formats and checks.
*/
package parser

import "fmt"

/*
Kind identifies the lexical category of a Token.
*/
type Kind int

/*
Token kinds. Every byte of the original source is represented by exactly
one token of one of these kinds - including whitespace, comments and
preprocessor directives.
*/
const (
	Space Kind = iota
	Tab
	Newline
	Identifier
	Keyword
	Punctuator
	IntLiteral
	CharLiteral
	StringLiteral
	Comment
	DocComment
	Preprocessor
	EOF
)

/*
String returns a human-readable name for a Kind.
*/
func (k Kind) String() string {
	switch k {
	case Space:
		return "space"
	case Tab:
		return "tab"
	case Newline:
		return "newline"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Punctuator:
		return "punctuator"
	case IntLiteral:
		return "int-literal"
	case CharLiteral:
		return "char-literal"
	case StringLiteral:
		return "string-literal"
	case Comment:
		return "comment"
	case DocComment:
		return "doc-comment"
	case Preprocessor:
		return "preprocessor"
	case EOF:
		return "eof"
	}
	return "unknown"
}

/*
IsWspace reports whether a token of kind k counts as whitespace for
adjacency checks. Comments and preprocessor directives count as
whitespace here even though they carry meaningful text - the primitives
in the check package only ever look at horizontal/vertical adjacency,
never at comment content.
*/
func IsWspace(k Kind) bool {
	switch k {
	case Space, Tab, Newline, Comment, DocComment, Preprocessor:
		return true
	}
	return false
}

/*
IsHorizontalWspace reports whether a token of kind k is a space or a tab.
*/
func IsHorizontalWspace(k Kind) bool {
	return k == Space || k == Tab
}

/*
Pos is a line/column source position. Both fields are 1-based.
*/
type Pos struct {
	Line int
	Col  int
}

/*
String formats a Pos as used in single-point messages.
*/
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

/*
Token is one lexical unit of the source, including whitespace. Tokens are
linked intrusively into a doubly-linked Buffer: Prev/Next are part of the
Token itself rather than of a separate list node, so the buffer never
needs to allocate wrapper objects and every AST back-pointer is simply a
*Token.
*/
type Token struct {
	Kind Kind
	Text string // Exact source bytes for this token

	Begin Pos
	End   Pos

	// Fields written during the AST walk (parser.Node / check package)

	IndentLevel int  // Indent level stamped by the walker
	LineBegin   bool // True if this token starts a non-continuation line

	prev, next *Token
	buf        *Buffer
}

/*
Prev returns the token preceding t in its buffer, or nil if t is first.
*/
func (t *Token) Prev() *Token {
	if t == nil {
		return nil
	}
	return t.prev
}

/*
Next returns the token following t in its buffer, or nil if t is last.
*/
func (t *Token) Next() *Token {
	if t == nil {
		return nil
	}
	return t.next
}

/*
String returns a short diagnostic representation of a token.
*/
func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v(%q)@%v", t.Kind, t.Text, t.Begin)
}

/*
Buffer is the lossless, ordered sequence of all tokens of one source file.
Concatenating every token's Text in order reproduces the source exactly,
until a fix mutates the buffer.
*/
type Buffer struct {
	head, tail *Token
	len        int
}

/*
NewBuffer creates an empty token buffer.
*/
func NewBuffer() *Buffer {
	return &Buffer{}
}

/*
First returns the first token of the buffer, or nil if empty.
*/
func (b *Buffer) First() *Token {
	return b.head
}

/*
Last returns the last token of the buffer, or nil if empty.
*/
func (b *Buffer) Last() *Token {
	return b.tail
}

/*
Len returns the number of tokens currently in the buffer.
*/
func (b *Buffer) Len() int {
	return b.len
}

/*
Append adds a new token at the end of the buffer and returns it. Used only
by the lexer while building the initial buffer.
*/
func (b *Buffer) Append(kind Kind, text string, begin, end Pos) *Token {
	t := &Token{Kind: kind, Text: text, Begin: begin, End: end, buf: b}

	if b.tail == nil {
		b.head = t
		b.tail = t
	} else {
		t.prev = b.tail
		b.tail.next = t
		b.tail = t
	}
	b.len++

	return t
}

/*
InsertBefore inserts a new token of the given kind/text immediately before
tok and returns it. Used by the whitespace primitives and the line pass to
repair violations in fix mode.
*/
func (b *Buffer) InsertBefore(tok *Token, kind Kind, text string) *Token {
	n := &Token{Kind: kind, Text: text, buf: b}

	n.next = tok
	n.prev = tok.prev

	if tok.prev != nil {
		tok.prev.next = n
	} else {
		b.head = n
	}
	tok.prev = n

	b.len++

	return n
}

/*
InsertAfter inserts a new token of the given kind/text immediately after
tok and returns it.
*/
func (b *Buffer) InsertAfter(tok *Token, kind Kind, text string) *Token {
	n := &Token{Kind: kind, Text: text, buf: b}

	n.prev = tok
	n.next = tok.next

	if tok.next != nil {
		tok.next.prev = n
	} else {
		b.tail = n
	}
	tok.next = n

	b.len++

	return n
}

/*
Remove unlinks tok from the buffer. Non-whitespace tokens are never
created, removed, or textually edited once lexed; this is only ever
called by the primitives on whitespace-kind tokens.
*/
func (b *Buffer) Remove(tok *Token) {
	if tok.prev != nil {
		tok.prev.next = tok.next
	} else {
		b.head = tok.next
	}

	if tok.next != nil {
		tok.next.prev = tok.prev
	} else {
		b.tail = tok.prev
	}

	tok.prev = nil
	tok.next = nil
	b.len--
}

/*
FirstOnLine returns the first token of the logical line containing tok,
walking backwards across every token (including whitespace) until a
Newline or the start of the buffer is found.
*/
func (b *Buffer) FirstOnLine(tok *Token) *Token {
	cur := tok
	for cur.prev != nil && cur.prev.Kind != Newline {
		cur = cur.prev
	}
	return cur
}

/*
IsLineBegin reports whether only horizontal whitespace separates tok from
the start of its line (for a significant token: whether it is the first
non-whitespace token of the line): walking back across horizontal whitespace only
(space, tab - comments count as content, not whitespace, for this
question), is the preceding non-horizontal-whitespace token a newline, or
is there no earlier token at all?
*/
func IsLineBegin(tok *Token) bool {
	cur := tok.Prev()
	for cur != nil && IsHorizontalWspace(cur.Kind) {
		cur = cur.Prev()
	}
	return cur == nil || cur.Kind == Newline
}

/*
RemoveWsBefore deletes every token preceding tok whose kind satisfies
IsWspace, stopping at the first non-whitespace token (or the start of the
buffer).
*/
func RemoveWsBefore(b *Buffer, tok *Token) {
	cur := tok.Prev()
	for cur != nil && IsWspace(cur.Kind) {
		prev := cur.Prev()
		b.Remove(cur)
		cur = prev
	}
}

/*
LineRemoveWsBefore is like RemoveWsBefore but also stops at a Newline,
removing only the current line's leading whitespace.
*/
func LineRemoveWsBefore(b *Buffer, tok *Token) {
	cur := tok.Prev()
	for cur != nil && IsWspace(cur.Kind) && cur.Kind != Newline {
		prev := cur.Prev()
		b.Remove(cur)
		cur = prev
	}
}

/*
RemoveWsAfter deletes every token following tok whose kind satisfies
IsWspace, stopping at the first non-whitespace token (or the end of the
buffer).
*/
func RemoveWsAfter(b *Buffer, tok *Token) {
	cur := tok.Next()
	for cur != nil && IsWspace(cur.Kind) {
		next := cur.Next()
		b.Remove(cur)
		cur = next
	}
}

/*
Text concatenates the Text of every token in the buffer in order. Used by
the round-trip tests and by the driver to produce the (possibly fixed)
source.
*/
func (b *Buffer) Text() string {
	var sb []byte
	for t := b.head; t != nil; t = t.next {
		sb = append(sb, t.Text...)
	}
	return string(sb)
}
