/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/krotik/cstyle/util"
)

/*
Keywords is the set of reserved words of the checked language. Anything
else which matches an identifier pattern is an Identifier token.
*/
var Keywords = map[string]bool{
	"int": true, "char": true, "void": true, "float": true, "double": true,
	"short": true, "long": true, "signed": true, "unsigned": true,
	"struct": true, "union": true, "enum": true, "typedef": true,
	"const": true, "volatile": true, "restrict": true,
	"static": true, "extern": true, "auto": true, "register": true, "inline": true,
	"if": true, "else": true, "while": true, "do": true, "for": true,
	"switch": true, "case": true, "default": true,
	"break": true, "continue": true, "return": true, "goto": true,
	"sizeof": true,
}

/*
punctuators is ordered longest-match-first so the scanner can try each
candidate in turn.
*/
var punctuators = []string{
	"<<=", ">>=", "...",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=",
	"{", "}", "(", ")", "[", "]", ";", ",", ".",
	"&", "*", "+", "-", "~", "!", "/", "%",
	"<", ">", "^", "|", "?", ":", "=",
}

/*
lexer holds the scanning state for one source file.
*/
type lexer struct {
	name  string
	input string
	pos   int // byte offset
	line  int // 1-based
	col   int // 1-based

	buf *Buffer
}

/*
Lex tokenizes the given input completely and returns a lossless Buffer
ending in a single EOF token. The returned error, if any, is a
*util.Error with Type == util.ErrLex.
*/
func Lex(name string, input string) (*Buffer, error) {
	l := &lexer{name: name, input: input, line: 1, col: 1, buf: NewBuffer()}

	for l.pos < len(l.input) {
		if err := l.lexOne(); err != nil {
			return l.buf, err
		}
	}

	l.emit(EOF, "")

	return l.buf, nil
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *lexer) advance(n int) string {
	s := l.input[l.pos : l.pos+n]
	for _, r := range s {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos += n
	return s
}

func (l *lexer) emit(kind Kind, text string) *Token {
	begin := Pos{l.line, l.col}
	l.advance(len(text))
	end := Pos{l.line, l.col}
	return l.buf.Append(kind, text, begin, end)
}

func (l *lexer) emitRaw(kind Kind, begin Pos, text string) *Token {
	end := Pos{l.line, l.col}
	return l.buf.Append(kind, text, begin, end)
}

func (l *lexer) lexOne() error {
	r, w := l.peekRune()

	switch {
	case r == ' ':
		l.emit(Space, " ")
		return nil
	case r == '\t':
		l.emit(Tab, "\t")
		return nil
	case r == '\r' && l.peekAt(1) == '\n':
		l.emit(Newline, "\r\n")
		return nil
	case r == '\n':
		l.emit(Newline, "\n")
		return nil
	case r == '#':
		return l.lexPreprocessor()
	case r == '/' && l.peekAt(1) == '/':
		return l.lexLineComment()
	case r == '/' && l.peekAt(1) == '*':
		return l.lexBlockComment()
	case r == '"':
		return l.lexString()
	case r == '\'':
		return l.lexChar()
	case unicode.IsDigit(r):
		return l.lexNumber()
	case isIdentStart(r):
		return l.lexIdentifier()
	default:
		return l.lexPunctuator(w)
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) lexIdentifier() error {
	start := l.pos
	for l.pos < len(l.input) {
		r, w := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentCont(r) {
			break
		}
		_ = w
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	if Keywords[text] {
		l.emit(Keyword, text)
	} else {
		l.emit(Identifier, text)
	}
	return nil
}

func (l *lexer) lexNumber() error {
	start := l.pos
	for l.pos < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		if !(unicode.IsDigit(r) || unicode.IsLetter(r) || r == '.' || r == 'x' || r == 'X') {
			break
		}
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	l.emit(IntLiteral, text)
	return nil
}

func (l *lexer) lexString() error {
	begin := Pos{l.line, l.col}
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			text := l.input[start:l.pos]
			l.pos = start
			l.emitRaw(StringLiteral, begin, text)
			l.advance(len(text))
			return nil
		}
		if c == '\n' {
			break
		}
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	l.advance(len(text))
	return util.NewError(l.name, util.ErrLex, "unterminated string literal", begin.Line, begin.Col)
}

func (l *lexer) lexChar() error {
	begin := Pos{l.line, l.col}
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if c == '\'' {
			l.pos++
			text := l.input[start:l.pos]
			l.pos = start
			l.emitRaw(CharLiteral, begin, text)
			l.advance(len(text))
			return nil
		}
		if c == '\n' {
			break
		}
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	l.advance(len(text))
	return util.NewError(l.name, util.ErrLex, "unterminated character literal", begin.Line, begin.Col)
}

func (l *lexer) lexLineComment() error {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	l.emit(Comment, text)
	return nil
}

func (l *lexer) lexBlockComment() error {
	begin := Pos{l.line, l.col}
	start := l.pos
	doc := strings.HasPrefix(l.input[l.pos:], "/**") && !strings.HasPrefix(l.input[l.pos:], "/**/")
	l.pos += 2
	for l.pos < len(l.input) {
		if l.input[l.pos] == '*' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			l.pos += 2
			text := l.input[start:l.pos]
			l.pos = start
			kind := Comment
			if doc {
				kind = DocComment
			}
			l.emitRaw(kind, begin, text)
			l.advance(len(text))
			return nil
		}
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	l.advance(len(text))
	return util.NewError(l.name, util.ErrLex, "unterminated block comment", begin.Line, begin.Col)
}

/*
lexPreprocessor consumes a preprocessor directive from the leading '#' to
the end of the physical line, following backslash-newline continuations
so a directive spanning several physical lines is kept as one token. The
checker never reformats preprocessor text.
*/
func (l *lexer) lexPreprocessor() error {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '\n' {
			l.pos += 2
			continue
		}
		if c == '\n' {
			break
		}
		l.pos++
	}
	text := l.input[start:l.pos]
	l.pos = start
	l.emit(Preprocessor, text)
	return nil
}

func (l *lexer) lexPunctuator(runeWidth int) error {
	for _, p := range punctuators {
		if strings.HasPrefix(l.input[l.pos:], p) {
			l.emit(Punctuator, p)
			return nil
		}
	}

	begin := Pos{l.line, l.col}
	bad := l.input[l.pos : l.pos+runeWidth]
	l.advance(runeWidth)
	return util.NewError(l.name, util.ErrLex, "unexpected character "+bad, begin.Line, begin.Col)
}
