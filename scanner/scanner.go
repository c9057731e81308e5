// Package scanner turns cactus source text into a sequence of tokens.
//
// It follows the structure of a classic hand-written lexer: a cursor over
// the source, one token produced per call to next, and a line counter
// updated whenever a newline is consumed. Unlike a byte-oriented scanner it
// walks the source one Unicode codepoint at a time, so multi-byte UTF-8
// sequences inside string literals and comments are never split.
package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/amaji/cactus/token"
)

// Scanner holds the cursor state for one scan of a source string.
type Scanner struct {
	src     string
	start   int // byte offset of the token currently being scanned
	current int // byte offset of the next rune to consume
	line    int
}

// New returns a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// ScanTokens consumes the entire source and returns the resulting token
// sequence, always terminated by an Eof token. It stops and returns the
// first lexical error encountered, per spec.md §4.1/§7: a lexical error
// aborts scanning for that input.
func ScanTokens(src string) ([]token.Token, error) {
	s := New(src)
	var tokens []token.Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.Eof {
			return tokens, nil
		}
	}
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.src)
}

// advance consumes and returns the next rune, or 0 at end of input.
func (s *Scanner) advance() rune {
	if s.atEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(s.src[s.current:])
	s.current += size
	return r
}

// peek looks at the next rune without consuming it.
func (s *Scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.current:])
	return r
}

// peekNext looks one rune past peek, without consuming anything.
func (s *Scanner) peekNext() rune {
	if s.atEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s.src[s.current:])
	if s.current+size >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.current+size:])
	return r
}

// match consumes the next rune iff it equals want, returning whether it did.
func (s *Scanner) match(want rune) bool {
	if s.peek() != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) lexeme() string {
	return s.src[s.start:s.current]
}

func (s *Scanner) make(typ token.Type) token.Token {
	return token.New(typ, s.lexeme(), s.line)
}

func (s *Scanner) makeLiteral(typ token.Type, literal any) token.Token {
	return token.NewLiteral(typ, s.lexeme(), literal, s.line)
}

// next scans and returns a single token, skipping any leading whitespace
// and comments.
func (s *Scanner) next() (token.Token, error) {
	if err := s.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	s.start = s.current
	if s.atEnd() {
		return token.New(token.Eof, "", s.line), nil
	}

	c := s.advance()
	switch c {
	case '(':
		return s.make(token.LeftParen), nil
	case ')':
		return s.make(token.RightParen), nil
	case '{':
		return s.make(token.LeftBrace), nil
	case '}':
		return s.make(token.RightBrace), nil
	case ',':
		return s.make(token.Comma), nil
	case '.':
		return s.make(token.Dot), nil
	case '-':
		return s.make(token.Minus), nil
	case '+':
		return s.make(token.Plus), nil
	case ';':
		return s.make(token.Semicolon), nil
	case '*':
		return s.make(token.Star), nil
	case '/':
		return s.make(token.Slash), nil
	case '!':
		if s.match('=') {
			return s.make(token.BangEqual), nil
		}
		return s.make(token.Bang), nil
	case '=':
		if s.match('=') {
			return s.make(token.EqualEqual), nil
		}
		return s.make(token.Equal), nil
	case '<':
		if s.match('=') {
			return s.make(token.LessEqual), nil
		}
		return s.make(token.Less), nil
	case '>':
		if s.match('=') {
			return s.make(token.GreaterEqual), nil
		}
		return s.make(token.Greater), nil
	case '"':
		return s.readString()
	}

	if isDigit(c) {
		return s.readNumber(), nil
	}
	if isAlpha(c) {
		return s.readIdentifier(), nil
	}

	return token.Token{}, &Error{Kind: UnexpectedCharacter, Line: s.line, Char: c}
}

// skipWhitespaceAndComments advances past runs of ASCII whitespace and
// line comments ("//" to end of line), tracking line numbers as it goes.
func (s *Scanner) skipWhitespaceAndComments() error {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return nil
			}
		default:
			return nil
		}
	}
}

func (s *Scanner) readString() (token.Token, error) {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return token.Token{}, &Error{Kind: UnterminatedString, Line: s.line}
	}
	// consume the closing quote
	s.advance()
	value := s.src[s.start+1 : s.current-1]
	return s.makeLiteral(token.String, value), nil
}

func (s *Scanner) readNumber() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, _ := strconv.ParseFloat(s.lexeme(), 64)
	return s.makeLiteral(token.Number, value)
}

func (s *Scanner) readIdentifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.lexeme()
	if kw, ok := token.Keywords[text]; ok {
		return s.make(kw)
	}
	return s.make(token.Identifier)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
