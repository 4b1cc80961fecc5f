package qent

// TokenKind identifies a lexical token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenOpenBrace
	TokenCloseBrace
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenOpenBrace:
		return "{"
	case TokenCloseBrace:
		return "}"
	case TokenString:
		return "string"
	default:
		return "unknown"
	}
}

// Token is one lexical token. Text is set for TokenString only and stays valid
// until the next call to Lexer.Next.
type Token struct {
	Kind     TokenKind
	Text     []byte
	Quoted   bool
	Location Location
}

// Lexer splits a q-entities buffer into tokens, skipping whitespace and the comment
// styles enabled in its Options.
type Lexer struct {
	src  []byte
	pos  int
	trk  tracker
	opts Options
	// scratch holds decoded quoted strings when escapes are enabled.
	scratch []byte
}

func NewLexer(src []byte, opts Options) *Lexer {
	return &Lexer{src: src, trk: newTracker(), opts: opts}
}

// Next returns the next token. After TokenEOF every call returns TokenEOF again.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipInsignificant(); err != nil {
		return Token{}, err
	}

	start := l.trk.here()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Location: start}, nil
	}

	switch c := l.src[l.pos]; c {
	case '{':
		l.consume()
		return Token{Kind: TokenOpenBrace, Location: start}, nil
	case '}':
		l.consume()
		return Token{Kind: TokenCloseBrace, Location: start}, nil
	case '"':
		text, err := l.quoted(start)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokenString, Text: text, Quoted: true, Location: start}, nil
	default:
		return Token{Kind: TokenString, Text: l.unquoted(), Location: start}, nil
	}
}

func (l *Lexer) consume() {
	l.trk.advance(l.src[l.pos])
	l.pos++
}

func (l *Lexer) peekAt(i int) (byte, bool) {
	if l.pos+i < len(l.src) {
		return l.src[l.pos+i], true
	}
	return 0, false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\f', '\n', '\r', '\t', '\v':
		return true
	}
	return false
}

// commentAhead reports whether an enabled comment opener starts at the cursor.
func (l *Lexer) commentAhead() (line, block bool) {
	if c, _ := l.peekAt(0); c != '/' {
		return false, false
	}
	switch c, _ := l.peekAt(1); c {
	case '/':
		return l.opts.lineComments, false
	case '*':
		return false, l.opts.blockComments
	}
	return false, false
}

func (l *Lexer) skipInsignificant() error {
	for l.pos < len(l.src) {
		if isSpace(l.src[l.pos]) {
			l.consume()
			continue
		}
		line, block := l.commentAhead()
		switch {
		case line:
			l.skipLineComment()
		case block:
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skipLineComment consumes `//` up to and including the line terminator.
func (l *Lexer) skipLineComment() {
	l.consume()
	l.consume()
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.consume()
		switch c {
		case '\n':
			return
		case '\r':
			if next, ok := l.peekAt(0); ok && next == '\n' {
				l.consume()
			}
			return
		}
	}
}

func (l *Lexer) skipBlockComment() error {
	start := l.trk.here()
	l.consume()
	l.consume()
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' {
			if next, ok := l.peekAt(1); ok && next == '/' {
				l.consume()
				l.consume()
				return nil
			}
		}
		l.consume()
	}
	return errAt(UnterminatedComment, start)
}

// quoted scans a quoted string whose opening quote is at the cursor. Without
// escapes the result aliases the input buffer.
func (l *Lexer) quoted(start Location) ([]byte, error) {
	l.consume()
	if !l.opts.escapes {
		from := l.pos
		for l.pos < len(l.src) {
			if l.src[l.pos] == '"' {
				text := l.src[from:l.pos:l.pos]
				l.consume()
				return text, nil
			}
			l.consume()
		}
		return nil, errAt(UnterminatedString, start)
	}

	l.scratch = l.scratch[:0]
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.consume()
			return l.scratch, nil
		case '\\':
			at := l.trk.here()
			next, ok := l.peekAt(1)
			switch {
			case !ok:
				// A trailing backslash leaves the string open.
				l.consume()
				return nil, errAt(UnterminatedString, start)
			case next == '\\', next == '"' && l.opts.escapedQuotes:
				l.consume()
				l.consume()
				l.scratch = append(l.scratch, next)
			default:
				return nil, errAt(InvalidEscapeSequence, at)
			}
		default:
			l.consume()
			l.scratch = append(l.scratch, c)
		}
	}
	return nil, errAt(UnterminatedString, start)
}

// unquoted scans bytes up to whitespace, a brace, a quote or an enabled comment
// opener. The first byte is never a terminator.
func (l *Lexer) unquoted() []byte {
	from := l.pos
	l.consume()
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isSpace(c) || c == '{' || c == '}' || c == '"' {
			break
		}
		if line, block := l.commentAhead(); line || block {
			break
		}
		l.consume()
	}
	return l.src[from:l.pos:l.pos]
}
