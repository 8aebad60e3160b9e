/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package lexer

import (
	"bufio"
	"io"
	"strconv"

	"github.com/PagePerfect-io/pdfscript/perr"
	"github.com/PagePerfect-io/pdfscript/value"
)

// Options configures lexer behavior.
type Options struct {
	// AllowLeadingZero, when false, makes a leading '0' immediately
	// followed by another digit (and no decimal point yet) its own Number
	// token, leaving the remaining digits for the next token (spec §4.1).
	// Defaults to true via DefaultOptions.
	AllowLeadingZero bool
}

// DefaultOptions returns the default lexer options (leading zeroes allowed).
func DefaultOptions() Options {
	return Options{AllowLeadingZero: true}
}

// Lexer is a restartable, one-token-at-a-time tokenizer over a PDFScript
// source stream. It never looks further ahead than a single token, so it
// can resume across a partially-written input (spec §4.1: "restartable").
type Lexer struct {
	r       *bufio.Reader
	opts    Options
	raw     []byte
	pending *Token
}

// New returns a Lexer reading from r with the given options.
func New(r io.Reader, opts Options) *Lexer {
	return &Lexer{r: bufio.NewReaderSize(r, 4096), opts: opts}
}

func (lx *Lexer) readByte() (byte, error) {
	b, err := lx.r.ReadByte()
	if err == nil {
		lx.raw = append(lx.raw, b)
	}
	return b, err
}

func (lx *Lexer) peekByte() (byte, bool) {
	b, err := lx.r.Peek(1)
	if err != nil {
		return 0, false
	}
	return b[0], true
}

// Unread pushes tok back so that the next call to Next returns it again.
// Only one level of pushback is supported.
func (lx *Lexer) Unread(tok Token) {
	t := tok
	lx.pending = &t
}

// Next scans and returns the next token, or io.EOF once the stream is
// exhausted.
func (lx *Lexer) Next() (Token, error) {
	if lx.pending != nil {
		t := *lx.pending
		lx.pending = nil
		return t, nil
	}
	return lx.scan()
}

// NextSignificant returns the next token that is not Whitespace or Comment.
func (lx *Lexer) NextSignificant() (Token, error) {
	for {
		t, err := lx.Next()
		if err != nil {
			return t, err
		}
		if t.Kind != TokWhitespace && t.Kind != TokComment {
			return t, nil
		}
	}
}

// ExpectNumber consumes trivia, then one Number token. ok is false (with no
// error) if the next significant token is not a Number; the token is then
// pushed back so the caller can dispatch it otherwise.
func (lx *Lexer) ExpectNumber() (value.Number, bool, error) {
	t, err := lx.NextSignificant()
	if err != nil {
		return 0, false, err
	}
	if t.Kind != TokNumber {
		lx.Unread(t)
		return 0, false, nil
	}
	return t.Number, true, nil
}

// ExpectName consumes trivia, then one Name token.
func (lx *Lexer) ExpectName() (value.Name, bool, error) {
	t, err := lx.NextSignificant()
	if err != nil {
		return "", false, err
	}
	if t.Kind != TokName {
		lx.Unread(t)
		return "", false, nil
	}
	return value.Name(t.Text), true, nil
}

// ExpectString consumes trivia, then one String token.
func (lx *Lexer) ExpectString() (value.String, bool, error) {
	t, err := lx.NextSignificant()
	if err != nil {
		return value.String{}, false, err
	}
	if t.Kind != TokString {
		lx.Unread(t)
		return value.String{}, false, nil
	}
	if t.IsHex {
		return value.NewHexString([]byte(t.Text)), true, nil
	}
	return value.NewString([]byte(t.Text)), true, nil
}

// ExpectKeyword consumes trivia, then one Keyword token whose text is
// `want`.
func (lx *Lexer) ExpectKeyword(want string) (bool, error) {
	t, err := lx.NextSignificant()
	if err != nil {
		return false, err
	}
	if t.Kind != TokKeyword || t.Text != want {
		lx.Unread(t)
		return false, nil
	}
	return true, nil
}

// ExpectVariable consumes trivia, then one Variable token.
func (lx *Lexer) ExpectVariable() (string, bool, error) {
	t, err := lx.NextSignificant()
	if err != nil {
		return "", false, err
	}
	if t.Kind != TokVariable {
		lx.Unread(t)
		return "", false, nil
	}
	return t.Text, true, nil
}

func (lx *Lexer) scan() (Token, error) {
	start := len(lx.raw)
	b, err := lx.readByte()
	if err != nil {
		return Token{}, err
	}

	switch {
	case value.IsWhiteSpace(b):
		for {
			nb, ok := lx.peekByte()
			if !ok || !value.IsWhiteSpace(nb) {
				break
			}
			lx.readByte()
		}
		return lx.finish(TokWhitespace, start, ""), nil

	case b == '%':
		var text []byte
		for {
			nb, ok := lx.peekByte()
			if !ok || nb == '\n' || nb == '\r' {
				break
			}
			lx.readByte()
			text = append(text, nb)
		}
		return lx.finish(TokComment, start, string(text)), nil

	case b == '[':
		return lx.finish(ArrayStart, start, ""), nil
	case b == ']':
		return lx.finish(ArrayEnd, start, ""), nil

	case b == '<':
		if nb, ok := lx.peekByte(); ok && nb == '<' {
			lx.readByte()
			return lx.finish(DictionaryStart, start, ""), nil
		}
		return lx.scanHexString(start)

	case b == '>':
		if nb, ok := lx.peekByte(); ok && nb == '>' {
			lx.readByte()
			return lx.finish(DictionaryEnd, start, ""), nil
		}
		return Token{}, perr.Lexer("unexpected '>'")

	case b == '(':
		return lx.scanLiteralString(start)

	case b == '/':
		return lx.scanName(start)

	case b == '$':
		return lx.scanVariable(start)

	case b == '#':
		return lx.scanPrologFragment(start)

	case value.IsDecimalDigit(b) || b == '.' || b == '-' || b == '+':
		if b == '-' || b == '+' {
			nb, ok := lx.peekByte()
			if !ok || !(value.IsDecimalDigit(nb) || nb == '.') {
				return lx.scanKeyword(start, []byte{b})
			}
		}
		return lx.scanNumberOrKeyword(start, b)

	default:
		return lx.scanKeyword(start, []byte{b})
	}
}

func (lx *Lexer) finish(kind Kind, start int, text string) Token {
	return Token{Kind: kind, Raw: string(lx.raw[start:]), Text: text}
}

// scanNumberOrKeyword implements spec §4.1's number grammar: optional sign,
// digit sequence, optional '.' and fractional digits, or a leading '.' with
// fractional digits - no exponents. A second '.' glued directly to a
// completed number (e.g. "2.5.3") is malformed and the whole contiguous run
// is re-classified as a Keyword instead of splitting into several Numbers.
func (lx *Lexer) scanNumberOrKeyword(start int, first byte) (Token, error) {
	buf := []byte{first}

	if first == '0' && !lx.opts.AllowLeadingZero {
		if nb, ok := lx.peekByte(); ok && value.IsDecimalDigit(nb) {
			n, _ := strconv.ParseFloat(string(buf), 32)
			return lx.finish(TokNumber, start, "").withNumber(value.Number(n)), nil
		}
	}
	sawDigit := first != '.' && first != '-' && first != '+'
	sawDot := first == '.'

	// Leading-zero special case above may have already returned; otherwise
	// continue consuming the integer part (first may itself be a sign, in
	// which case no digits have been read yet).
	if first == '-' || first == '+' {
		nb, ok := lx.peekByte()
		if ok && value.IsDecimalDigit(nb) {
			lx.readByte()
			buf = append(buf, nb)
			sawDigit = true
			if nb == '0' && !lx.opts.AllowLeadingZero {
				if nb2, ok2 := lx.peekByte(); ok2 && value.IsDecimalDigit(nb2) {
					n, _ := strconv.ParseFloat(string(buf), 32)
					return lx.finish(TokNumber, start, "").withNumber(value.Number(n)), nil
				}
			}
		} else if ok && nb == '.' {
			lx.readByte()
			buf = append(buf, '.')
			sawDot = true
		}
	}

	for !sawDot {
		nb, ok := lx.peekByte()
		if !ok || !value.IsDecimalDigit(nb) {
			break
		}
		lx.readByte()
		buf = append(buf, nb)
		sawDigit = true
	}
	if !sawDot {
		if nb, ok := lx.peekByte(); ok && nb == '.' {
			lx.readByte()
			buf = append(buf, '.')
			sawDot = true
		}
	}
	if sawDot {
		for {
			nb, ok := lx.peekByte()
			if !ok || !value.IsDecimalDigit(nb) {
				break
			}
			lx.readByte()
			buf = append(buf, nb)
			sawDigit = true
		}
	}

	if !sawDigit {
		return lx.scanKeyword(start, buf)
	}

	if nb, ok := lx.peekByte(); ok && nb == '.' {
		return lx.scanKeyword(start, buf)
	}

	n, err := strconv.ParseFloat(string(buf), 32)
	if err != nil {
		return Token{}, perr.Lexer("malformed number %q", string(buf)).Wrap(err)
	}
	return lx.finish(TokNumber, start, "").withNumber(value.Number(n)), nil
}

func (t Token) withNumber(n value.Number) Token {
	t.Number = n
	return t
}

// scanKeyword extends buf with the rest of the contiguous non-whitespace,
// non-delimiter run and classifies it: "null" and "R" get their own token
// kinds (spec §3); everything else, including "true"/"false", is a Keyword
// left for the reader to interpret.
func (lx *Lexer) scanKeyword(start int, buf []byte) (Token, error) {
	for {
		nb, ok := lx.peekByte()
		if !ok || value.IsWhiteSpace(nb) || value.IsDelimiter(nb) || nb == '$' {
			break
		}
		lx.readByte()
		buf = append(buf, nb)
	}
	text := string(buf)
	switch text {
	case "null":
		return lx.finish(TokNull, start, text), nil
	case "R":
		return lx.finish(TokR, start, text), nil
	default:
		return lx.finish(TokKeyword, start, text), nil
	}
}

// scanLiteralString scans a parenthesized string per spec §4.1: balanced
// unescaped parens, backslash escapes (n r t b f ( ) \\), 1-3 digit octal
// escapes clamped to a single byte, backslash-EOL line splicing, and bare
// EOL normalization to '\n'. Grounded in ContentStreamParser.parseString.
func (lx *Lexer) scanLiteralString(start int) (Token, error) {
	var out []byte
	depth := 1
	for depth > 0 {
		b, err := lx.readByte()
		if err != nil {
			return Token{}, perr.Lexer("unterminated string literal")
		}
		switch b {
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth > 0 {
				out = append(out, b)
			}
		case '\\':
			eb, err := lx.readByte()
			if err != nil {
				return Token{}, perr.Lexer("unterminated string literal")
			}
			switch {
			case eb == 'n':
				out = append(out, '\n')
			case eb == 'r':
				out = append(out, '\r')
			case eb == 't':
				out = append(out, '\t')
			case eb == 'b':
				out = append(out, '\b')
			case eb == 'f':
				out = append(out, '\f')
			case eb == '(' || eb == ')' || eb == '\\':
				out = append(out, eb)
			case eb == '\r':
				if nb, ok := lx.peekByte(); ok && nb == '\n' {
					lx.readByte()
				}
				// line splice: no byte emitted
			case eb == '\n':
				// line splice: no byte emitted
			case value.IsOctalDigit(eb):
				digits := []byte{eb}
				for len(digits) < 3 {
					nb, ok := lx.peekByte()
					if !ok || !value.IsOctalDigit(nb) {
						break
					}
					lx.readByte()
					digits = append(digits, nb)
				}
				v, _ := strconv.ParseUint(string(digits), 8, 16)
				out = append(out, byte(v&0xFF))
			default:
				out = append(out, eb)
			}
		case '\r':
			if nb, ok := lx.peekByte(); ok && nb == '\n' {
				lx.readByte()
			}
			out = append(out, '\n')
		default:
			out = append(out, b)
		}
	}
	t := lx.finish(TokString, start, string(out))
	return t, nil
}

// scanHexString scans a <...> hex string: whitespace is ignored between hex
// digits (case-insensitive), an odd trailing nibble is padded with a zero.
func (lx *Lexer) scanHexString(start int) (Token, error) {
	var nibbles []byte
	for {
		b, err := lx.readByte()
		if err != nil {
			return Token{}, perr.Lexer("unterminated hex string")
		}
		if b == '>' {
			break
		}
		if value.IsWhiteSpace(b) {
			continue
		}
		if !isHexDigit(b) {
			return Token{}, perr.Lexer("invalid hex digit %q in hex string", b)
		}
		nibbles = append(nibbles, b)
	}
	if len(nibbles)%2 == 1 {
		nibbles = append(nibbles, '0')
	}
	out := make([]byte, len(nibbles)/2)
	for i := 0; i < len(out); i++ {
		hi := hexVal(nibbles[2*i])
		lo := hexVal(nibbles[2*i+1])
		out[i] = hi<<4 | lo
	}
	t := lx.finish(TokString, start, string(out))
	t.IsHex = true
	return t, nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}

// scanName scans a /Name token, decoding #xx hex escapes (spec §4.1).
func (lx *Lexer) scanName(start int) (Token, error) {
	var out []byte
	for {
		nb, ok := lx.peekByte()
		if !ok || !value.IsNameChar(nb) {
			if ok && nb == '#' {
				lx.readByte()
				h1, err1 := lx.readByte()
				h2, err2 := lx.readByte()
				if err1 != nil || err2 != nil || !isHexDigit(h1) || !isHexDigit(h2) {
					return Token{}, perr.Lexer("invalid #xx escape in name")
				}
				out = append(out, hexVal(h1)<<4|hexVal(h2))
				continue
			}
			break
		}
		lx.readByte()
		out = append(out, nb)
	}
	return lx.finish(TokName, start, "/"+string(out)), nil
}

// scanVariable scans a $name token (spec §4.1): the leading '$', then a
// non-digit identifier-start character, then identifier-continue
// characters.
func (lx *Lexer) scanVariable(start int) (Token, error) {
	nb, ok := lx.peekByte()
	if !ok || !value.IsVariableStartChar(nb) {
		return Token{}, perr.Lexer("'$' not followed by a valid variable name")
	}
	lx.readByte()
	out := []byte{nb}
	for {
		nb, ok := lx.peekByte()
		if !ok || !value.IsVariableContinueChar(nb) {
			break
		}
		lx.readByte()
		out = append(out, nb)
	}
	return lx.finish(TokVariable, start, string(out)), nil
}

// scanPrologFragment scans a '#' prolog marker. The remainder of the
// fragment (the keyword that follows, e.g. "var"/"resource"/"pattern"/
// "color") is read as a separate Keyword token by the reader; the lexer
// only tokenizes the marker itself, matching its role as a token boundary
// rather than a composite construct (spec §4.1, §4.4).
func (lx *Lexer) scanPrologFragment(start int) (Token, error) {
	return lx.finish(TokPrologFragment, start, "#"), nil
}
