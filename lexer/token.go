/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package lexer implements the PDFScript lexer (spec §4.1): a restartable
// finite-state tokenizer over PDF-content-stream-style syntax, extended
// with $variables and #-prolog fragments. It is modeled on the scanning
// routines of contentstream.ContentStreamParser in the teacher package
// (parseName/parseNumber/parseString/parseHexString/parseOperand), but
// restructured to emit one raw Token per call instead of recursively
// assembling composite values - that job belongs to the reader package.
package lexer

import "github.com/PagePerfect-io/pdfscript/value"

// Kind discriminates the token kinds of spec §3/§4.1.
type Kind int

// Token kinds.
const (
	ArrayStart Kind = iota
	ArrayEnd
	DictionaryStart
	DictionaryEnd
	TokName
	TokNumber
	TokString
	TokKeyword
	TokVariable
	TokComment
	TokWhitespace
	TokPrologFragment
	TokNull
	TokR
)

func (k Kind) String() string {
	switch k {
	case ArrayStart:
		return "ArrayStart"
	case ArrayEnd:
		return "ArrayEnd"
	case DictionaryStart:
		return "DictionaryStart"
	case DictionaryEnd:
		return "DictionaryEnd"
	case TokName:
		return "Name"
	case TokNumber:
		return "Number"
	case TokString:
		return "String"
	case TokKeyword:
		return "Keyword"
	case TokVariable:
		return "Variable"
	case TokComment:
		return "Comment"
	case TokWhitespace:
		return "Whitespace"
	case TokPrologFragment:
		return "PrologFragment"
	case TokNull:
		return "Null"
	case TokR:
		return "R"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit. Raw holds the exact source bytes consumed for
// this token, so that concatenating Raw across every token pulled from a
// Lexer until exhaustion reconstructs the original input exactly (spec §8).
type Token struct {
	Kind Kind
	Raw  string

	// Number carries the payload for TokNumber.
	Number value.Number
	// Text carries the payload for Name/String/Keyword/Variable/Comment/
	// PrologFragment (for Name it includes the leading '/', for Variable
	// it excludes the leading '$').
	Text string
	// IsHex marks a TokString produced from a hex string literal (<...>)
	// rather than a parenthesized literal.
	IsHex bool
}
