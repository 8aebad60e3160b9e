/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package value

// IsWhiteSpace reports whether ch is a PDF-syntax whitespace byte (space,
// tab, CR, LF, form feed, NUL).
func IsWhiteSpace(ch byte) bool {
	return ch == 0x00 || ch == 0x09 || ch == 0x0A || ch == 0x0C || ch == 0x0D || ch == 0x20
}

// IsDelimiter reports whether ch is one of the PDF-syntax delimiter bytes.
func IsDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return false
	}
}

// IsDecimalDigit reports whether ch is '0'-'9'.
func IsDecimalDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// IsOctalDigit reports whether ch is '0'-'7'.
func IsOctalDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

// IsNameChar reports whether ch may appear (unescaped) in a Name token
// after the leading '/'.
func IsNameChar(ch byte) bool {
	return !IsWhiteSpace(ch) && !IsDelimiter(ch) && ch != '#'
}

// IsVariableStartChar reports whether ch may start a $variable identifier
// (after the leading '$'): any non-digit identifier character.
func IsVariableStartChar(ch byte) bool {
	return isIdentChar(ch) && !IsDecimalDigit(ch)
}

// IsVariableContinueChar reports whether ch may continue a $variable
// identifier: letters, digits, underscore.
func IsVariableContinueChar(ch byte) bool {
	return isIdentChar(ch)
}

func isIdentChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
