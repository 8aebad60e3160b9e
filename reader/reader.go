/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package reader

import (
	"errors"
	"io"

	"github.com/PagePerfect-io/pdfscript/catalog"
	"github.com/PagePerfect-io/pdfscript/lexer"
	"github.com/PagePerfect-io/pdfscript/perr"
	"github.com/PagePerfect-io/pdfscript/value"
)

// errIncomplete signals that an array or dictionary reached EOF before its
// closing delimiter. It never escapes the package: Read converts it into a
// ReaderError (spec §4.2: "incomplete" is a sentinel distinct from error,
// used internally so a deeply nested composite can abort gracefully up to
// the top-level caller, which always treats it as fatal - spec §4.4).
var errIncomplete = errors.New("incomplete composite at EOF")

// Reader is the PDFScript statement reader: a LIFO operand stack sitting on
// top of a lexer.Lexer (spec §4.4). The operand stack persists across Read
// calls, exactly like a real content-stream operand stack.
type Reader struct {
	lx    *lexer.Lexer
	env   *Environment
	stack []value.Value
}

// New returns a Reader pulling tokens from lx and resolving variables
// against env.
func New(lx *lexer.Lexer, env *Environment) *Reader {
	return &Reader{lx: lx, env: env}
}

// Environment returns the reader's Variable Environment, so the processor
// can call Declare on it when it registers a variable's type outside of a
// `# var` statement (spec §4.4's "narrow write-only setter").
func (r *Reader) Environment() *Environment { return r.env }

// Read advances the lexer and returns the next statement, or io.EOF.
func (r *Reader) Read() (Statement, error) {
	for {
		tok, err := r.lx.Next()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case lexer.TokWhitespace, lexer.TokComment:
			continue

		case lexer.TokNumber:
			r.stack = append(r.stack, value.Number(tok.Number))

		case lexer.TokString:
			if tok.IsHex {
				r.stack = append(r.stack, value.NewHexString([]byte(tok.Text)))
			} else {
				r.stack = append(r.stack, value.NewString([]byte(tok.Text)))
			}

		case lexer.TokName:
			r.stack = append(r.stack, value.Name(tok.Text))

		case lexer.TokVariable:
			v, err := r.resolveVariable(tok.Text)
			if err != nil {
				return nil, err
			}
			r.stack = append(r.stack, v)

		case lexer.ArrayStart:
			arr, err := r.readArray()
			if err != nil {
				return nil, r.wrapIncomplete(err)
			}
			r.stack = append(r.stack, arr)

		case lexer.DictionaryStart:
			dict, err := r.readDictionary()
			if err != nil {
				return nil, r.wrapIncomplete(err)
			}
			r.stack = append(r.stack, dict)

		case lexer.TokPrologFragment:
			return r.readProlog()

		case lexer.TokKeyword:
			switch tok.Text {
			case "true":
				r.stack = append(r.stack, value.Boolean(true))
			case "false":
				r.stack = append(r.stack, value.Boolean(false))
			default:
				return r.readOperator(tok.Text)
			}

		default:
			return nil, perr.Reader("unexpected %s token at top level", tok.Kind)
		}
	}
}

func (r *Reader) wrapIncomplete(err error) error {
	if errors.Is(err, errIncomplete) {
		return perr.Reader("EOF reached while reading array/dictionary")
	}
	return err
}

func (r *Reader) resolveVariable(name string) (value.Value, error) {
	kind, ok := r.env.Lookup(name)
	if !ok {
		return nil, perr.Reader("undeclared variable $%s", name)
	}
	return value.TypeResolvedVariable{Name: name, ResolvedKind: kind}, nil
}

func (r *Reader) readOperator(spelling string) (Statement, error) {
	d, ok := catalog.Lookup(spelling)
	if !ok {
		return nil, perr.Reader("unknown operator %q", spelling)
	}
	if d.Structural {
		switch d.ID {
		case "endpage":
			return EndPage{}, nil
		case "page":
			return r.readPageStatement(d)
		}
	}

	operands, matched := catalog.MatchSignature(d, r.stack)
	if !matched {
		return nil, perr.Reader("operand mismatch for %q: no registered signature matches the operand stack", spelling)
	}
	r.stack = r.stack[:len(r.stack)-len(operands)]
	return GraphicsOperation{Operator: d, Operands: operands}, nil
}

func (r *Reader) readPageStatement(d *catalog.Descriptor) (Statement, error) {
	operands, matched := catalog.MatchSignature(d, r.stack)
	if !matched {
		return nil, perr.Reader("operand mismatch for \"page\": expected W H or a template name")
	}
	r.stack = r.stack[:len(r.stack)-len(operands)]
	if len(operands) == 2 {
		w, ok1 := operands[0].(value.Number)
		h, ok2 := operands[1].(value.Number)
		if !ok1 || !ok2 {
			return nil, perr.Reader("page requires two numeric operands")
		}
		return Page{Width: w.Float64(), Height: h.Float64()}, nil
	}
	name, ok := operands[0].(value.Name)
	if !ok {
		return nil, perr.Reader("page requires a template name")
	}
	return Page{Template: name}, nil
}

// readArray implements the Value Reader's array entry point (spec §4.2),
// invoked immediately after the lexer has produced an ArrayStart token.
func (r *Reader) readArray() (*value.Array, error) {
	arr := &value.Array{}
	for {
		tok, err := r.lx.Next()
		if err == io.EOF {
			return nil, errIncomplete
		}
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.TokWhitespace, lexer.TokComment:
			continue
		case lexer.ArrayEnd:
			return arr, nil
		case lexer.TokNumber:
			arr.Elements = append(arr.Elements, value.Number(tok.Number))
		case lexer.TokString:
			if tok.IsHex {
				arr.Elements = append(arr.Elements, value.NewHexString([]byte(tok.Text)))
			} else {
				arr.Elements = append(arr.Elements, value.NewString([]byte(tok.Text)))
			}
		case lexer.TokName:
			arr.Elements = append(arr.Elements, value.Name(tok.Text))
		case lexer.TokVariable:
			v, err := r.resolveVariable(tok.Text)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, v)
		case lexer.ArrayStart:
			sub, err := r.readArray()
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, sub)
		case lexer.DictionaryStart:
			sub, err := r.readDictionary()
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, sub)
		default:
			return nil, perr.Reader("unexpected %s token in array", tok.Kind)
		}
	}
}

// readDictionary implements the Value Reader's dictionary entry point
// (spec §4.2): a two-state sub-machine, expect-key then expect-value.
func (r *Reader) readDictionary() (*value.Dictionary, error) {
	dict := value.NewDictionary()
	for {
		tok, err := r.lx.Next()
		if err == io.EOF {
			return nil, errIncomplete
		}
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.TokWhitespace, lexer.TokComment:
			continue
		case lexer.DictionaryEnd:
			return dict, nil
		case lexer.TokName:
			key := value.Name(tok.Text)
			val, err := r.readDictValue()
			if err != nil {
				return nil, err
			}
			dict.Set(key, val)
		default:
			return nil, perr.Reader("expected dictionary key, got %s token", tok.Kind)
		}
	}
}

func (r *Reader) readDictValue() (value.Value, error) {
	for {
		tok, err := r.lx.Next()
		if err == io.EOF {
			return nil, errIncomplete
		}
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.TokWhitespace, lexer.TokComment:
			continue
		case lexer.TokNumber:
			return value.Number(tok.Number), nil
		case lexer.TokString:
			if tok.IsHex {
				return value.NewHexString([]byte(tok.Text)), nil
			}
			return value.NewString([]byte(tok.Text)), nil
		case lexer.TokName:
			return value.Name(tok.Text), nil
		case lexer.TokVariable:
			return r.resolveVariable(tok.Text)
		case lexer.ArrayStart:
			return r.readArray()
		case lexer.DictionaryStart:
			return r.readDictionary()
		default:
			return nil, perr.Reader("unexpected %s token as dictionary value", tok.Kind)
		}
	}
}
