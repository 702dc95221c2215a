package semiotic

import "fmt"

// Parse decodes tagged text in the bracketed key/value form back into a
// [Sequence]. It accepts exactly what [Serialize] emits, modulo runs of
// spaces. Structural violations fail with [ErrMalformedOutput] and an
// offset; they mean the grammar that produced the text is broken, which is
// fatal for that code path and must not be confused with an input that
// simply did not match.
func Parse(s string) (Sequence, error) {
	p := &parser{src: s}
	p.skipSpaces()
	if p.eof() {
		return nil, fmt.Errorf("%w: empty tagged text", ErrMalformedOutput)
	}
	var seq Sequence
	for !p.eof() {
		tok, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		seq = append(seq, tok)
		p.skipSpaces()
	}
	return seq, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() (byte, bool) {
	if p.eof() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) expect(c byte, what string) error {
	if b, ok := p.peek(); !ok || b != c {
		return fmt.Errorf("%w: expected %s at offset %d", ErrMalformedOutput, what, p.pos)
	}
	p.pos++
	return nil
}

// parseSegment reads one "tokens { ... }" block.
func (p *parser) parseSegment() (Token, error) {
	ident := p.parseIdent()
	if ident != "tokens" {
		return Token{}, fmt.Errorf("%w: expected %q at offset %d", ErrMalformedOutput, "tokens", p.pos)
	}
	p.skipSpaces()
	if err := p.expect('{', `"{"`); err != nil {
		return Token{}, err
	}
	fields, err := p.parseFields()
	if err != nil {
		return Token{}, err
	}
	if err := p.expect('}', `"}"`); err != nil {
		return Token{}, err
	}
	if len(fields) == 0 {
		return Token{}, fmt.Errorf("%w: empty token at offset %d", ErrMalformedOutput, p.pos)
	}
	// A single sub-structure field is a classed token; everything else is
	// a bare token (literals and whitelist entries).
	if len(fields) == 1 && fields[0].Sub != nil {
		return *fields[0].Sub, nil
	}
	return Token{Fields: fields}, nil
}

// parseFields reads "name: \"value\"" and "name { ... }" entries up to,
// but not including, the closing brace.
func (p *parser) parseFields() ([]Field, error) {
	var fields []Field
	for {
		p.skipSpaces()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("%w: unbalanced braces at offset %d", ErrMalformedOutput, p.pos)
		}
		if c == '}' {
			return fields, nil
		}
		name := p.parseIdent()
		if name == "" {
			return nil, fmt.Errorf("%w: expected field name at offset %d", ErrMalformedOutput, p.pos)
		}
		p.skipSpaces()
		c, ok = p.peek()
		switch {
		case ok && c == ':':
			p.pos++
			value, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: name, Value: value})
		case ok && c == '{':
			p.pos++
			sub, err := p.parseFields()
			if err != nil {
				return nil, err
			}
			if err := p.expect('}', `"}"`); err != nil {
				return nil, err
			}
			if len(sub) == 0 {
				return nil, fmt.Errorf("%w: empty block %q at offset %d", ErrMalformedOutput, name, p.pos)
			}
			fields = append(fields, Field{Name: name, Sub: &Token{Class: name, Fields: sub}})
		default:
			return nil, fmt.Errorf("%w: expected ':' or '{' after %q at offset %d", ErrMalformedOutput, name, p.pos)
		}
	}
}

func (p *parser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		isStart := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isStart && !(isDigit && p.pos > start) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parseQuoted() (string, error) {
	p.skipSpaces()
	if err := p.expect('"', "opening quote"); err != nil {
		return "", err
	}
	var out []byte
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return string(out), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", fmt.Errorf("%w: dangling escape at offset %d", ErrMalformedOutput, p.pos)
			}
			next := p.src[p.pos+1]
			if next != '"' && next != '\\' {
				return "", fmt.Errorf("%w: invalid escape \\%c at offset %d", ErrMalformedOutput, next, p.pos)
			}
			out = append(out, next)
			p.pos += 2
		default:
			out = append(out, c)
			p.pos++
		}
	}
	return "", fmt.Errorf("%w: unterminated quote at offset %d", ErrMalformedOutput, p.pos)
}
