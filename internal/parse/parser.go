// Package parse implements the CIF 1.1 grammar (spec component C2): an
// LL(1) recursive-descent parser driven by the lexer's lookahead token,
// emitting a SAX-style event stream into a Sink.
package parse

import "github.com/cifkit/cifkit/internal/lex"

// Parser drives a Sink over one CIF source. Parse itself is single-shot;
// ParseSingleDatablock may be called repeatedly against the same Parser
// for random access into large files (spec §4.2).
type Parser struct {
	normalized []byte
	scanner    *lex.Scanner
	tok        lex.Token
}

// New creates a Parser over src.
func New(src []byte) *Parser {
	normalized := lex.Normalize(src)
	return &Parser{normalized: normalized, scanner: lex.Resume(normalized, 0, 1)}
}

func (p *Parser) advance() error {
	tok, err := p.scanner.Next()
	if err != nil {
		if le, ok := err.(*lex.Error); ok {
			return &Error{Line: le.Line, Msg: le.Msg}
		}
		return err
	}
	p.tok = tok
	return nil
}

// Parse drives sink over the entire source: File ::= (global? datablock*)*.
func (p *Parser) Parse(sink Sink) error {
	if err := p.advance(); err != nil {
		return err
	}
	for {
		switch p.tok.Kind {
		case lex.EOF:
			return nil
		case lex.GLOBAL:
			if err := sink.Global(); err != nil {
				return err
			}
			if err := p.advance(); err != nil {
				return err
			}
		case lex.DATA:
			if err := p.parseDatablock(sink); err != nil {
				return err
			}
		default:
			return errf(p.tok.Line, "unexpected %s at top level", p.tok.Kind)
		}
	}
}

// Datablock ::= DATA(name) { item-value | loop | save-frame }* until the
// next DATA or EOF.
func (p *Parser) parseDatablock(sink Sink) error {
	name := p.tok.Name
	if err := sink.BeginDatablock(name); err != nil {
		return err
	}
	if err := p.advance(); err != nil {
		return err
	}
	opened := make(map[string]bool)
	for {
		switch p.tok.Kind {
		case lex.ITEM_NAME:
			if err := p.parseItemValue(sink, opened); err != nil {
				return err
			}
		case lex.LOOP:
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.parseLoop(sink); err != nil {
				return err
			}
		case lex.SAVE:
			if err := p.parseSaveFrame(sink); err != nil {
				return err
			}
		case lex.DATA, lex.EOF, lex.GLOBAL:
			return nil
		default:
			return errf(p.tok.Line, "unexpected %s in datablock", p.tok.Kind)
		}
	}
}

// Item-value ::= ITEM_NAME VALUE. The first item of a category within a
// run of bare item-value pairs implicitly opens that category's single
// row (spec §4.2); subsequent item-values for the same category append to
// it. opened tracks which categories have already had that implicit row
// opened in the current datablock (or save-frame).
func (p *Parser) parseItemValue(sink Sink, opened map[string]bool) error {
	cat, item := p.tok.Category, p.tok.Item
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Kind != lex.VALUE {
		return errf(p.tok.Line, "expected a value after tag _%s.%s, got %s", cat, item, p.tok.Kind)
	}
	val := Value{Text: p.tok.Text, Kind: p.tok.ValueKind}
	if !opened[cat] {
		if err := sink.BeginCategory(cat); err != nil {
			return err
		}
		if err := sink.BeginRow(); err != nil {
			return err
		}
		opened[cat] = true
	}
	if err := sink.Item(cat, item, val); err != nil {
		return err
	}
	return p.advance()
}

// Loop ::= LOOP ITEM_NAME+ VALUE+, where the VALUE count must be a
// positive multiple of the ITEM_NAME count. All tags in one loop must
// share the same category; LOOP itself has already been consumed by the
// caller.
func (p *Parser) parseLoop(sink Sink) error {
	if p.tok.Kind != lex.ITEM_NAME {
		return errf(p.tok.Line, "loop_ must be followed by at least one tag")
	}
	category := p.tok.Category
	var items []string
	for p.tok.Kind == lex.ITEM_NAME {
		if p.tok.Category != category {
			return errf(p.tok.Line, "loop_ column _%s.%s does not share category %q with the loop's first column", p.tok.Category, p.tok.Item, category)
		}
		items = append(items, p.tok.Item)
		if err := p.advance(); err != nil {
			return err
		}
	}
	if err := sink.BeginCategory(category); err != nil {
		return err
	}

	var values []Value
	for p.tok.Kind == lex.VALUE {
		values = append(values, Value{Text: p.tok.Text, Kind: p.tok.ValueKind})
		if err := p.advance(); err != nil {
			return err
		}
	}
	if len(values) == 0 || len(values)%len(items) != 0 {
		return errf(p.tok.Line, "loop_ over category %q has %d value(s), not a multiple of its %d column(s)", category, len(values), len(items))
	}
	rows := len(values) / len(items)
	for r := 0; r < rows; r++ {
		if err := sink.BeginRow(); err != nil {
			return err
		}
		for c, item := range items {
			if err := sink.Item(category, item, values[r*len(items)+c]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Save-frame ::= SAVE(name) { item-value | loop }* SAVE_END. Unused by the
// store's own sink; the dictionary loader's sink is the one that cares.
func (p *Parser) parseSaveFrame(sink Sink) error {
	name := p.tok.Name
	if err := sink.BeginSaveFrame(name); err != nil {
		return err
	}
	if err := p.advance(); err != nil {
		return err
	}
	opened := make(map[string]bool)
	for {
		switch p.tok.Kind {
		case lex.ITEM_NAME:
			if err := p.parseItemValue(sink, opened); err != nil {
				return err
			}
		case lex.LOOP:
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.parseLoop(sink); err != nil {
				return err
			}
		case lex.SAVE_END:
			if err := p.advance(); err != nil {
				return err
			}
			return sink.EndSaveFrame()
		case lex.EOF:
			return errf(p.tok.Line, "unterminated save frame %q", name)
		default:
			return errf(p.tok.Line, "unexpected %s in save frame %q", p.tok.Kind, name)
		}
	}
}

// Position locates a datablock header within a Parser's normalized
// buffer, as produced by IndexDatablocks.
type Position struct {
	Offset int
	Line   int
}

// IndexDatablocks performs a shallow scan recording the byte offset and
// line of every top-level DATA header, without building any store
// structures. It supports random access into very large files (spec
// §4.2).
func (p *Parser) IndexDatablocks() (map[string]Position, error) {
	scanner := lex.Resume(p.normalized, 0, 1)
	idx := make(map[string]Position)
	for {
		before := scanner.Pos()
		line := scanner.Line()
		tok, err := scanner.Next()
		if err != nil {
			if le, ok := err.(*lex.Error); ok {
				return nil, &Error{Line: le.Line, Msg: le.Msg}
			}
			return nil, err
		}
		if tok.Kind == lex.EOF {
			return idx, nil
		}
		if tok.Kind == lex.DATA {
			idx[tok.Name] = Position{Offset: before, Line: line}
		}
	}
}

// ParseSingleDatablock indexes every DATA header in the source (see
// IndexDatablocks), then resumes at the named one and parses that block
// only, ignoring everything else (spec §4.2).
func (p *Parser) ParseSingleDatablock(name string, sink Sink) error {
	idx, err := p.IndexDatablocks()
	if err != nil {
		return err
	}
	pos, ok := idx[name]
	if !ok {
		return errf(0, "datablock %q not found", name)
	}
	sub := &Parser{normalized: p.normalized, scanner: lex.Resume(p.normalized, pos.Offset, pos.Line)}
	if err := sub.advance(); err != nil {
		return err
	}
	if sub.tok.Kind != lex.DATA {
		return errf(pos.Line, "internal error: indexed position for %q is not a data_ header", name)
	}
	return sub.parseDatablock(sink)
}
