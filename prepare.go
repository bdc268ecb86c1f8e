package cif

import (
	"regexp"
	"strings"
)

// Prepared is a Condition bound to a specific Category: every atom's
// tag has been resolved to a column index and a type-appropriate
// compare function, and the two cheap rewrites of spec §4.5 have
// already run. Operator() evaluates in O(|condition|).
type Prepared struct {
	eval func(row *Row) bool

	// fastKey is set when the whole condition reduces to an equality
	// over the category's full key set (rewrite 3): Find can then look
	// the row up directly instead of scanning.
	fastKey      string
	fastKeyValid bool
}

// Operator evaluates the prepared condition against row.
func (p *Prepared) Operator(row *Row) bool {
	if row == nil {
		return false
	}
	return p.eval(row)
}

// Prepare binds cond to cat: resolving tags to column indices and
// comparison semantics, flattening nested ands, folding
// "eq(k,v) or is_empty(k)" into one atom, and detecting a full-key
// equality fast path.
func Prepare(cat *Category, cond Condition) (*Prepared, error) {
	cond = flatten(cond)
	cond = foldKeyEqualsOrEmpty(cond)

	p := &Prepared{}
	if key, ok := fullKeyEquality(cat, cond); ok {
		p.fastKey = key
		p.fastKeyValid = true
	}

	eval, err := bind(cat, cond)
	if err != nil {
		return nil, err
	}
	p.eval = eval
	return p, nil
}

// flatten recursively associates nested And nodes into one flat
// And{parts...} (spec §4.5 rewrite 1). Or nodes are flattened the same
// way for the same reason (evaluation is identical either nested or
// flat; flattening just removes redundant indirection).
func flatten(cond Condition) Condition {
	switch c := cond.(type) {
	case *andCond:
		var parts []Condition
		for _, p := range c.parts {
			p = flatten(p)
			if inner, ok := p.(*andCond); ok {
				parts = append(parts, inner.parts...)
			} else {
				parts = append(parts, p)
			}
		}
		return &andCond{parts: parts}
	case *orCond:
		var parts []Condition
		for _, p := range c.parts {
			p = flatten(p)
			if inner, ok := p.(*orCond); ok {
				parts = append(parts, inner.parts...)
			} else {
				parts = append(parts, p)
			}
		}
		return &orCond{parts: parts}
	case *notCond:
		return &notCond{inner: flatten(c.inner)}
	default:
		return cond
	}
}

// foldKeyEqualsOrEmpty rewrites any Or{Eq(k,v), IsEmpty(k)} (in either
// order, anywhere in the tree) into a single keyEqualsOrEmptyCond atom
// (spec §4.5 rewrite 2).
func foldKeyEqualsOrEmpty(cond Condition) Condition {
	switch c := cond.(type) {
	case *orCond:
		if len(c.parts) == 2 {
			if atom, ok := matchKeyEqualsOrEmptyPair(c.parts[0], c.parts[1]); ok {
				return atom
			}
		}
		parts := make([]Condition, len(c.parts))
		for i, p := range c.parts {
			parts[i] = foldKeyEqualsOrEmpty(p)
		}
		return &orCond{parts: parts}
	case *andCond:
		parts := make([]Condition, len(c.parts))
		for i, p := range c.parts {
			parts[i] = foldKeyEqualsOrEmpty(p)
		}
		return &andCond{parts: parts}
	case *notCond:
		return &notCond{inner: foldKeyEqualsOrEmpty(c.inner)}
	default:
		return cond
	}
}

func matchKeyEqualsOrEmptyPair(a, b Condition) (*keyEqualsOrEmptyCond, bool) {
	if eq, empty, ok := asEqAndEmpty(a, b); ok {
		return &keyEqualsOrEmptyCond{tag: eq.tag, value: eq.value}, empty.tag == eq.tag
	}
	if eq, empty, ok := asEqAndEmpty(b, a); ok {
		return &keyEqualsOrEmptyCond{tag: eq.tag, value: eq.value}, empty.tag == eq.tag
	}
	return nil, false
}

func asEqAndEmpty(a, b Condition) (*eqCond, *emptyCond, bool) {
	eq, ok1 := a.(*eqCond)
	empty, ok2 := b.(*emptyCond)
	if ok1 && ok2 && eq.op == opEq && !empty.negate {
		return eq, empty, true
	}
	return nil, nil, false
}

// fullKeyEquality reports whether cond (already flattened) is exactly
// a conjunction of equalities covering the category's complete key
// column set with no other conjuncts (a bare equality counts as a
// one-part conjunction), and if so returns the joined key
// string used to look the row up in the category's key index (spec
// §4.5 rewrite 3). Each value is normalized through the same
// per-column type semantics Category.rowKey uses to populate that
// index, so e.g. a uchar-typed key matches case-insensitively and a
// numb-typed key matches "1" against an indexed "1.0" exactly as a
// full compareFor-based scan would.
func fullKeyEquality(cat *Category, cond Condition) (string, bool) {
	if len(cat.keyNames) == 0 {
		return "", false
	}
	var conjuncts []Condition
	switch c := cond.(type) {
	case *andCond:
		conjuncts = c.parts
	case *eqCond:
		conjuncts = []Condition{c}
	default:
		return "", false
	}
	if len(conjuncts) != len(cat.keyNames) {
		return "", false
	}
	values := make(map[string]string, len(conjuncts))
	for _, p := range conjuncts {
		eq, ok := p.(*eqCond)
		if !ok || eq.op != opEq {
			return "", false
		}
		values[strings.ToLower(eq.tag)] = eq.value
	}
	parts := make([]string, len(cat.keyNames))
	for i, k := range cat.keyNames {
		v, ok := values[k]
		if !ok {
			return "", false
		}
		parts[i] = cat.normalizeFor(k)(v)
	}
	return joinKey(parts), true
}

// bind compiles cond into a closure that evaluates it against a row of
// cat, resolving each atom's comparison semantics from the category's
// attached dictionary type (defaulting to bytewise char comparison
// when no validator is attached).
func bind(cat *Category, cond Condition) (func(row *Row) bool, error) {
	switch c := cond.(type) {
	case allCond:
		return func(*Row) bool { return true }, nil
	case noneCond:
		return func(*Row) bool { return false }, nil
	case *andCond:
		fns, err := bindAll(cat, c.parts)
		if err != nil {
			return nil, err
		}
		return func(row *Row) bool {
			for _, fn := range fns {
				if !fn(row) {
					return false
				}
			}
			return true
		}, nil
	case *orCond:
		fns, err := bindAll(cat, c.parts)
		if err != nil {
			return nil, err
		}
		return func(row *Row) bool {
			for _, fn := range fns {
				if fn(row) {
					return true
				}
			}
			return false
		}, nil
	case *notCond:
		fn, err := bind(cat, c.inner)
		if err != nil {
			return nil, err
		}
		return func(row *Row) bool { return !fn(row) }, nil
	case *keyEqualsOrEmptyCond:
		idx := cat.columnIndex(c.tag)
		cmp := cat.compareFor(c.tag)
		return func(row *Row) bool {
			v, ok := row.At(idx)
			if !ok || v.IsEmpty() {
				return true
			}
			return cmp(v.Text, c.value) == 0
		}, nil
	case *eqCond:
		idx := cat.columnIndex(c.tag)
		cmp := cat.compareFor(c.tag)
		return func(row *Row) bool {
			v, _ := row.At(idx)
			r := cmp(v.Text, c.value)
			switch c.op {
			case opEq:
				return r == 0
			case opNe:
				return r != 0
			case opLt:
				return r < 0
			case opLe:
				return r <= 0
			case opGt:
				return r > 0
			case opGe:
				return r >= 0
			default:
				return false
			}
		}, nil
	case *emptyCond:
		idx := cat.columnIndex(c.tag)
		return func(row *Row) bool {
			v, ok := row.At(idx)
			empty := !ok || v.IsEmpty()
			if c.negate {
				return !empty
			}
			return empty
		}, nil
	case *inCond:
		idx := cat.columnIndex(c.tag)
		return func(row *Row) bool {
			v, ok := row.At(idx)
			return ok && c.set[v.Text]
		}, nil
	case *matchCond:
		idx := cat.columnIndex(c.tag)
		re, err := regexp.Compile(c.pattern)
		if err != nil {
			return nil, newf(KindInvalidName, "invalid condition regex %q: %v", c.pattern, err)
		}
		return func(row *Row) bool {
			v, ok := row.At(idx)
			return ok && re.MatchString(v.Text)
		}, nil
	default:
		return nil, newf(KindInvalidName, "unknown condition atom %T", cond)
	}
}

func bindAll(cat *Category, conds []Condition) ([]func(row *Row) bool, error) {
	fns := make([]func(row *Row) bool, len(conds))
	for i, c := range conds {
		fn, err := bind(cat, c)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	return fns, nil
}
