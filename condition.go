package cif

import "strings"

// Condition is a row predicate over a Category: an algebraic value
// built from the combinators below and evaluated by preparing it
// against a specific category (see Prepare). Built conditions are
// immutable and may be reused across categories.
type Condition interface {
	isCondition()
}

type compareOp int

const (
	opEq compareOp = iota
	opNe
	opLt
	opLe
	opGt
	opGe
)

type eqCond struct {
	tag   string
	op    compareOp
	value string
}

type emptyCond struct {
	tag    string
	negate bool
}

type inCond struct {
	tag string
	set map[string]bool
}

type matchCond struct {
	tag     string
	pattern string
}

type andCond struct{ parts []Condition }
type orCond struct{ parts []Condition }
type notCond struct{ inner Condition }
type allCond struct{}
type noneCond struct{}

// keyEqualsOrEmptyCond is the atom Prepare rewrites
// "(key(k)==v) or key(k).is_empty()" into (spec §4.5 rewrite 2).
type keyEqualsOrEmptyCond struct {
	tag   string
	value string
}

func (*eqCond) isCondition()               {}
func (*emptyCond) isCondition()            {}
func (*inCond) isCondition()               {}
func (*matchCond) isCondition()            {}
func (*andCond) isCondition()              {}
func (*orCond) isCondition()               {}
func (*notCond) isCondition()              {}
func (allCond) isCondition()               {}
func (noneCond) isCondition()              {}
func (*keyEqualsOrEmptyCond) isCondition() {}

// All matches every row.
var All Condition = allCond{}

// None matches no row.
var None Condition = noneCond{}

// KeyExpr is a builder bound to one item tag; its methods each produce
// an atomic Condition over that tag.
type KeyExpr struct {
	category string
	item     string
}

// Key names an item (in "category.item" or bare "item" form) to build
// atomic conditions against.
func Key(tag string) KeyExpr {
	category, item, ok := strings.Cut(tag, ".")
	if !ok {
		return KeyExpr{item: tag}
	}
	return KeyExpr{category: category, item: item}
}

func (k KeyExpr) Eq(value string) Condition { return &eqCond{tag: k.item, op: opEq, value: value} }
func (k KeyExpr) Ne(value string) Condition { return &eqCond{tag: k.item, op: opNe, value: value} }
func (k KeyExpr) Lt(value string) Condition { return &eqCond{tag: k.item, op: opLt, value: value} }
func (k KeyExpr) Le(value string) Condition { return &eqCond{tag: k.item, op: opLe, value: value} }
func (k KeyExpr) Gt(value string) Condition { return &eqCond{tag: k.item, op: opGt, value: value} }
func (k KeyExpr) Ge(value string) Condition { return &eqCond{tag: k.item, op: opGe, value: value} }

// IsEmpty matches rows whose cell for this item is missing or one of
// the "." / "?" sentinels.
func (k KeyExpr) IsEmpty() Condition { return &emptyCond{tag: k.item} }

// IsPresent is the negation of IsEmpty.
func (k KeyExpr) IsPresent() Condition { return &emptyCond{tag: k.item, negate: true} }

// In matches rows whose cell for this item equals one of set exactly.
func (k KeyExpr) In(set ...string) Condition {
	m := make(map[string]bool, len(set))
	for _, s := range set {
		m[s] = true
	}
	return &inCond{tag: k.item, set: m}
}

// Matches matches rows whose cell's raw text satisfies a regular
// expression (Go RE2 syntax; this is a query-time convenience, not
// the dictionary's POSIX-ERE construct grammar).
func (k KeyExpr) Matches(pattern string) Condition {
	return &matchCond{tag: k.item, pattern: pattern}
}

// And combines conditions with short-circuit conjunction.
func And(parts ...Condition) Condition { return &andCond{parts: parts} }

// Or combines conditions with short-circuit disjunction.
func Or(parts ...Condition) Condition { return &orCond{parts: parts} }

// Not negates a condition.
func Not(c Condition) Condition { return &notCond{inner: c} }
