// Package listing composes the filter/sort/paginate flow shared by every
// list screen: a base collection, AND-ed predicates applied left to right,
// one sort order and 1-indexed pages.
package listing

import (
	"iter"
	"slices"
)

type Predicate[T any] func(T) bool

// Pipeline is immutable: Where and SortBy return new pipelines sharing the
// same base, so the unfiltered collection is always one Reset away.
type Pipeline[T any] struct {
	base  []T
	preds []Predicate[T]
	cmp   func(a, b T) int
}

func From[T any](items []T) Pipeline[T] {
	return Pipeline[T]{base: items}
}

func (p Pipeline[T]) Where(pred Predicate[T]) Pipeline[T] {
	if pred == nil {
		return p
	}
	preds := make([]Predicate[T], len(p.preds), len(p.preds)+1)
	copy(preds, p.preds)
	p.preds = append(preds, pred)
	return p
}

// WhereIf adds pred only when cond holds, for optional query parameters.
func (p Pipeline[T]) WhereIf(cond bool, pred Predicate[T]) Pipeline[T] {
	if !cond {
		return p
	}
	return p.Where(pred)
}

func (p Pipeline[T]) SortBy(cmp func(a, b T) int) Pipeline[T] {
	p.cmp = cmp
	return p
}

func (p Pipeline[T]) Reset() Pipeline[T] {
	return Pipeline[T]{base: p.base}
}

func (p Pipeline[T]) Base() []T {
	return p.base
}

func (p Pipeline[T]) match(item T) bool {
	for _, pred := range p.preds {
		if !pred(item) {
			return false
		}
	}
	return true
}

// Collect returns the filtered items in sort order. Equal keys keep their
// base order.
func (p Pipeline[T]) Collect() []T {
	out := make([]T, 0, len(p.base))
	for _, item := range p.base {
		if p.match(item) {
			out = append(out, item)
		}
	}
	if p.cmp != nil {
		slices.SortStableFunc(out, p.cmp)
	}
	return out
}

func (p Pipeline[T]) All() iter.Seq[T] {
	return slices.Values(p.Collect())
}

func (p Pipeline[T]) Count() int {
	n := 0
	for _, item := range p.base {
		if p.match(item) {
			n++
		}
	}
	return n
}

func (p Pipeline[T]) Page(page, size int) Page[T] {
	return Paginate(p.Collect(), page, size)
}
