package listing

import (
	"cmp"
	"strings"
	"time"
)

// ContainsFold matches when field contains q, ignoring case. An empty q
// matches everything.
func ContainsFold[T any](field func(T) string, q string) Predicate[T] {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(item T) bool {
		return q == "" || strings.Contains(strings.ToLower(field(item)), q)
	}
}

func Equal[T any, V comparable](field func(T) V, v V) Predicate[T] {
	return func(item T) bool {
		return field(item) == v
	}
}

// InRange matches min <= field <= max; nil bounds are open.
func InRange[T any, V cmp.Ordered](field func(T) V, min, max *V) Predicate[T] {
	return func(item T) bool {
		v := field(item)
		if min != nil && v < *min {
			return false
		}
		if max != nil && v > *max {
			return false
		}
		return true
	}
}

// TimeBetween matches from <= field < to; nil bounds are open.
func TimeBetween[T any](field func(T) time.Time, from, to *time.Time) Predicate[T] {
	return func(item T) bool {
		v := field(item)
		if from != nil && v.Before(*from) {
			return false
		}
		if to != nil && !v.Before(*to) {
			return false
		}
		return true
	}
}

// By orders ascending on field.
func By[T any, V cmp.Ordered](field func(T) V) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(field(a), field(b))
	}
}

func ByTime[T any](field func(T) time.Time) func(a, b T) int {
	return func(a, b T) int {
		return field(a).Compare(field(b))
	}
}

func Desc[T any](c func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		return c(b, a)
	}
}

// Then chains comparators; later ones break ties of earlier ones.
func Then[T any](cs ...func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		for _, c := range cs {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}
