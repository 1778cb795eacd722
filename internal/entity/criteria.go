package entity

import (
	"fmt"
	"strings"

	"github.com/samdwyer/gloam/internal/physics"
)

// Criterion selects entities. Tag, Kind and Pred implement it.
type Criterion interface {
	Match(e Entity) bool
}

// Pred is an arbitrary predicate criterion.
type Pred func(e Entity) bool

// Match implements Criterion.
func (p Pred) Match(e Entity) bool {
	return p(e)
}

// Except matches every entity but the one with the given ID.
func Except(id ID) Criterion {
	return Pred(func(e Entity) bool { return e.Core().id != id })
}

// Touching matches entities whose box overlaps r.
func Touching(r physics.Rect) Criterion {
	return Pred(func(e Entity) bool { return e.Core().Rect().Overlaps(r) })
}

// ContainingPoint matches entities whose box contains (x, y), edges included.
func ContainingPoint(x, y float64) Criterion {
	return Pred(func(e Entity) bool { return e.Core().Rect().ContainsPoint(x, y) })
}

// Not inverts a criterion.
func Not(c Criterion) Criterion {
	return Pred(func(e Entity) bool { return !c.Match(e) })
}

// Visible matches entities whose visibility flag is set.
var Visible Criterion = Pred(func(e Entity) bool { return e.Core().Visible })

func matches(e Entity, criteria []Criterion) bool {
	for _, c := range criteria {
		if !c.Match(e) {
			return false
		}
	}
	return true
}

func describe(criteria []Criterion) string {
	parts := make([]string, 0, len(criteria))
	for _, c := range criteria {
		switch c := c.(type) {
		case fmt.Stringer:
			parts = append(parts, c.String())
		default:
			parts = append(parts, "predicate")
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
