package entity

import (
	"fmt"
	"sort"

	"github.com/mlange-42/ark/ecs"
)

// MultiplicityError reports a query that was expected to match exactly one
// entity but matched Count.
type MultiplicityError struct {
	Criteria string
	Count    int
}

func (e *MultiplicityError) Error() string {
	return fmt.Sprintf("entity: expected exactly one match for %s, found %d", e.Criteria, e.Count)
}

// record is the ark component that carries a registered entity.
type record struct {
	e Entity
}

// Registry owns every live entity.
//
// Each registered entity is an entity of an ark world carrying a record
// component, so handles are generational and a removed handle never reads as
// alive again. Removal deletes the ark entity at once and the entity
// disappears from all later queries, including queries made later in the
// same pass; its place in the insertion order is reclaimed by Compact at the
// end of the pass. Snapshots returned by Get therefore stay valid while
// entities are added and removed.
type Registry struct {
	world   *ecs.World
	records *ecs.Map1[record]
	all     *ecs.Filter1[record]
	order   []ecs.Entity
	index   map[ID]ecs.Entity
	nextID  ID
	dead    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	w := ecs.NewWorld()
	return &Registry{
		world:   w,
		records: ecs.NewMap1[record](w),
		all:     ecs.NewFilter1[record](w),
		index:   make(map[ID]ecs.Entity),
	}
}

// Add registers e and assigns it a fresh ID. Adding an entity that is already
// live is a no-op.
func (r *Registry) Add(e Entity) ID {
	b := e.Core()
	if b.id != 0 {
		if _, ok := r.index[b.id]; ok {
			return b.id
		}
	}
	r.nextID++
	b.id = r.nextID
	h := r.records.NewEntity(&record{e: e})
	r.index[b.id] = h
	r.order = append(r.order, h)
	return b.id
}

// Remove deletes e by identity. Removing an absent entity does nothing.
func (r *Registry) Remove(e Entity) {
	r.RemoveID(e.Core().id)
}

// RemoveID deletes the entity with the given ID, if present.
func (r *Registry) RemoveID(id ID) {
	h, ok := r.index[id]
	if !ok {
		return
	}
	delete(r.index, id)
	r.world.RemoveEntity(h)
	r.dead++
}

// RemoveAll deletes every entity matching all criteria and returns how many
// were removed.
func (r *Registry) RemoveAll(criteria ...Criterion) int {
	var doomed []ID
	query := r.all.Query()
	for query.Next() {
		rec := query.Get()
		if matches(rec.e, criteria) {
			doomed = append(doomed, rec.e.Core().id)
		}
	}
	for _, id := range doomed {
		r.RemoveID(id)
	}
	return len(doomed)
}

// live calls fn for every live entity in insertion order until fn returns
// false.
func (r *Registry) live(fn func(Entity) bool) {
	for _, h := range r.order {
		if !r.world.Alive(h) {
			continue
		}
		if !fn(r.records.Get(h).e) {
			return
		}
	}
}

// Get returns every live entity matching all criteria, in insertion order.
func (r *Registry) Get(criteria ...Criterion) []Entity {
	var out []Entity
	r.live(func(e Entity) bool {
		if matches(e, criteria) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// One returns the single entity matching all criteria, or a
// *MultiplicityError when there are zero or several.
func (r *Registry) One(criteria ...Criterion) (Entity, error) {
	var found Entity
	count := 0
	r.live(func(e Entity) bool {
		if matches(e, criteria) {
			count++
			found = e
		}
		return true
	})
	if count != 1 {
		return nil, &MultiplicityError{Criteria: describe(criteria), Count: count}
	}
	return found, nil
}

// MustOne is One for collaborators that must exist; a miss is a programming
// error and panics with the *MultiplicityError.
func (r *Registry) MustOne(criteria ...Criterion) Entity {
	e, err := r.One(criteria...)
	if err != nil {
		panic(err)
	}
	return e
}

// Any reports whether at least one entity matches all criteria.
func (r *Registry) Any(criteria ...Criterion) bool {
	found := false
	r.live(func(e Entity) bool {
		found = matches(e, criteria)
		return !found
	})
	return found
}

// Count returns the number of matching entities.
func (r *Registry) Count(criteria ...Criterion) int {
	n := 0
	r.live(func(e Entity) bool {
		if matches(e, criteria) {
			n++
		}
		return true
	})
	return n
}

// Lookup returns the live entity with the given ID.
func (r *Registry) Lookup(id ID) (Entity, bool) {
	h, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.records.Get(h).e, true
}

// Alive reports whether e is still registered.
func (r *Registry) Alive(e Entity) bool {
	h, ok := r.index[e.Core().id]
	return ok && r.world.Alive(h)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.index)
}

// Compact drops removed handles from the insertion order. Call it between
// passes, never while a snapshot of the order is being walked.
func (r *Registry) Compact() {
	if r.dead == 0 {
		return
	}
	live := r.order[:0]
	for _, h := range r.order {
		if r.world.Alive(h) {
			live = append(live, h)
		}
	}
	clear(r.order[len(live):])
	r.order = live
	r.dead = 0
}

// SortByDepth orders entities by ascending depth, keeping insertion order
// among equal depths.
func SortByDepth(es []Entity) {
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].Depth() < es[j].Depth()
	})
}

// OfType keeps the entities that are of Go type T.
func OfType[T any](es []Entity) []T {
	out := make([]T, 0, len(es))
	for _, e := range es {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// MustOneAs is MustOne followed by a type assertion to T.
func MustOneAs[T any](r *Registry, criteria ...Criterion) T {
	e := r.MustOne(criteria...)
	t, ok := e.(T)
	if !ok {
		panic(fmt.Sprintf("entity: %s matched %T, not %T", describe(criteria), e, t))
	}
	return t
}
