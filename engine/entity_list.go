package engine

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// listHooks lets the owning scene react to applied membership changes
// Tag lists run without hooks, the main list carries the scene lifecycle
type listHooks struct {
	admit     func(Entity)
	dropped   func(Entity)
	added     func(Entity)
	removed   func(Entity)
	awake     func(Entity)
	violation func(error)
}

// EntityList is a depth-ordered entity container with deferred mutation
// Iteration order is ascending (actual depth, resolve sequence)
// Mutations never apply while an iteration over the list is in progress
type EntityList struct {
	name string

	entities []Entity
	index    map[Entity]int

	// Pending mutations, double-buffered against the spare slices
	toAdd       []Entity
	toRemove    []Entity
	spareAdd    []Entity
	spareRemove []Entity
	adding      map[Entity]struct{}
	removing    map[Entity]struct{}

	mode      LockMode
	sorted    bool
	iterating int
	flushing  bool

	hooks listHooks
}

// NewEntityList creates an empty open list
func NewEntityList(name string) *EntityList {
	return &EntityList{
		name:     name,
		entities: make([]Entity, 0, 64),
		index:    make(map[Entity]int, 64),
		adding:   make(map[Entity]struct{}),
		removing: make(map[Entity]struct{}),
		sorted:   true,
	}
}

// Name returns the diagnostic name of the list
func (l *EntityList) Name() string { return l.name }

// Len returns the number of applied members, pending adds excluded
func (l *EntityList) Len() int { return len(l.entities) }

// Contains reports applied membership of e
func (l *EntityList) Contains(e Entity) bool {
	_, ok := l.index[e]
	return ok
}

// Pending returns the number of queued adds and removes
func (l *EntityList) Pending() (adds, removes int) {
	return len(l.toAdd), len(l.toRemove)
}

// Sorted reports whether the cached order is current
func (l *EntityList) Sorted() bool { return l.sorted }

// LockMode returns the current mode
func (l *EntityList) LockMode() LockMode { return l.mode }

// SetLockMode switches mode, a transition to LockOpen applies queued mutations
func (l *EntityList) SetLockMode(m LockMode) {
	l.mode = m
	if m == LockOpen && l.iterating == 0 {
		l.flush()
	}
}

// MarkUnsorted invalidates the cached order, idempotent
func (l *EntityList) MarkUnsorted() {
	l.sorted = false
}

// effectiveMode folds in-progress iteration into the deferral decision
func (l *EntityList) effectiveMode() LockMode {
	if l.mode == LockOpen && (l.iterating > 0 || l.flushing) {
		return LockLocked
	}
	return l.mode
}

// Add inserts e, deferred while locked or iterating
// Panics with ErrMutationForbidden in LockError. The admit hook may panic
// before anything is queued or inserted
func (l *EntityList) Add(e Entity) {
	mode := l.effectiveMode()
	if mode == LockError {
		l.fail("add", e)
	}
	if l.hooks.admit != nil {
		l.hooks.admit(e)
	}
	switch mode {
	case LockLocked:
		l.queueAdd(e)
	default:
		if l.Contains(e) {
			return
		}
		l.insert(e)
		if l.hooks.awake != nil {
			l.hooks.awake(e)
		}
	}
}

// Remove deletes e, deferred while locked or iterating
// Panics with ErrMutationForbidden in LockError
func (l *EntityList) Remove(e Entity) {
	switch l.effectiveMode() {
	case LockError:
		l.fail("remove", e)
	case LockLocked:
		l.queueRemove(e)
	default:
		if !l.Contains(e) {
			return
		}
		l.erase(e)
	}
}

func (l *EntityList) fail(op string, e Entity) {
	err := fmt.Errorf("%w: %s %T on %s list", ErrMutationForbidden, op, e, l.name)
	if l.hooks.violation != nil {
		l.hooks.violation(err)
	}
	panic(err)
}

// queueAdd records a deferred add, cancelling a pending remove of the same entity
func (l *EntityList) queueAdd(e Entity) {
	if _, ok := l.removing[e]; ok {
		delete(l.removing, e)
		l.toRemove = deleteEntity(l.toRemove, e)
		return
	}
	if l.Contains(e) {
		return
	}
	if _, ok := l.adding[e]; ok {
		return
	}
	l.adding[e] = struct{}{}
	l.toAdd = append(l.toAdd, e)
}

// queueRemove records a deferred remove, cancelling a pending add of the same entity
func (l *EntityList) queueRemove(e Entity) {
	if _, ok := l.adding[e]; ok {
		delete(l.adding, e)
		l.toAdd = deleteEntity(l.toAdd, e)
		if l.hooks.dropped != nil {
			l.hooks.dropped(e)
		}
		return
	}
	if !l.Contains(e) {
		return
	}
	if _, ok := l.removing[e]; ok {
		return
	}
	l.removing[e] = struct{}{}
	l.toRemove = append(l.toRemove, e)
}

// deleteEntity removes e from s preserving queue order
func deleteEntity(s []Entity, e Entity) []Entity {
	for i, v := range s {
		if v == e {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}

func (l *EntityList) insert(e Entity) {
	l.index[e] = len(l.entities)
	l.entities = append(l.entities, e)
	l.sorted = false
	if l.hooks.added != nil {
		l.hooks.added(e)
	}
}

// erase swap-removes e, order is restored by the next sort
func (l *EntityList) erase(e Entity) {
	i := l.index[e]
	last := len(l.entities) - 1
	if i != last {
		moved := l.entities[last]
		l.entities[i] = moved
		l.index[moved] = i
	}
	l.entities[last] = nil
	l.entities = l.entities[:last]
	delete(l.index, e)
	l.sorted = false
	if l.hooks.removed != nil {
		l.hooks.removed(e)
	}
}

// flush applies queued adds, then queued removes, then awake hooks for the added batch
func (l *EntityList) flush() {
	if l.flushing {
		return
	}
	l.flushing = true
	defer func() { l.flushing = false }()

	for len(l.toAdd) > 0 || len(l.toRemove) > 0 {
		adds, removes := l.toAdd, l.toRemove
		l.toAdd, l.toRemove = l.spareAdd[:0], l.spareRemove[:0]
		clear(l.adding)
		clear(l.removing)

		for _, e := range adds {
			if !l.Contains(e) {
				l.insert(e)
			}
		}
		for _, e := range removes {
			if l.Contains(e) {
				l.erase(e)
			}
		}
		if l.hooks.awake != nil {
			for _, e := range adds {
				if l.Contains(e) {
					l.hooks.awake(e)
				}
			}
		}

		clear(adds)
		clear(removes)
		l.spareAdd, l.spareRemove = adds[:0], removes[:0]
	}
}

// sort restores ascending depth order, skipped while iterating
func (l *EntityList) sort() {
	if l.sorted || l.iterating > 0 {
		return
	}
	slices.SortFunc(l.entities, compareDepth)
	for i, e := range l.entities {
		l.index[e] = i
	}
	l.sorted = true
}

// compareDepth is a total order: actual depth, then resolve sequence
func compareDepth(a, b Entity) int {
	ab, bb := a.Core(), b.Core()
	if c := cmp.Compare(ab.actualDepth, bb.actualDepth); c != 0 {
		return c
	}
	return cmp.Compare(ab.depthSeq, bb.depthSeq)
}

func (l *EntityList) beginIter() {
	l.sort()
	l.iterating++
}

func (l *EntityList) endIter() {
	l.iterating--
	if l.iterating == 0 && l.mode == LockOpen {
		l.flush()
	}
}

// All yields members in depth order
// Mutations issued during the loop apply after it completes
func (l *EntityList) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		l.beginIter()
		defer l.endIter()
		for _, e := range l.entities {
			if !yield(e) {
				return
			}
		}
	}
}

// Each calls fn for every member in depth order, closure-free variant of All
func (l *EntityList) Each(fn func(Entity)) {
	l.beginIter()
	defer l.endIter()
	for _, e := range l.entities {
		fn(e)
	}
}

// Snapshot appends members in depth order to dst
func (l *EntityList) Snapshot(dst []Entity) []Entity {
	l.sort()
	return append(dst, l.entities...)
}
