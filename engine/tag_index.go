package engine

import (
	"fmt"

	"github.com/lixenwraith/vi-scene/tag"
)

// TagIndex holds one EntityList per tag id, allocated on first use
// Every slot follows the mode set through SetLockMode, never its own
type TagIndex struct {
	lists []*EntityList
	mode  LockMode
	hooks listHooks
}

func newTagIndex(maxTags int, violation func(error)) *TagIndex {
	return &TagIndex{
		lists: make([]*EntityList, maxTags),
		hooks: listHooks{violation: violation},
	}
}

// MaxTags returns the exclusive upper bound on tag ids
func (ti *TagIndex) MaxTags() int { return len(ti.lists) }

func (ti *TagIndex) check(t tag.Tag) {
	if int(t) >= len(ti.lists) {
		err := fmt.Errorf("%w: %d not in [0, %d)", ErrTagOutOfRange, t, len(ti.lists))
		if ti.hooks.violation != nil {
			ti.hooks.violation(err)
		}
		panic(err)
	}
}

// validate panics if any tag in s exceeds the index bound
func (ti *TagIndex) validate(s tag.Set) {
	if max, ok := s.Max(); ok {
		ti.check(max)
	}
}

// Lookup returns the list for t, nil if never used
func (ti *TagIndex) Lookup(t tag.Tag) *EntityList {
	ti.check(t)
	return ti.lists[t]
}

// List returns the list for t, allocating it in the current mode
func (ti *TagIndex) List(t tag.Tag) *EntityList {
	ti.check(t)
	l := ti.lists[t]
	if l == nil {
		l = NewEntityList(fmt.Sprintf("tag %d", t))
		l.hooks = ti.hooks
		l.mode = ti.mode
		ti.lists[t] = l
	}
	return l
}

// TagEntity adds e to the list for t
func (ti *TagIndex) TagEntity(t tag.Tag, e Entity) {
	ti.List(t).Add(e)
}

// UntagEntity removes e from the list for t
func (ti *TagIndex) UntagEntity(t tag.Tag, e Entity) {
	if l := ti.Lookup(t); l != nil {
		l.Remove(e)
	}
}

// entityAdded places e in every list of its tag set
func (ti *TagIndex) entityAdded(e Entity) {
	e.Core().tags.Each(func(t tag.Tag) { ti.TagEntity(t, e) })
}

// entityRemoved drops e from every list of its tag set
func (ti *TagIndex) entityRemoved(e Entity) {
	e.Core().tags.Each(func(t tag.Tag) { ti.UntagEntity(t, e) })
}

// retag moves e between lists for a tag set change
// Panics before touching any list when the index is in LockError
func (ti *TagIndex) retag(e Entity, prev, next tag.Set) {
	ti.validate(next)
	if ti.mode == LockError {
		err := fmt.Errorf("%w: retag %T", ErrMutationForbidden, e)
		if ti.hooks.violation != nil {
			ti.hooks.violation(err)
		}
		panic(err)
	}
	added, removed := next.Diff(prev)
	added.Each(func(t tag.Tag) { ti.TagEntity(t, e) })
	removed.Each(func(t tag.Tag) { ti.UntagEntity(t, e) })
}

// markUnsorted invalidates every list e belongs to
func (ti *TagIndex) markUnsorted(s tag.Set) {
	s.Each(func(t tag.Tag) {
		if int(t) < len(ti.lists) && ti.lists[t] != nil {
			ti.lists[t].MarkUnsorted()
		}
	})
}

// SetLockMode drives every instantiated list and future allocations
func (ti *TagIndex) SetLockMode(m LockMode) {
	ti.mode = m
	for _, l := range ti.lists {
		if l != nil {
			l.SetLockMode(m)
		}
	}
}
