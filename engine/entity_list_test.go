package engine

import (
	"testing"
)

func TestEntityListOpenAppliesImmediately(t *testing.T) {
	l := NewEntityList("test")
	a := newProbe("a", 0)

	l.Add(a)
	if !l.Contains(a) || l.Len() != 1 {
		t.Fatalf("Expected immediate add, len=%d", l.Len())
	}

	// Duplicate add is ignored
	l.Add(a)
	if l.Len() != 1 {
		t.Errorf("Expected duplicate add ignored, len=%d", l.Len())
	}

	l.Remove(a)
	if l.Contains(a) || l.Len() != 0 {
		t.Errorf("Expected immediate remove, len=%d", l.Len())
	}

	// Removing a non-member is a no-op
	l.Remove(a)
}

func TestEntityListLockedDefers(t *testing.T) {
	l := NewEntityList("test")
	a, b := newProbe("a", 0), newProbe("b", 1)
	l.Add(a)

	l.SetLockMode(LockLocked)
	l.Add(b)
	l.Remove(a)

	if l.Contains(b) || !l.Contains(a) {
		t.Fatal("Expected mutations deferred while locked")
	}
	if adds, removes := l.Pending(); adds != 1 || removes != 1 {
		t.Errorf("Expected 1 pending add and 1 pending remove, got %d/%d", adds, removes)
	}

	l.SetLockMode(LockOpen)
	if !l.Contains(b) || l.Contains(a) {
		t.Error("Expected deferred mutations applied on unlock")
	}
	if adds, removes := l.Pending(); adds != 0 || removes != 0 {
		t.Errorf("Expected empty queues after unlock, got %d/%d", adds, removes)
	}
}

func TestEntityListErrorModePanics(t *testing.T) {
	l := NewEntityList("test")
	a := newProbe("a", 0)
	l.Add(a)
	l.SetLockMode(LockError)

	expectPanic(t, ErrMutationForbidden, func() { l.Add(newProbe("b", 0)) })
	expectPanic(t, ErrMutationForbidden, func() { l.Remove(a) })

	if l.Len() != 1 {
		t.Errorf("Expected membership untouched after rejected mutations, len=%d", l.Len())
	}
}

func TestEntityListLastOperationWins(t *testing.T) {
	l := NewEntityList("test")
	member := newProbe("member", 0)
	fresh := newProbe("fresh", 0)
	l.Add(member)

	l.SetLockMode(LockLocked)
	l.Add(fresh)
	l.Remove(fresh) // cancels the pending add
	l.Remove(member)
	l.Add(member) // cancels the pending remove
	l.SetLockMode(LockOpen)

	if l.Contains(fresh) {
		t.Error("Expected add cancelled by later remove")
	}
	if !l.Contains(member) {
		t.Error("Expected remove cancelled by later add")
	}
}

func TestEntityListIterationDefersOpenMutation(t *testing.T) {
	l := NewEntityList("test")
	a, b := newProbe("a", 0), newProbe("b", 1)
	late := newProbe("late", -1)
	l.Add(a)
	l.Add(b)

	var seen []string
	for e := range l.All() {
		p := e.(*probeEntity)
		seen = append(seen, p.name)
		if p == a {
			l.Add(late)
			l.Remove(b)
		}
	}

	if !equalStrings(seen, []string{"a", "b"}) {
		t.Errorf("Expected iteration to ignore in-loop mutation, saw %v", seen)
	}
	if !equalStrings(names(l), []string{"late", "a"}) {
		t.Errorf("Expected mutations applied after the loop, got %v", names(l))
	}
}

func TestEntityListBreakStillFlushes(t *testing.T) {
	l := NewEntityList("test")
	a := newProbe("a", 0)
	extra := newProbe("extra", 5)
	l.Add(a)

	for range l.All() {
		l.Add(extra)
		break
	}

	if !l.Contains(extra) {
		t.Error("Expected deferred add applied after early break")
	}
}

func TestEntityListNestedIterationKeepsOrder(t *testing.T) {
	l := NewEntityList("test")
	for i, n := range []string{"a", "b", "c"} {
		l.Add(newProbe(n, float64(i)))
	}

	var outer []string
	for e := range l.All() {
		outer = append(outer, e.(*probeEntity).name)
		if e.(*probeEntity).name == "a" {
			// Invalidate and iterate again, the inner loop must not resort
			l.entities[2].Core().actualDepth = -10
			l.MarkUnsorted()
			inner := 0
			for range l.All() {
				inner++
			}
			if inner != 3 {
				t.Errorf("Expected 3 entities in nested pass, got %d", inner)
			}
		}
	}

	if !equalStrings(outer, []string{"a", "b", "c"}) {
		t.Errorf("Expected outer order unaffected by nested pass, got %v", outer)
	}
	if !equalStrings(names(l), []string{"c", "a", "b"}) {
		t.Errorf("Expected resort on next full pass, got %v", names(l))
	}
}

func TestEntityListSortsOnIteration(t *testing.T) {
	l := NewEntityList("test")
	l.Add(newProbe("mid", 5))
	l.Add(newProbe("back", 10))
	l.Add(newProbe("front", -3))

	if l.Sorted() {
		t.Error("Expected list unsorted after adds")
	}
	if !equalStrings(names(l), []string{"front", "mid", "back"}) {
		t.Errorf("Expected ascending depth order, got %v", names(l))
	}
	if !l.Sorted() {
		t.Error("Expected list sorted after iteration")
	}

	snap := l.Snapshot(nil)
	if len(snap) != 3 || snap[0].(*probeEntity).name != "front" {
		t.Errorf("Expected snapshot in depth order, got %d entries", len(snap))
	}
}

func TestEntityListSteadyStateNoAlloc(t *testing.T) {
	l := NewEntityList("test")
	pool := make([]*probeEntity, 8)
	for i := range pool {
		pool[i] = newProbe("p", float64(i))
		l.Add(pool[i])
	}
	visit := func(Entity) {}

	// Warm the double buffers
	for i := 0; i < 2; i++ {
		l.SetLockMode(LockLocked)
		l.Remove(pool[0])
		l.SetLockMode(LockOpen)
		l.SetLockMode(LockLocked)
		l.Add(pool[0])
		l.SetLockMode(LockOpen)
	}

	allocs := testing.AllocsPerRun(100, func() {
		l.SetLockMode(LockLocked)
		l.Each(visit)
		l.Remove(pool[0])
		l.SetLockMode(LockOpen)
		l.SetLockMode(LockLocked)
		l.Add(pool[0])
		l.SetLockMode(LockOpen)
	})
	if allocs > 0 {
		t.Errorf("Expected no allocations per locked frame, got %.1f", allocs)
	}
}

func TestLockModeString(t *testing.T) {
	cases := map[LockMode]string{
		LockOpen:    "open",
		LockLocked:  "locked",
		LockError:   "error",
		LockMode(9): "LockMode(9)",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
