package store

import "testing"

func newTestRegistry() *Registry {
	return NewRegistry(quietLogger())
}

func TestRegistryCreateAutoIDs(t *testing.T) {
	r := newTestRegistry()

	first := r.Create(Options{})
	second := r.Create(Options{})

	if first.ID() != "flow-1" || second.ID() != "flow-2" {
		t.Errorf("auto ids = %q, %q, want flow-1, flow-2", first.ID(), second.ID())
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistryAutoIDsNeverReused(t *testing.T) {
	r := newTestRegistry()

	first := r.Create(Options{})
	r.Dispose(first.ID())

	second := r.Create(Options{})
	if second.ID() == first.ID() {
		t.Errorf("auto id %q reused after disposal", second.ID())
	}
}

func TestRegistryGet(t *testing.T) {
	r := newTestRegistry()
	st := r.Create(Options{ID: "main"})

	got, ok := r.Get("main")
	if !ok || got != st {
		t.Error("Get did not return the registered instance")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("Get returned an unregistered instance")
	}
}

func TestRegistryCreateOverExistingDetachesPrevious(t *testing.T) {
	r := newTestRegistry()

	prev := r.Create(Options{ID: "main"})
	next := r.Create(Options{ID: "main"})

	got, _ := r.Get("main")
	if got != next {
		t.Fatal("registry does not point at the new instance")
	}

	// The detached instance stays usable and its destruction must not
	// deregister the new one.
	if prev.Destroyed() {
		t.Error("previous instance was destroyed by takeover")
	}
	prev.Destroy()
	if _, ok := r.Get("main"); !ok {
		t.Error("destroying the detached instance deregistered the new one")
	}
}

func TestRegistryResolve(t *testing.T) {
	r := newTestRegistry()

	t.Run("ProvidedMatchWins", func(t *testing.T) {
		st := r.Create(Options{ID: "a"})
		if got := r.Resolve("a", st, Options{}); got != st {
			t.Error("matching provided instance not returned")
		}
		if got := r.Resolve("", st, Options{}); got != st {
			t.Error("provided instance not returned for empty id")
		}
	})

	t.Run("MismatchForcesCreate", func(t *testing.T) {
		st := r.Create(Options{ID: "b"})
		existing := r.Create(Options{ID: "c"})

		got := r.Resolve("c", st, Options{})
		if got == st || got == existing {
			t.Error("id mismatch with provided instance must create fresh, got an existing one")
		}
		if got.ID() != "c" {
			t.Errorf("recreated instance id = %q, want %q", got.ID(), "c")
		}
	})

	t.Run("LookupByID", func(t *testing.T) {
		st := r.Create(Options{ID: "d"})
		if got := r.Resolve("d", nil, Options{}); got != st {
			t.Error("registry lookup did not return the registered instance")
		}
	})

	t.Run("CreateNew", func(t *testing.T) {
		got := r.Resolve("fresh", nil, Options{})
		if got.ID() != "fresh" {
			t.Errorf("created instance id = %q, want %q", got.ID(), "fresh")
		}
		if _, ok := r.Get("fresh"); !ok {
			t.Error("created instance not registered")
		}
	})
}

func TestRegistryDispose(t *testing.T) {
	r := newTestRegistry()
	st := r.Create(Options{ID: "main"})

	r.Dispose("main")

	if !st.Destroyed() {
		t.Error("Dispose did not destroy the instance")
	}
	if _, ok := r.Get("main"); ok {
		t.Error("disposed instance still registered")
	}

	// Disposing twice (or an unknown id) is non-fatal.
	r.Dispose("main")
	r.Dispose("never-existed")
}

func TestRegistryDestroyDeregisters(t *testing.T) {
	r := newTestRegistry()
	st := r.Create(Options{ID: "main"})

	// Destroying the instance directly must also deregister it.
	st.Destroy()
	if _, ok := r.Get("main"); ok {
		t.Error("destroyed instance still registered")
	}
}

func TestRegistryDisposeAll(t *testing.T) {
	r := newTestRegistry()
	a := r.Create(Options{})
	b := r.Create(Options{})

	r.DisposeAll()

	if r.Len() != 0 {
		t.Errorf("Len = %d after DisposeAll, want 0", r.Len())
	}
	if !a.Destroyed() || !b.Destroyed() {
		t.Error("DisposeAll left an instance live")
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	r := newTestRegistry()
	r.Create(Options{ID: "charlie"})
	r.Create(Options{ID: "alpha"})
	r.Create(Options{ID: "bravo"})

	ids := r.IDs()
	want := []string{"alpha", "bravo", "charlie"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
