package policy

import (
	"context"
	"errors"
	"testing"
)

// fakeCollaborator implements every provider contract with fixed replies.
type fakeCollaborator struct {
	name        string
	hiddenExts  map[string]string
	hiddenPerms []string
	hiddenPaths []string
	disabled    []string
	riskyForms  []string
	err         error
	panics      bool
}

func (f *fakeCollaborator) Name() string { return f.name }

func (f *fakeCollaborator) HiddenExtensions(ctx context.Context) (map[string]string, error) {
	if f.panics {
		panic("boom")
	}
	return f.hiddenExts, f.err
}

func (f *fakeCollaborator) HiddenPermissions(ctx context.Context) ([]string, error) {
	if f.panics {
		panic("boom")
	}
	return f.hiddenPerms, f.err
}

func (f *fakeCollaborator) HiddenPaths(ctx context.Context) ([]string, error) {
	if f.panics {
		panic("boom")
	}
	return f.hiddenPaths, f.err
}

func (f *fakeCollaborator) DisabledExtensions(ctx context.Context) ([]string, error) {
	if f.panics {
		panic("boom")
	}
	return f.disabled, f.err
}

func (f *fakeCollaborator) RiskyForms(ctx context.Context) ([]string, error) {
	if f.panics {
		panic("boom")
	}
	return f.riskyForms, f.err
}

// --- Register Tests ---

func TestRegistry_Register_DuplicateName(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&fakeCollaborator{name: "one"}); err != nil {
		t.Fatalf("Register() first: %v", err)
	}
	if err := r.Register(&fakeCollaborator{name: "one"}); err == nil {
		t.Fatal("Register() duplicate name should return error")
	}
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeCollaborator{name: "zulu"})
	r.MustRegister(&fakeCollaborator{name: "alpha"})

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zulu" {
		t.Errorf("Names() = %v, want [alpha zulu]", names)
	}
}

// --- Collect Tests ---

func TestRegistry_Collect_UnionsAndDeduplicates(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeCollaborator{name: "a", hiddenPerms: []string{"use php for settings", "administer software updates"}})
	r.MustRegister(&fakeCollaborator{name: "b", hiddenPerms: []string{"use php for settings", "run arbitrary code"}})

	got := r.Collect(context.Background(), CategoryHiddenPermissions)
	if len(got) != 3 {
		t.Fatalf("Collect() size = %d, want 3 (%v)", len(got), got.Sorted())
	}
	if !got.Has("run arbitrary code") {
		t.Error("Collect() missing declaration from second collaborator")
	}
}

func TestRegistry_Collect_SkipsFailingCollaborator(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeCollaborator{name: "broken", err: errors.New("backend down")})
	r.MustRegister(&fakeCollaborator{name: "ok", riskyForms: []string{"php_execute"}})

	got := r.Collect(context.Background(), CategoryRiskyForms)
	if len(got) != 1 || !got.Has("php_execute") {
		t.Errorf("Collect() = %v, want [php_execute]", got.Sorted())
	}
}

func TestRegistry_Collect_SkipsPanickingCollaborator(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeCollaborator{name: "panicky", panics: true})
	r.MustRegister(&fakeCollaborator{name: "ok", hiddenPaths: []string{"admin/config/development/php"}})

	got := r.Collect(context.Background(), CategoryHiddenPaths)
	if len(got) != 1 || !got.Has("admin/config/development/php") {
		t.Errorf("Collect() = %v, want surviving collaborator's reply only", got.Sorted())
	}
}

func TestRegistry_Collect_IgnoresEmptyIdentifiers(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeCollaborator{name: "sloppy", disabled: []string{"", "php"}})

	got := r.Collect(context.Background(), CategoryDisabledExtensions)
	if len(got) != 1 || !got.Has("php") {
		t.Errorf("Collect() = %v, want [php]", got.Sorted())
	}
}

func TestRegistry_CollectHiddenExtensions_Merges(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&fakeCollaborator{name: "a", hiddenExts: map[string]string{"php": "Core"}})
	r.MustRegister(&fakeCollaborator{name: "b", hiddenExts: map[string]string{"devel": "Development"}})

	got := r.CollectHiddenExtensions(context.Background())
	if len(got) != 2 {
		t.Fatalf("CollectHiddenExtensions() size = %d, want 2", len(got))
	}
	if got["php"] != "Core" {
		t.Errorf("CollectHiddenExtensions()[php] = %q, want %q", got["php"], "Core")
	}
}

// --- Snapshot / Fingerprint Tests ---

func TestSnapshot_Fingerprint_OrderIndependent(t *testing.T) {
	a := NewRegistry()
	a.MustRegister(&fakeCollaborator{name: "x", hiddenPerms: []string{"p1"}, riskyForms: []string{"f1"}})
	a.MustRegister(&fakeCollaborator{name: "y", hiddenPerms: []string{"p2"}, riskyForms: []string{"f2"}})

	b := NewRegistry()
	b.MustRegister(&fakeCollaborator{name: "y", hiddenPerms: []string{"p2"}, riskyForms: []string{"f2"}})
	b.MustRegister(&fakeCollaborator{name: "x", hiddenPerms: []string{"p1"}, riskyForms: []string{"f1"}})

	ctx := context.Background()
	fpA := a.Snapshot(ctx).Fingerprint()
	fpB := b.Snapshot(ctx).Fingerprint()
	if fpA != fpB {
		t.Errorf("Fingerprint() differs for identical declarations: %x vs %x", fpA, fpB)
	}
}

func TestSnapshot_Fingerprint_ChangesWithContent(t *testing.T) {
	base := NewRegistry()
	base.MustRegister(&fakeCollaborator{name: "x", hiddenPerms: []string{"p1"}})

	extended := NewRegistry()
	extended.MustRegister(&fakeCollaborator{name: "x", hiddenPerms: []string{"p1", "p2"}})

	ctx := context.Background()
	if base.Snapshot(ctx).Fingerprint() == extended.Snapshot(ctx).Fingerprint() {
		t.Error("Fingerprint() should change when declarations change")
	}
}

func TestSnapshot_Fingerprint_SectionsDoNotCollide(t *testing.T) {
	a := Snapshot{HiddenPermissions: NewSet("id")}
	b := Snapshot{HiddenPaths: NewSet("id")}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("Fingerprint() should distinguish the same id in different sections")
	}
}

func TestSnapshot_FingerprintString_FixedWidth(t *testing.T) {
	s := Snapshot{RiskyForms: NewSet("php_execute")}
	if got := s.FingerprintString(); len(got) != 16 {
		t.Errorf("FingerprintString() = %q, want 16 hex chars", got)
	}
}
