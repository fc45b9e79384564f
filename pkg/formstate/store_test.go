package formstate

import (
	"testing"

	"github.com/goliatone/go-formval/pkg/schema"
	"github.com/google/go-cmp/cmp"
)

func sampleForm() schema.FormSchema {
	return schema.FormSchema{
		Sections: []schema.Section{{
			ID: "main",
			Fields: []schema.FieldSchema{
				{Name: "plan", Type: schema.FieldTypeSelect, Default: "free",
					Options: []schema.Option{{Label: "Free", Value: "free"}, {Label: "Pro", Value: "pro"}}},
				{Name: "username", Type: schema.FieldTypeText},
			},
		}},
	}
}

func TestStoreSeedsDefaults(t *testing.T) {
	t.Parallel()

	store := New(sampleForm())

	got, ok := store.Get("plan")
	if !ok || got != "free" {
		t.Fatalf("Get(plan) = %v, %v; want free", got, ok)
	}
	if _, ok := store.Get("username"); ok {
		t.Fatalf("username has no default and should be unset")
	}
}

func TestStoreSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	store := New(sampleForm())
	store.Set("username", "gopher")

	snapshot := store.Values()
	store.Set("username", "other")

	want := map[string]any{"plan": "free", "username": "gopher"}
	if diff := cmp.Diff(want, snapshot); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreTouchedAndDirty(t *testing.T) {
	t.Parallel()

	store := New(sampleForm())

	if store.Touched("plan") {
		t.Fatalf("fresh field must not be touched")
	}
	store.Touch("plan")
	if !store.Touched("plan") {
		t.Fatalf("Touch should stick")
	}

	if store.Dirty("plan") {
		t.Fatalf("default value is not dirty")
	}
	store.Set("plan", "pro")
	if !store.Dirty("plan") {
		t.Fatalf("changed value should be dirty")
	}
	store.Set("plan", "free")
	if store.Dirty("plan") {
		t.Fatalf("restored default should not be dirty")
	}
}

func TestStoreResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	store := New(sampleForm())
	store.Set("plan", "pro")
	store.Set("username", "gopher")
	store.Touch("username")

	store.Reset()

	if got, _ := store.Get("plan"); got != "free" {
		t.Fatalf("reset should restore defaults, got %v", got)
	}
	if _, ok := store.Get("username"); ok {
		t.Fatalf("reset should drop non-default values")
	}
	if store.Touched("username") {
		t.Fatalf("reset should clear the touched set")
	}
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	store := New(sampleForm())

	var gotName string
	var gotValue any
	store.Subscribe(func(name string, value any) {
		gotName, gotValue = name, value
	})

	store.Set("username", "gopher")
	if gotName != "username" || gotValue != "gopher" {
		t.Fatalf("subscriber saw (%q, %v)", gotName, gotValue)
	}
}
