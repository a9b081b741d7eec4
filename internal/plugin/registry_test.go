package plugin

import (
	"reflect"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T, calls *[]string) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, name := range []string{"one", "two"} {
		name := name
		if err := r.Register(name, func(Settings) (Plugin, error) {
			return doc(name, calls, Dependencies{}), nil
		}); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	}
	return r
}

func TestRegistryRegister_Duplicate(t *testing.T) {
	var calls []string
	r := newTestRegistry(t, &calls)

	err := r.Register("one", func(Settings) (Plugin, error) { return nil, nil })
	if err == nil {
		t.Error("Should not allow duplicate registration")
	}
	if err := r.Register("", func(Settings) (Plugin, error) { return nil, nil }); err == nil {
		t.Error("Should not allow empty name")
	}
	if err := r.Register("nil", nil); err == nil {
		t.Error("Should not allow nil factory")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	var calls []string
	r := newTestRegistry(t, &calls)

	if got := r.Names(); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("Names() = %v", got)
	}
	if !r.Has("two") || r.Has("three") {
		t.Error("Has() mismatch")
	}
}

func TestRegistryBuild_UnknownName(t *testing.T) {
	var calls []string
	r := newTestRegistry(t, &calls)

	_, err := r.Build([]string{"one", "three"}, Settings{})
	if err == nil || !strings.Contains(err.Error(), `unknown plugin "three"`) {
		t.Fatalf("expected unknown plugin error, got %v", err)
	}
}

func TestRegistryBuild_OrderIndependentOfInput(t *testing.T) {
	var calls []string
	r := newTestRegistry(t, &calls)

	set, err := r.Build([]string{"two", "one"}, Settings{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if got := set.Names(); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("Names() = %v", got)
	}
}
