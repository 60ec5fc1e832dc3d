package registry

import "testing"

func init() {
	Register("test_always", "always true", func(Context) bool { return true })
}

func TestLookup(t *testing.T) {
	fn, ok := Lookup("test_always")
	if !ok || !fn(Context{}) {
		t.Fatal("registered rule not found")
	}
	if _, ok := Lookup("test_missing"); ok {
		t.Error("missing rule found")
	}
	if !Exists("test_always") || Exists("test_missing") {
		t.Error("Exists")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	Register("test_always", "", func(Context) bool { return false })
}

func TestListSorted(t *testing.T) {
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("List not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}

func TestLastColors(t *testing.T) {
	ctx := Context{Colors: []string{"a", "b", "c"}}
	if got := ctx.LastColors(2); len(got) != 2 || got[0] != "b" {
		t.Errorf("LastColors(2) = %v", got)
	}
	if ctx.LastColors(4) != nil || ctx.LastColors(0) != nil {
		t.Error("LastColors out of range should be nil")
	}
}
