package station

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testList() *List {
	return New([]Station{
		{Name: "One", URL: "http://one"},
		{Name: "Two", URL: "http://two"},
		{Name: "Three", URL: "http://three"},
	})
}

func TestNewFallsBackToDefaults(t *testing.T) {
	l := New(nil)
	if l.Len() != len(Defaults) {
		t.Fatalf("expected %d default stations, got %d", len(Defaults), l.Len())
	}
	if l.Current() != Defaults[0] {
		t.Fatalf("expected first default to be current, got %+v", l.Current())
	}
}

func TestNextAndPreviousWrap(t *testing.T) {
	l := testList()
	if got := l.Previous(); got.Name != "Three" {
		t.Fatalf("expected Previous at start to wrap to Three, got %q", got.Name)
	}
	if got := l.Next(); got.Name != "One" {
		t.Fatalf("expected Next at end to wrap to One, got %q", got.Name)
	}
	l.Next()
	if l.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", l.CurrentIndex())
	}
}

func TestSelectIgnoresOutOfRange(t *testing.T) {
	l := testList()
	if !l.Select(2) || l.Current().Name != "Three" {
		t.Fatalf("expected Select(2) to choose Three, got %+v", l.Current())
	}
	if l.Select(3) || l.Select(-1) {
		t.Fatal("expected out-of-range Select to fail")
	}
	if l.CurrentIndex() != 2 {
		t.Fatalf("expected index to stay 2, got %d", l.CurrentIndex())
	}
}

func TestIndexOfMatchesURLThenName(t *testing.T) {
	l := testList()
	tests := []struct {
		in   string
		want int
	}{
		{"http://two", 1},
		{"three", 2},
		{"THREE", 2},
		{"http://missing", -1},
	}
	for _, tt := range tests {
		if got := l.IndexOf(tt.in); got != tt.want {
			t.Fatalf("IndexOf(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	l := testList()
	all := l.All()
	all[0].Name = "changed"
	if l.Current().Name != "One" {
		t.Fatal("expected All to return a copy")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stations.json")
	data := `[{"name":"A","url":"http://a"},{"name":"","url":" http://b "},{"name":"skip","url":""}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 stations, got %d", l.Len())
	}
	if got := l.All()[1]; got.Name != "http://b" || got.URL != "http://b" {
		t.Fatalf("expected unnamed station to use its URL, got %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrNoStations) {
		t.Fatalf("expected ErrNoStations, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("expected parse error")
	}
}
