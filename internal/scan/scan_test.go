package scan

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func collect(ch <-chan FileItem) FileItems {
	var items FileItems
	for it := range ch {
		items = append(items, it)
	}
	return items
}

func TestRunFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.PNG"))
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.webp"))
	touch(t, filepath.Join(dir, ".cache", "d.jpg"))

	s := &FileScannerImpl{}
	items := collect(s.Run(dir, nil))

	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "sub", "c.webp"),
	}
	if got := paths(items); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	if items[0].Name != "a.jpg" || items[0].Size != 1 {
		t.Fatalf("item = %+v", items[0])
	}
}

func TestRunCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "b.png"))

	s := &FileScannerImpl{Extensions: map[string]bool{".png": true}}
	items := collect(s.Run(dir, nil))
	if len(items) != 1 || items[0].Name != "b.png" {
		t.Fatalf("items = %+v", items)
	}
}

func TestRunMissingDir(t *testing.T) {
	var msgs []string
	s := &FileScannerImpl{}
	items := collect(s.Run(filepath.Join(t.TempDir(), "nope"), func(m string) { msgs = append(msgs, m) }))
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
	if len(msgs) == 0 {
		t.Fatal("missing directory not reported")
	}
}

func TestShuffleKeepsItems(t *testing.T) {
	items := FileItems{{Path: "a"}, {Path: "b"}, {Path: "c"}, {Path: "d"}}
	items.Shuffle(rand.New(rand.NewSource(1)))
	seen := map[string]bool{}
	for _, it := range items {
		seen[it.Path] = true
	}
	if len(seen) != 4 {
		t.Fatalf("shuffle lost items: %v", paths(items))
	}
}

func paths(items FileItems) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}
