package converter

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover_Directory(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "a.xlsx"))
	touch(t, filepath.Join(tmp, "B.XLSX"))
	touch(t, filepath.Join(tmp, "c.txt"))
	touch(t, filepath.Join(tmp, "sub", "d.xlsx"))

	got := Discover(tmp)

	// WalkDir visits lexically: uppercase sorts before lowercase.
	want := []string{
		filepath.Join(tmp, "B.XLSX"),
		filepath.Join(tmp, "a.xlsx"),
		filepath.Join(tmp, "sub", "d.xlsx"),
	}
	if len(got) != len(want) {
		t.Fatalf("Discover() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Discover()[%d] = %s; want %s", i, got[i], want[i])
		}
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	tmp := t.TempDir()
	xlsx := filepath.Join(tmp, "report.xlsx")
	txt := filepath.Join(tmp, "report.txt")
	touch(t, xlsx)
	touch(t, txt)

	got := Discover(xlsx)
	if len(got) != 1 {
		t.Fatalf("Discover(%s) = %v; want one entry", xlsx, got)
	}
	if !filepath.IsAbs(got[0]) {
		t.Errorf("Discover() single-file path %s is not absolute", got[0])
	}
	if filepath.Base(got[0]) != "report.xlsx" {
		t.Errorf("Discover() = %s; want report.xlsx", got[0])
	}

	if got := Discover(txt); len(got) != 0 {
		t.Errorf("Discover(%s) = %v; want empty", txt, got)
	}
}

func TestDiscover_CaseInsensitiveExt(t *testing.T) {
	tmp := t.TempDir()
	mixed := filepath.Join(tmp, "data.XlSx")
	touch(t, mixed)

	if got := Discover(mixed); len(got) != 1 {
		t.Errorf("Discover(%s) = %v; want one entry", mixed, got)
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	if got := Discover(filepath.Join(t.TempDir(), "nope")); len(got) != 0 {
		t.Errorf("Discover(missing) = %v; want empty", got)
	}
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	if got := Discover(t.TempDir()); len(got) != 0 {
		t.Errorf("Discover(empty dir) = %v; want empty", got)
	}
}
