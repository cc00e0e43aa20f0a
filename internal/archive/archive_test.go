package archive

import (
	stdzip "archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTestZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer out.Close()

	w := stdzip.NewWriter(out)
	for name, content := range members {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func readZipMembers(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := stdzip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()

	members := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open member %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read member %s: %v", f.Name, err)
		}
		members[f.Name] = string(data)
	}
	return members
}

func TestExtract(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "in.zip")
	writeTestZip(t, zipPath, map[string]string{
		"a.srt":        "1\n00:00:01,000 --> 00:00:02,000\nHello\n",
		"sub/b.str":    "greeting=Hello\n",
		"sub/deep/c.x": "ignored",
	})

	dest := filepath.Join(tmp, "out")
	if err := Extract(zipPath, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, rel := range []string{"a.srt", "sub/b.str", "sub/deep/c.x"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}
}

func TestExtract_Corrupt(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "bad.zip")
	if err := os.WriteFile(zipPath, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Extract(zipPath, filepath.Join(tmp, "out"))
	if err == nil {
		t.Fatal("expected error for corrupt archive")
	}
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestExtract_RejectsTraversal(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "evil.zip")
	writeTestZip(t, zipPath, map[string]string{
		"../escape.txt": "nope",
	})

	if err := Extract(zipPath, filepath.Join(tmp, "out")); err == nil {
		t.Fatal("expected error for path traversal entry")
	}
}

func TestRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	members := map[string]string{
		"a.srt":     "1\n00:00:01,000 --> 00:00:02,000\nHello\n",
		"dir/b.str": "key=value\n",
		"dir/c.bin": string([]byte{0x00, 0x01, 0xff}),
	}

	inZip := filepath.Join(tmp, "in.zip")
	writeTestZip(t, inZip, members)

	work := filepath.Join(tmp, "work")
	if err := Extract(inZip, work); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	outZip := filepath.Join(tmp, "out.zip")
	if err := Repackage(work, outZip); err != nil {
		t.Fatalf("Repackage failed: %v", err)
	}

	got := readZipMembers(t, outZip)

	var wantNames, gotNames []string
	for name := range members {
		wantNames = append(wantNames, name)
	}
	for name := range got {
		gotNames = append(gotNames, name)
	}
	sort.Strings(wantNames)
	sort.Strings(gotNames)

	if len(gotNames) != len(wantNames) {
		t.Fatalf("member count mismatch: got %v, want %v", gotNames, wantNames)
	}
	for i := range wantNames {
		if gotNames[i] != wantNames[i] {
			t.Fatalf("member set mismatch: got %v, want %v", gotNames, wantNames)
		}
	}
	for name, content := range members {
		if got[name] != content {
			t.Errorf("member %s content changed after round trip", name)
		}
	}
}

func TestRepackage_EmptyDir(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "empty")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}

	outZip := filepath.Join(tmp, "out.zip")
	if err := Repackage(src, outZip); err != nil {
		t.Fatalf("Repackage failed: %v", err)
	}
	if members := readZipMembers(t, outZip); len(members) != 0 {
		t.Errorf("expected empty archive, got %d members", len(members))
	}
}
