package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func writeOutput(t *testing.T, o Output, name, data string) error {
	t.Helper()

	w, err := o.Create(name)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return w.Close()
}

func TestDirOutput(t *testing.T) {
	dir := t.TempDir()
	o := newDirOutput(dir, false, zaptest.NewLogger(t))

	if err := writeOutput(t, o, filepath.Join("sub", "a.tex"), "one"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sub", "a.tex"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "one" {
		t.Errorf("file content = %q, want %q", data, "one")
	}

	err = writeOutput(t, o, filepath.Join("sub", "a.tex"), "two")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Create() error = %v, want already exists", err)
	}
	if got := o.Created(); len(got) != 1 || got[0] != filepath.Join(dir, "sub", "a.tex") {
		t.Errorf("Created() = %v", got)
	}
}

func TestDirOutput_Overwrite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "output.txt"), []byte("old content"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	o := newDirOutput(dir, true, zaptest.NewLogger(t))
	if err := writeOutput(t, o, "output.txt", "new"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "output.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "new" {
		t.Errorf("file content = %q, want %q", data, "new")
	}
}

func TestStreamOutput(t *testing.T) {
	var b bytes.Buffer
	o := streamOutput{w: &b}
	for _, s := range []string{"first ", "second"} {
		if err := writeOutput(t, o, "ignored", s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if b.String() != "first second" {
		t.Errorf("stream = %q, want %q", b.String(), "first second")
	}
}
