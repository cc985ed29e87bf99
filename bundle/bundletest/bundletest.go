// Package bundletest builds collection bundles for tests.
package bundletest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Contents describes bundle to create. Metabook is marshalled as is, so
// tests could use either typed or ad hoc values.
type Contents struct {
	Metabook  any
	Documents map[string]string
	SiteInfo  map[string]string
}

// Write creates unpacked bundle in dir.
func Write(t *testing.T, dir string, c Contents) {
	t.Helper()

	data, err := json.Marshal(c.Metabook)
	if err != nil {
		t.Fatalf("unable to marshal metabook: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metabook.json"), data, 0644); err != nil {
		t.Fatalf("unable to write metabook: %v", err)
	}
	writeDB(t, filepath.Join(dir, "parsoid.db"), c.Documents)
	writeDB(t, filepath.Join(dir, "siteinfo.db"), c.SiteInfo)
}

// Zip packs unpacked bundle from dir into archive and returns its path.
func Zip(t *testing.T, dir string) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("unable to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range []string{"metabook.json", "parsoid.db", "siteinfo.db"} {
		src, err := os.Open(filepath.Join(dir, entry))
		if err != nil {
			t.Fatalf("unable to open %s: %v", entry, err)
		}
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("unable to add %s: %v", entry, err)
		}
		if _, err := io.Copy(w, src); err != nil {
			t.Fatalf("unable to copy %s: %v", entry, err)
		}
		src.Close()
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unable to finish archive: %v", err)
	}
	return name
}

func writeDB(t *testing.T, path string, kv map[string]string) {
	t.Helper()

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		t.Fatalf("unable to create database: %v", err)
	}
	defer conn.Close()

	if err := sqlitex.ExecuteScript(conn, `CREATE TABLE kv_table (key TEXT PRIMARY KEY, val TEXT);`, nil); err != nil {
		t.Fatalf("unable to create table: %v", err)
	}
	for k, v := range kv {
		err := sqlitex.Execute(conn, `INSERT INTO kv_table (key, val) VALUES (?, ?);`, &sqlitex.ExecOptions{
			Args: []any{k, v},
		})
		if err != nil {
			t.Fatalf("unable to insert %q: %v", k, err)
		}
	}
}
