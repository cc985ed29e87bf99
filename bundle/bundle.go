// Package bundle gives access to unpacked collection bundle: manifest and
// key-value databases with article HTML and wiki site information.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"mwrender/dom"
)

// Bundle file names.
const (
	MetabookName = "metabook.json"
	ParsoidDB    = "parsoid.db"
	SiteInfoDB   = "siteinfo.db"
)

// ErrNotFound is returned when requested key is absent from bundle.
var ErrNotFound = errors.New("not found in bundle")

// SiteInfo is a subset of wiki site information used for rendering.
type SiteInfo struct {
	General struct {
		Lang     string `json:"lang"`
		SiteName string `json:"sitename"`
		Base     string `json:"base"`
	} `json:"general"`
}

// Bundle is an opened collection bundle. It is not safe for concurrent use.
type Bundle struct {
	dir      string
	metabook *Metabook
	parsoid  *sqlite.Conn
	siteinfo *sqlite.Conn
	log      *zap.Logger
}

// Open opens bundle unpacked into dir. Databases are opened read only.
func Open(dir string, log *zap.Logger) (*Bundle, error) {
	mb, err := ReadMetabook(filepath.Join(dir, MetabookName))
	if err != nil {
		return nil, err
	}
	if err := mb.fixID(log); err != nil {
		return nil, err
	}

	b := &Bundle{dir: dir, metabook: mb, log: log}
	if b.parsoid, err = openDB(filepath.Join(dir, ParsoidDB)); err != nil {
		return nil, err
	}
	if b.siteinfo, err = openDB(filepath.Join(dir, SiteInfoDB)); err != nil {
		return nil, multierr.Append(err, b.Close())
	}
	log.Debug("Bundle opened", zap.String("dir", dir), zap.String("id", mb.ID), zap.Int("articles", mb.CountArticles()))
	return b, nil
}

func openDB(path string) (*sqlite.Conn, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open database '%s': %w", path, err)
	}
	return conn, nil
}

// Dir returns bundle directory.
func (b *Bundle) Dir() string { return b.dir }

// Metabook returns collection manifest.
func (b *Bundle) Metabook() *Metabook { return b.metabook }

// DocumentKey returns parsoid database key of article revision. Articles from
// the first wiki are stored without wiki prefix.
func DocumentKey(wiki int, revision Revision) string {
	if wiki == 0 {
		return string(revision)
	}
	return strconv.Itoa(wiki) + "|" + string(revision)
}

// Document returns parsed article HTML.
func (b *Bundle) Document(ctx context.Context, wiki int, revision Revision) (dom.Node, error) {
	key := DocumentKey(wiki, revision)
	val, err := get(ctx, b.parsoid, key)
	if err != nil {
		return nil, fmt.Errorf("unable to get document: %w", err)
	}
	b.log.Debug("Document loaded", zap.String("key", key), zap.Int("size", len(val)))
	doc, err := dom.ParseHTML(strings.NewReader(val), "text/html; charset=utf-8")
	if err != nil {
		return nil, fmt.Errorf("unable to parse document '%s': %w", key, err)
	}
	return doc, nil
}

// SiteInfo returns site information of wiki referenced by index.
func (b *Bundle) SiteInfo(ctx context.Context, wiki int) (SiteInfo, error) {
	var si SiteInfo

	key, err := b.metabook.WikiBaseURL(wiki)
	if err != nil {
		return si, err
	}
	val, err := get(ctx, b.siteinfo, key)
	if err != nil {
		return si, fmt.Errorf("unable to get site info: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &si); err != nil {
		return si, fmt.Errorf("unable to decode site info '%s': %w", key, err)
	}
	return si, nil
}

// Close releases databases.
func (b *Bundle) Close() (err error) {
	for _, conn := range []*sqlite.Conn{b.parsoid, b.siteinfo} {
		if conn != nil {
			err = multierr.Append(err, conn.Close())
		}
	}
	b.parsoid, b.siteinfo = nil, nil
	return err
}

func get(ctx context.Context, conn *sqlite.Conn, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	conn.SetInterrupt(ctx.Done())
	defer conn.SetInterrupt(nil)

	var (
		val   string
		found bool
	)
	err := sqlitex.Execute(conn, `SELECT val FROM kv_table WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			val, found = stmt.ColumnText(0), true
			return nil
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("unable to query key '%s': %w", key, err)
	}
	if !found {
		return "", fmt.Errorf("key '%s': %w", key, ErrNotFound)
	}
	return val, nil
}
