package bundle

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Item types.
const (
	ItemChapter = "chapter"
	ItemArticle = "article"
)

// Revision is article revision identifier. Bundlers write it either as a
// number or as a string.
type Revision string

func (r *Revision) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Revision(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("invalid revision %s", data)
	}
	*r = Revision(data)
	return nil
}

// Item is either a chapter with nested articles or an article.
type Item struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Wiki     int      `json:"wiki"`
	Revision Revision `json:"revision"`
	// Columns is layout hint for typeset output, 0 means default.
	Columns int    `json:"columns,omitempty"`
	Items   []Item `json:"items,omitempty"`
}

// Wiki describes source wiki of articles.
type Wiki struct {
	BaseURL string `json:"baseurl"`
	Prefix  string `json:"prefix,omitempty"`
}

// Metabook is a collection manifest.
type Metabook struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Summary  string `json:"summary"`
	Lang     string `json:"lang"`
	Items    []Item `json:"items"`
	Wikis    []Wiki `json:"wikis"`
}

// ReadMetabook loads collection manifest from file.
func ReadMetabook(path string) (*Metabook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read metabook: %w", err)
	}
	var mb Metabook
	if err := json.Unmarshal(data, &mb); err != nil {
		return nil, fmt.Errorf("unable to decode metabook '%s': %w", path, err)
	}
	return &mb, nil
}

// HasChapters reports if collection is split into chapters.
func (mb *Metabook) HasChapters() bool {
	for _, it := range mb.Items {
		if it.Type == ItemChapter {
			return true
		}
	}
	return false
}

// SingleItem reports collections of at most one article without chapters.
func (mb *Metabook) SingleItem() bool {
	return !mb.HasChapters() && len(mb.Items) <= 1
}

// DisplayTitle returns collection title falling back to the title of the
// only item.
func (mb *Metabook) DisplayTitle() string {
	if mb.Title == "" && len(mb.Items) == 1 {
		return mb.Items[0].Title
	}
	return mb.Title
}

// CountArticles returns total number of articles in the collection.
func (mb *Metabook) CountArticles() int {
	var count func([]Item) int
	count = func(items []Item) int {
		n := 0
		for _, it := range items {
			if it.Type == ItemChapter {
				n += count(it.Items)
				continue
			}
			n++
		}
		return n
	}
	return count(mb.Items)
}

// WikiBaseURL returns base URL of wiki referenced by item.
func (mb *Metabook) WikiBaseURL(wiki int) (string, error) {
	if wiki < 0 || wiki >= len(mb.Wikis) {
		return "", fmt.Errorf("wiki %d is not described in metabook (%d wikis): %w", wiki, len(mb.Wikis), ErrNotFound)
	}
	return mb.Wikis[wiki].BaseURL, nil
}

// fixID makes sure collection has valid unique identifier.
func (mb *Metabook) fixID(log *zap.Logger) error {
	if _, err := uuid.Parse(mb.ID); err == nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate new collection UUID: %w", err)
	}
	log.Warn("Collection has invalid ID, correcting", zap.String("old_id", mb.ID), zap.Stringer("new_id", id))
	mb.ID = id.String()
	return nil
}
