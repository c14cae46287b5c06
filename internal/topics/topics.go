// Package topics supplies the (category, keyword) pairs games are played on.
package topics

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/models"
)

//go:embed topics.json
var builtin []byte

// Catalog is an immutable set of keywords grouped by category
type Catalog struct {
	categories []string
	words      map[string][]string
	index      map[string]string // lower-cased keyword -> category
}

// Parse reads a catalog from a JSON object mapping category to keywords
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	c := &Catalog{words: make(map[string][]string), index: make(map[string]string)}
	// sorted so a keyword listed twice always maps to the same category
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		words := raw[name]
		category := strings.TrimSpace(name)
		if category == "" {
			continue
		}
		var kept []string
		for _, w := range words {
			w = strings.TrimSpace(w)
			if w == "" {
				continue
			}
			kept = append(kept, w)
			if _, dup := c.index[strings.ToLower(w)]; !dup {
				c.index[strings.ToLower(w)] = category
			}
		}
		if len(kept) == 0 {
			continue
		}
		c.categories = append(c.categories, category)
		c.words[category] = kept
	}
	if len(c.categories) == 0 {
		return nil, errors.New("parse topics: no categories with keywords")
	}
	slices.Sort(c.categories)
	return c, nil
}

// Load reads a catalog from path, or returns the built-in one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}
	return Parse(data)
}

// Builtin returns the catalog compiled into the binary
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns the category names in sorted order
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// Keywords returns the keywords of one category
func (c *Catalog) Keywords(category string) []string {
	return slices.Clone(c.words[category])
}

// Random draws a category and then a keyword within it
func (c *Catalog) Random(src game.Source) models.Topic {
	category := game.Pick(src, c.categories)
	return models.Topic{Category: category, Keyword: game.Pick(src, c.words[category])}
}

// CategoryOf looks up the category of a keyword, ignoring case
func (c *Catalog) CategoryOf(keyword string) (string, bool) {
	category, ok := c.index[strings.ToLower(strings.TrimSpace(keyword))]
	return category, ok
}

// Resolve completes a requested topic. With no keyword a random topic is
// drawn; a keyword without a category gets its catalog category, or the
// default category when the keyword is unknown.
func (c *Catalog) Resolve(src game.Source, keyword, category string) models.Topic {
	keyword, category = strings.TrimSpace(keyword), strings.TrimSpace(category)
	if keyword == "" {
		return c.Random(src)
	}
	if category == "" {
		var ok bool
		if category, ok = c.CategoryOf(keyword); !ok {
			category = game.DefaultCategory
		}
	}
	return models.Topic{Category: category, Keyword: keyword}
}
