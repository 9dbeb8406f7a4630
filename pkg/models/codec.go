package models

import (
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// EncodeCatalog serializes the whole catalog.
func EncodeCatalog(c *Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// DecodeCatalog parses a persisted catalog and checks its invariants. Fields
// missing from older files keep their defaults.
func DecodeCatalog(data []byte) (*Catalog, error) {
	c := &Catalog{Theme: DefaultTheme}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.WithStack(err)
	}
	if c.Books == nil {
		c.Books = []*Book{}
	}
	for _, b := range c.Books {
		if b != nil && b.TextHighlights == nil {
			b.TextHighlights = []TextHighlight{}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}
