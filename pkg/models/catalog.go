package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/folio/pkg/liberr"
)

const DefaultTheme = "dark"

// DaysPerWeek is the number of slots in WeeklyCounters.
const DaysPerWeek = 7

// WeeklyCounters holds one reading-activity counter per weekday. Decoding
// rejects arrays of any other length instead of silently padding them.
type WeeklyCounters [DaysPerWeek]int

func (w *WeeklyCounters) UnmarshalJSON(data []byte) error {
	var counters []int
	if err := json.Unmarshal(data, &counters); err != nil {
		return errors.WithStack(err)
	}
	if len(counters) != DaysPerWeek {
		return errors.Errorf("expected %d weekly counters, got %d", DaysPerWeek, len(counters))
	}
	copy(w[:], counters)
	return nil
}

// Catalog is the complete persisted state: preferences, reading statistics
// and every book record in insertion order.
type Catalog struct {
	Theme                 string         `json:"theme"`
	HoursReadThisWeek     WeeklyCounters `json:"hours_read_this_week"`
	AverageHoursThisMonth int            `json:"average_hours_this_month"`
	MostActiveDay         Date           `json:"most_active_day"`
	Books                 []*Book        `json:"books"`
}

// Stats is the reading-activity part of the catalog.
type Stats struct {
	HoursReadThisWeek     WeeklyCounters `json:"hours_read_this_week"`
	AverageHoursThisMonth int            `json:"average_hours_this_month"`
	MostActiveDay         Date           `json:"most_active_day"`
}

// NewCatalog returns an empty catalog with the default theme.
func NewCatalog(now time.Time) *Catalog {
	return &Catalog{
		Theme:         DefaultTheme,
		MostActiveDay: DateOf(now),
		Books:         []*Book{},
	}
}

func (c *Catalog) Clone() *Catalog {
	cp := *c
	cp.Books = c.ListBooks()
	return &cp
}

// ListBooks returns copies of every book in insertion order.
func (c *Catalog) ListBooks() []*Book {
	books := make([]*Book, 0, len(c.Books))
	for _, b := range c.Books {
		books = append(books, b.Clone())
	}
	return books
}

func (c *Catalog) indexOf(id string) int {
	for i, b := range c.Books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Book returns a copy of the book with the given id.
func (c *Catalog) Book(id string) (*Book, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return c.Books[i].Clone(), true
}

// AddBook appends a copy of book. Identifiers must be unique.
func (c *Catalog) AddBook(book *Book) error {
	if c.indexOf(book.ID) >= 0 {
		return liberr.Invalid("book %q already exists", book.ID)
	}
	c.Books = append(c.Books, book.Clone())
	return nil
}

// RemoveBook deletes the book with the given id and reports whether it was
// present.
func (c *Catalog) RemoveBook(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.Books = append(c.Books[:i], c.Books[i+1:]...)
	return true
}

// ReplaceBook swaps the stored record with the same id for a copy of book,
// keeping its position.
func (c *Catalog) ReplaceBook(book *Book) bool {
	i := c.indexOf(book.ID)
	if i < 0 {
		return false
	}
	c.Books[i] = book.Clone()
	return true
}

func (c *Catalog) Stats() Stats {
	return Stats{
		HoursReadThisWeek:     c.HoursReadThisWeek,
		AverageHoursThisMonth: c.AverageHoursThisMonth,
		MostActiveDay:         c.MostActiveDay,
	}
}

// Validate checks catalog-wide invariants.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Books))
	for i, b := range c.Books {
		if b == nil {
			return liberr.Invalid("books[%d] is null", i)
		}
		if _, ok := seen[b.ID]; ok {
			return liberr.Invalid("duplicate book id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
		if err := b.Validate(); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
