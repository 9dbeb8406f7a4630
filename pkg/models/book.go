package models

import (
	"math"

	"github.com/shishobooks/folio/pkg/liberr"
)

// Book is one catalogued document. BookPath and ThumbnailPath always point
// into the managed file store, never at the file the user imported from.
type Book struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CurrentPage    int             `json:"current_page"`
	PageCount      int             `json:"page_count"`
	Score          *float64        `json:"score"`
	IsFavorite     bool            `json:"is_favorite"`
	IsOpen         bool            `json:"is_open"`
	TimeSpent      Duration        `json:"time_spent"`
	CompletedAt    *Timestamp      `json:"completed_at"`
	LastTimeOpened *Timestamp      `json:"last_time_opened"`
	TextHighlights []TextHighlight `json:"text_highlights"`
	FileSize       int64           `json:"file_size"`
	BookPath       string          `json:"book_path"`
	ThumbnailPath  string          `json:"thumbnail_path"`
}

// NewBook returns a freshly imported book with every progress field at its
// zero value.
func NewBook(id, name string, fileSize int64) *Book {
	return &Book{
		ID:             id,
		Name:           name,
		TextHighlights: []TextHighlight{},
		FileSize:       fileSize,
	}
}

// Clone returns a deep copy so callers can never alias catalog state.
func (b *Book) Clone() *Book {
	c := *b
	if b.Score != nil {
		score := *b.Score
		c.Score = &score
	}
	if b.CompletedAt != nil {
		ts := *b.CompletedAt
		c.CompletedAt = &ts
	}
	if b.LastTimeOpened != nil {
		ts := *b.LastTimeOpened
		c.LastTimeOpened = &ts
	}
	if b.TextHighlights != nil {
		c.TextHighlights = make([]TextHighlight, len(b.TextHighlights))
		copy(c.TextHighlights, b.TextHighlights)
	}
	return &c
}

// Progress is the percentage of pages read, rounded to one decimal.
func (b *Book) Progress() float64 {
	if b.PageCount <= 0 {
		return 0
	}
	return math.Round(1000*float64(b.CurrentPage)/float64(b.PageCount)) / 10
}

// Validate checks the invariants a stored record must hold.
func (b *Book) Validate() error {
	if b.ID == "" {
		return liberr.Invalid("book id is required")
	}
	if b.CurrentPage < 0 {
		return liberr.Invalid("current_page %d is negative", b.CurrentPage)
	}
	if b.PageCount < 0 {
		return liberr.Invalid("page_count %d is negative", b.PageCount)
	}
	if b.PageCount > 0 && b.CurrentPage > b.PageCount {
		return liberr.Invalid("current_page %d exceeds page_count %d", b.CurrentPage, b.PageCount)
	}
	if b.FileSize < 0 {
		return liberr.Invalid("file_size %d is negative", b.FileSize)
	}
	if b.TimeSpent < 0 {
		return liberr.Invalid("time_spent %s is negative", b.TimeSpent.Std())
	}
	if b.Score != nil && (math.IsNaN(*b.Score) || math.IsInf(*b.Score, 0)) {
		return liberr.Invalid("score must be a finite number")
	}
	for i, h := range b.TextHighlights {
		if h.PageNumber < 0 || h.LineNumber < 0 || h.StartPos < 0 || h.Length < 0 {
			return liberr.Invalid("text_highlights[%d] has a negative position", i)
		}
		if !h.Color.Valid() {
			return liberr.Invalid("text_highlights[%d] has unknown color %q", i, h.Color)
		}
	}
	return nil
}
