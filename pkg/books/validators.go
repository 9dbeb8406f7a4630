package books

import (
	"github.com/shishobooks/folio/pkg/models"
)

type ListQuery struct {
	Sort      string `query:"sort" json:"sort,omitempty" default:"added" validate:"oneof=added name progress last_opened"`
	Favorites bool   `query:"favorites" json:"favorites,omitempty"`
}

type ImportPayload struct {
	Paths []string `json:"paths" validate:"required,min=1,max=500,dive,abspath"`
}

type ImportDirectoryPayload struct {
	Path string `json:"path" mod:"trim" validate:"required,abspath"`
}

// UpdateBookPayload is a complete book record. Updates replace the stored
// record wholesale, so every field must be sent back.
type UpdateBookPayload struct {
	ID             string             `json:"id" validate:"required"`
	Name           string             `json:"name" mod:"trim" validate:"max=500"`
	Description    string             `json:"description" validate:"max=20000"`
	CurrentPage    int                `json:"current_page" validate:"min=0"`
	PageCount      int                `json:"page_count" validate:"min=0"`
	Score          *float64           `json:"score" validate:"omitempty,min=0"`
	IsFavorite     bool               `json:"is_favorite"`
	IsOpen         bool               `json:"is_open"`
	TimeSpent      models.Duration    `json:"time_spent"`
	CompletedAt    *models.Timestamp  `json:"completed_at"`
	LastTimeOpened *models.Timestamp  `json:"last_time_opened"`
	TextHighlights []HighlightPayload `json:"text_highlights" mod:"dive" validate:"dive"`
	FileSize       int64              `json:"file_size" validate:"min=0"`
	BookPath       string             `json:"book_path"`
	ThumbnailPath  string             `json:"thumbnail_path"`

	// Progress is derived from the page fields and ignored on input.
	Progress float64 `json:"progress"`
}

type HighlightPayload struct {
	PageNumber int    `json:"page_number" validate:"min=0"`
	LineNumber int    `json:"line_number" validate:"min=0"`
	StartPos   int    `json:"start_pos" validate:"min=0"`
	Length     int    `json:"length" validate:"min=0"`
	Color      string `json:"color" mod:"ucase" validate:"required,oneof=RED BLUE CYAN GREEN GRAY PINK YELLOW PURPLE"`
}

func (p *UpdateBookPayload) book() *models.Book {
	highlights := make([]models.TextHighlight, 0, len(p.TextHighlights))
	for _, h := range p.TextHighlights {
		highlights = append(highlights, models.TextHighlight{
			PageNumber: h.PageNumber,
			LineNumber: h.LineNumber,
			StartPos:   h.StartPos,
			Length:     h.Length,
			Color:      models.HighlightColor(h.Color),
		})
	}

	return &models.Book{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		CurrentPage:    p.CurrentPage,
		PageCount:      p.PageCount,
		Score:          p.Score,
		IsFavorite:     p.IsFavorite,
		IsOpen:         p.IsOpen,
		TimeSpent:      p.TimeSpent,
		CompletedAt:    p.CompletedAt,
		LastTimeOpened: p.LastTimeOpened,
		TextHighlights: highlights,
		FileSize:       p.FileSize,
		BookPath:       p.BookPath,
		ThumbnailPath:  p.ThumbnailPath,
	}
}

// BookResponse is a book as returned to clients, with its reading progress.
type BookResponse struct {
	*models.Book
	Progress float64 `json:"progress"`
}

func newBookResponse(b *models.Book) BookResponse {
	return BookResponse{Book: b, Progress: b.Progress()}
}

func newBookResponses(books []*models.Book) []BookResponse {
	resp := make([]BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, newBookResponse(b))
	}
	return resp
}
