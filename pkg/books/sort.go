package books

import (
	"sort"

	"github.com/shishobooks/folio/pkg/models"
	"github.com/shishobooks/folio/pkg/sortname"
)

func filterBooks(books []*models.Book, params ListQuery) []*models.Book {
	if !params.Favorites {
		return books
	}
	filtered := make([]*models.Book, 0, len(books))
	for _, b := range books {
		if b.IsFavorite {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// sortBooks orders books for listing. "added" keeps catalog order. Ties keep
// catalog order too.
func sortBooks(books []*models.Book, by string) []*models.Book {
	var less func(a, b *models.Book) bool
	switch by {
	case "name":
		less = func(a, b *models.Book) bool { return sortname.Less(a.Name, b.Name) }
	case "progress":
		less = func(a, b *models.Book) bool { return a.Progress() > b.Progress() }
	case "last_opened":
		less = func(a, b *models.Book) bool {
			if a.LastTimeOpened == nil || b.LastTimeOpened == nil {
				return a.LastTimeOpened != nil && b.LastTimeOpened == nil
			}
			return a.LastTimeOpened.After(b.LastTimeOpened.Time)
		}
	default:
		return books
	}
	sort.SliceStable(books, func(i, j int) bool { return less(books[i], books[j]) })
	return books
}
