package filesystem

// BrowseQuery contains query parameters for the browse endpoint.
type BrowseQuery struct {
	Path           string `query:"path" json:"path,omitempty" default:"/" validate:"abspath"`
	ShowHidden     bool   `query:"show_hidden" json:"show_hidden,omitempty"`
	OnlyImportable bool   `query:"only_importable" json:"only_importable,omitempty"`
	Limit          int    `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset         int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search         string `query:"search" json:"search,omitempty"`
}

// Entry is a directory or file under the browsed path. Importable is set on
// files the library can import.
type Entry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsDir      bool   `json:"is_dir"`
	Importable bool   `json:"importable"`
	Size       int64  `json:"size,omitempty"`
}

type BrowseResponse struct {
	CurrentPath     string  `json:"current_path"`
	ParentPath      string  `json:"parent_path,omitempty"`
	Entries         []Entry `json:"entries"`
	Total           int     `json:"total"`
	ImportableCount int     `json:"importable_count"`
	HasMore         bool    `json:"has_more"`
}
