package models

import (
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

type HighlightColor string

const (
	HighlightRed    HighlightColor = "RED"
	HighlightBlue   HighlightColor = "BLUE"
	HighlightCyan   HighlightColor = "CYAN"
	HighlightGreen  HighlightColor = "GREEN"
	HighlightGray   HighlightColor = "GRAY"
	HighlightPink   HighlightColor = "PINK"
	HighlightYellow HighlightColor = "YELLOW"
	HighlightPurple HighlightColor = "PURPLE"
)

// HighlightColors lists every accepted color in declaration order.
var HighlightColors = []HighlightColor{
	HighlightRed,
	HighlightBlue,
	HighlightCyan,
	HighlightGreen,
	HighlightGray,
	HighlightPink,
	HighlightYellow,
	HighlightPurple,
}

func (c HighlightColor) Valid() bool {
	for _, v := range HighlightColors {
		if c == v {
			return true
		}
	}
	return false
}

func (c *HighlightColor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	color := HighlightColor(s)
	if !color.Valid() {
		return errors.Errorf("unknown highlight color %q", s)
	}
	*c = color
	return nil
}

// TextHighlight marks a span of text on one page.
type TextHighlight struct {
	PageNumber int            `json:"page_number"`
	LineNumber int            `json:"line_number"`
	StartPos   int            `json:"start_pos"`
	Length     int            `json:"length"`
	Color      HighlightColor `json:"color"`
}
